package analysis

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/san-kum/boatsim/internal/sim"
)

func sineTrace(n int, dt, freq, amp float64) []sim.Sample {
	out := make([]sim.Sample, n)
	for i := range out {
		t := float64(i) * dt
		out[i] = sim.Sample{
			Time:            t,
			X:               10 * t,
			AngularVelocity: amp * math.Sin(2*math.Pi*freq*t),
		}
	}
	return out
}

func TestPowerSpectrumPeak(t *testing.T) {
	// 20 s at 20 Hz puts 0.5 Hz exactly on bin 10
	sig := make([]float64, 400)
	for i := range sig {
		sig[i] = 3 + math.Sin(2*math.Pi*0.5*float64(i)*0.05)
	}

	s := PowerSpectrum(sig, 0.05)
	test.That(t, s.Freqs, test.ShouldHaveLength, 201)
	test.That(t, s.Freqs[200], test.ShouldAlmostEqual, 10.0)
	test.That(t, s.Power[0], test.ShouldAlmostEqual, 0.0, 1e-9)

	f, p := s.Dominant()
	test.That(t, f, test.ShouldAlmostEqual, 0.5)
	test.That(t, p, test.ShouldAlmostEqual, 100.0, 1e-6)
}

func TestPowerSpectrumEmpty(t *testing.T) {
	test.That(t, PowerSpectrum(nil, 0.1).Power, test.ShouldBeEmpty)
	f, p := PowerSpectrum([]float64{1, 2}, 0).Dominant()
	test.That(t, f, test.ShouldEqual, 0.0)
	test.That(t, p, test.ShouldEqual, 0.0)
}

func TestYawOscillation(t *testing.T) {
	osc, err := YawOscillation(sineTrace(400, 0.05, 0.5, 1))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, osc.Channel, test.ShouldEqual, "yaw_rate")
	test.That(t, osc.Frequency, test.ShouldAlmostEqual, 0.5)
	test.That(t, osc.Period, test.ShouldAlmostEqual, 2.0)
	test.That(t, osc.Amplitude, test.ShouldAlmostEqual, 1.0, 0.01)
}

func TestChannelOscillationErrors(t *testing.T) {
	_, err := YawOscillation(sineTrace(3, 0.05, 0.5, 1))
	test.That(t, err, test.ShouldEqual, ErrTooShort)

	_, err = ChannelOscillation(sineTrace(10, 0.05, 0.5, 1), "heave")
	test.That(t, err, test.ShouldNotBeNil)

	frozen := sineTrace(10, 0, 0.5, 1)
	_, err = ChannelOscillation(frozen, "x")
	test.That(t, err, test.ShouldNotBeNil)
}
