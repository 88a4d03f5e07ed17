package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boatsim/internal/sim"
)

const minSamples = 4

var ErrTooShort = errors.New("analysis: trace too short")

// Spectrum is a one-sided power spectrum. Freqs are in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum removes the mean from signal and returns its one-sided
// power spectrum for sample spacing dt.
func PowerSpectrum(signal []float64, dt float64) Spectrum {
	n := len(signal)
	if n == 0 || dt <= 0 {
		return Spectrum{}
	}

	mean := stat.Mean(signal, nil)
	centered := make([]float64, n)
	for i, v := range signal {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	s := Spectrum{Freqs: make([]float64, half), Power: make([]float64, half)}
	for k := 0; k < half; k++ {
		mag := cmplx.Abs(coeffs[k])
		s.Freqs[k] = float64(k) / (float64(n) * dt)
		s.Power[k] = mag * mag / float64(n)
	}
	return s
}

// Dominant is the strongest non-DC bin.
func (s Spectrum) Dominant() (freq, power float64) {
	if len(s.Power) < 2 {
		return 0, 0
	}
	i := floats.MaxIdx(s.Power[1:]) + 1
	return s.Freqs[i], s.Power[i]
}

// Signal extracts one named channel from a trace.
func Signal(samples []sim.Sample, name string) ([]float64, error) {
	var get func(sim.Sample) float64
	switch name {
	case "x":
		get = func(s sim.Sample) float64 { return s.X }
	case "y":
		get = func(s sim.Sample) float64 { return s.Y }
	case "orientation":
		get = func(s sim.Sample) float64 { return s.Orientation }
	case "speed":
		get = func(s sim.Sample) float64 { return s.LinearVelocity }
	case "yaw_rate":
		get = func(s sim.Sample) float64 { return s.AngularVelocity }
	case "linear_accel":
		get = func(s sim.Sample) float64 { return s.LinearAccel }
	case "angular_accel":
		get = func(s sim.Sample) float64 { return s.AngularAccel }
	default:
		return nil, fmt.Errorf("analysis: unknown channel %q", name)
	}

	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out, nil
}

// SampleInterval is the spacing of the first two samples.
func SampleInterval(samples []sim.Sample) (float64, error) {
	if len(samples) < minSamples {
		return 0, ErrTooShort
	}
	dt := samples[1].Time - samples[0].Time
	if dt <= 0 || math.IsNaN(dt) {
		return 0, fmt.Errorf("analysis: non-increasing sample times")
	}
	return dt, nil
}

// Oscillation summarizes the dominant periodic component of a channel.
// Amplitude assumes a sinusoid: sqrt(2) times the standard deviation.
type Oscillation struct {
	Channel   string
	Frequency float64
	Period    float64
	Amplitude float64
}

func ChannelOscillation(samples []sim.Sample, channel string) (Oscillation, error) {
	dt, err := SampleInterval(samples)
	if err != nil {
		return Oscillation{}, err
	}
	sig, err := Signal(samples, channel)
	if err != nil {
		return Oscillation{}, err
	}

	freq, _ := PowerSpectrum(sig, dt).Dominant()
	osc := Oscillation{
		Channel:   channel,
		Frequency: freq,
		Amplitude: math.Sqrt2 * stat.StdDev(sig, nil),
	}
	if freq > 0 {
		osc.Period = 1 / freq
	}
	return osc, nil
}

func YawOscillation(samples []sim.Sample) (Oscillation, error) {
	return ChannelOscillation(samples, "yaw_rate")
}
