package control

import (
	"fmt"

	"github.com/san-kum/boatsim/internal/geom"
)

// PIDConfig is the serialisable form of a PID. Zero limits mean unlimited.
type PIDConfig struct {
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"`
	OutputLimit   float64 `yaml:"output_limit"`
}

type PID struct {
	Kp            float64
	Ki            float64
	Kd            float64
	IntegralLimit float64
	OutputLimit   float64
	integral      float64
	prevErr       float64
	first         bool
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		first: true,
	}
}

func FromConfig(cfg PIDConfig) *PID {
	p := NewPID(cfg.Kp, cfg.Ki, cfg.Kd)
	p.IntegralLimit = cfg.IntegralLimit
	p.OutputLimit = cfg.OutputLimit
	return p
}

// Update advances the loop by dt seconds and returns the control output.
// A non-positive dt returns the proportional term plus the stored integral
// term and leaves the controller memory untouched.
func (p *PID) Update(err, dt float64) float64 {
	if dt <= 0 {
		return geom.ClampAbs(p.Kp*err+p.Ki*p.integral, p.OutputLimit)
	}

	p.integral = geom.ClampAbs(p.integral+err*dt, p.IntegralLimit)

	derivative := 0.0
	if p.first {
		p.first = false
	} else {
		derivative = (err - p.prevErr) / dt
	}
	p.prevErr = err

	u := p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	return geom.ClampAbs(u, p.OutputLimit)
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) SetGains(kp, ki, kd float64) {
	p.Kp, p.Ki, p.Kd = kp, ki, kd
}

func (p *PID) Integral() float64 { return p.integral }

func (p *PID) Config() PIDConfig {
	return PIDConfig{
		Kp:            p.Kp,
		Ki:            p.Ki,
		Kd:            p.Kd,
		IntegralLimit: p.IntegralLimit,
		OutputLimit:   p.OutputLimit,
	}
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a PID gain
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	default:
		return fmt.Errorf("unknown pid param: %s", name)
	}
	return nil
}
