package config

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/boatsim/internal/boat"
	"github.com/san-kum/boatsim/internal/control"
	"github.com/san-kum/boatsim/internal/course"
	"github.com/san-kum/boatsim/internal/geom"
	"github.com/san-kum/boatsim/internal/guidance"
	"github.com/san-kum/boatsim/internal/mission"
)

// PixelsPerMeter converts the gate bounds, given in metres, into world
// units. The hull and the guidance limits are already in world units.
const PixelsPerMeter = 35.0

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 60.0
	DefaultRunout   = 100.0
	DefaultStrategy = "waypoint"
)

type Config struct {
	Sim        SimConfig              `yaml:"sim"`
	Start      boat.Pose              `yaml:"start"`
	Boat       boat.Params            `yaml:"boat"`
	Limits     guidance.Limits        `yaml:"limits"`
	HeadingPID control.PIDConfig      `yaml:"heading_pid"`
	SpeedPID   control.PIDConfig      `yaml:"speed_pid"`
	Pursuit    guidance.PursuitConfig `yaml:"pursuit"`
	Gate       GateConfig             `yaml:"gate"`
	Current    CurrentConfig          `yaml:"current"`
}

type SimConfig struct {
	Dt           float64 `yaml:"dt"`
	Duration     float64 `yaml:"duration"`
	Seed         int64   `yaml:"seed"`
	Strategy     string  `yaml:"strategy"`
	Tolerance    float64 `yaml:"tolerance"`
	Runout       float64 `yaml:"runout"`
	StopWhenDone bool    `yaml:"stop_when_done"`
	RestSpeed    float64 `yaml:"rest_speed"`
}

// GateConfig holds the gate sampling ranges in metres and degrees.
type GateConfig struct {
	WidthMin                    float64 `yaml:"width_min"`
	WidthMax                    float64 `yaml:"width_max"`
	HeightMin                   float64 `yaml:"height_min"`
	HeightMax                   float64 `yaml:"height_max"`
	GapMin                      float64 `yaml:"gap_min"`
	GapMax                      float64 `yaml:"gap_max"`
	AngleDevMaxDeg              float64 `yaml:"angle_dev_max_deg"`
	OrientationDevMultiplierMax float64 `yaml:"orientation_dev_multiplier_max"`
	Scale                       float64 `yaml:"scale"`
}

// Bounds converts to world units and radians.
func (g GateConfig) Bounds() course.Bounds {
	return course.Bounds{
		WidthMin:                    g.WidthMin,
		WidthMax:                    g.WidthMax,
		HeightMin:                   g.HeightMin,
		HeightMax:                   g.HeightMax,
		GapMin:                      g.GapMin,
		GapMax:                      g.GapMax,
		AngleDevMax:                 g.AngleDevMaxDeg * geom.DegToRad,
		OrientationDevMultiplierMax: g.OrientationDevMultiplierMax,
	}.Scale(g.Scale)
}

// CurrentConfig selects the water current. X and Y are the constant drift,
// or the bias of a sinusoidal current.
type CurrentConfig struct {
	Kind         string  `yaml:"kind"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Amplitude    float64 `yaml:"amplitude"`
	DirectionDeg float64 `yaml:"direction_deg"`
	Wavelength   float64 `yaml:"wavelength"`
	Period       float64 `yaml:"period"`
	Phase        float64 `yaml:"phase"`
}

func defaultGate() GateConfig {
	b := course.DefaultBounds()
	return GateConfig{
		WidthMin:                    b.WidthMin,
		WidthMax:                    b.WidthMax,
		HeightMin:                   b.HeightMin,
		HeightMax:                   b.HeightMax,
		GapMin:                      b.GapMin,
		GapMax:                      b.GapMax,
		AngleDevMaxDeg:              30,
		OrientationDevMultiplierMax: b.OrientationDevMultiplierMax,
		Scale:                       PixelsPerMeter,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Sim: SimConfig{
			Dt:           DefaultDt,
			Duration:     DefaultDuration,
			Strategy:     DefaultStrategy,
			Tolerance:    mission.DefaultTolerance,
			Runout:       DefaultRunout,
			StopWhenDone: true,
			RestSpeed:    1,
		},
		Boat:       boat.DefaultParams(),
		Limits:     guidance.DefaultLimits(),
		HeadingPID: control.PIDConfig{Kp: 4, Kd: 2},
		SpeedPID:   control.PIDConfig{Kp: 2},
		Pursuit:    guidance.DefaultPursuitConfig(),
		Gate:       defaultGate(),
		Current:    CurrentConfig{Kind: "none"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func positive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) {
		return fmt.Errorf("%s must be positive, got %v", name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if v < 0 || math.IsNaN(v) {
		return fmt.Errorf("%s must not be negative, got %v", name, v)
	}
	return nil
}

func ordered(name string, low, high float64) error {
	if low > high {
		return fmt.Errorf("%s: min %v exceeds max %v", name, low, high)
	}
	return nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, positive("sim.dt", c.Sim.Dt))
	err = multierr.Append(err, positive("sim.duration", c.Sim.Duration))
	err = multierr.Append(err, nonNegative("sim.tolerance", c.Sim.Tolerance))
	err = multierr.Append(err, nonNegative("sim.runout", c.Sim.Runout))
	err = multierr.Append(err, nonNegative("sim.rest_speed", c.Sim.RestSpeed))
	switch c.Sim.Strategy {
	case "waypoint", "purepursuit":
	default:
		err = multierr.Append(err, fmt.Errorf("sim.strategy: unknown strategy %q", c.Sim.Strategy))
	}

	err = multierr.Append(err, nonNegative("boat.max_dt", c.Boat.MaxDt))
	err = multierr.Append(err, nonNegative("boat.max_linear_speed", c.Boat.MaxLinearSpeed))
	err = multierr.Append(err, nonNegative("boat.max_angular_speed", c.Boat.MaxAngularSpeed))
	err = multierr.Append(err, nonNegative("boat.drag_linear", c.Boat.DragLinear))
	err = multierr.Append(err, nonNegative("boat.drag_quadratic", c.Boat.DragQuadratic))

	err = multierr.Append(err, positive("limits.max_speed", c.Limits.MaxSpeed))
	err = multierr.Append(err, nonNegative("limits.max_linear_accel", c.Limits.MaxLinearAccel))
	err = multierr.Append(err, nonNegative("limits.max_angular_accel", c.Limits.MaxAngularAccel))
	err = multierr.Append(err, nonNegative("limits.max_angular_speed", c.Limits.MaxAngularSpeed))

	err = multierr.Append(err, nonNegative("heading_pid.integral_limit", c.HeadingPID.IntegralLimit))
	err = multierr.Append(err, nonNegative("speed_pid.integral_limit", c.SpeedPID.IntegralLimit))

	err = multierr.Append(err, nonNegative("pursuit.lookahead_base", c.Pursuit.LookaheadBase))
	err = multierr.Append(err, nonNegative("pursuit.lookahead_speed_gain", c.Pursuit.LookaheadSpeedGain))
	err = multierr.Append(err, nonNegative("pursuit.goal_tolerance", c.Pursuit.GoalTolerance))

	err = multierr.Append(err, ordered("gate.width", c.Gate.WidthMin, c.Gate.WidthMax))
	err = multierr.Append(err, ordered("gate.height", c.Gate.HeightMin, c.Gate.HeightMax))
	err = multierr.Append(err, ordered("gate.gap", c.Gate.GapMin, c.Gate.GapMax))
	err = multierr.Append(err, positive("gate.width_min", c.Gate.WidthMin))
	err = multierr.Append(err, positive("gate.height_min", c.Gate.HeightMin))
	err = multierr.Append(err, nonNegative("gate.gap_min", c.Gate.GapMin))
	err = multierr.Append(err, nonNegative("gate.angle_dev_max_deg", c.Gate.AngleDevMaxDeg))
	err = multierr.Append(err, positive("gate.scale", c.Gate.Scale))

	switch c.Current.Kind {
	case "", "none", "constant":
	case "sinusoidal":
		err = multierr.Append(err, nonNegative("current.wavelength", c.Current.Wavelength))
		err = multierr.Append(err, nonNegative("current.period", c.Current.Period))
	default:
		err = multierr.Append(err, fmt.Errorf("current.kind: unknown kind %q", c.Current.Kind))
	}
	return err
}
