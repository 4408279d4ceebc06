package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/gas"
)

const (
	DefaultVMax     = 1e-3
	DefaultPAmbient = 1.013e5
	DefaultTAmbient = 300.0
	DefaultTau      = 8.0
	DefaultTMax     = 2000.0
	DefaultGamma    = 1.4
	DefaultRPM      = 3000.0
	DefaultDataDir  = ".thermocycle"
)

type Config struct {
	Cycle          string  `yaml:"cycle"`
	Gas            string  `yaml:"gas"`
	Tau            float64 `yaml:"tau"`
	VMax           float64 `yaml:"v_max"`
	PAmbient       float64 `yaml:"p_ambient"`
	TAmbient       float64 `yaml:"t_ambient"`
	TMax           float64 `yaml:"t_max"`
	Moles          float64 `yaml:"moles"`
	Gamma          float64 `yaml:"gamma"`
	R              float64 `yaml:"r"`
	A              float64 `yaml:"a"`
	B              float64 `yaml:"b"`
	Samples        int     `yaml:"samples"`
	EntropySamples int     `yaml:"entropy_samples"`
	RPM            float64 `yaml:"rpm"`
	DataDir        string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Cycle:          "otto",
		Gas:            "ideal",
		Tau:            DefaultTau,
		VMax:           DefaultVMax,
		PAmbient:       DefaultPAmbient,
		TAmbient:       DefaultTAmbient,
		TMax:           DefaultTMax,
		Gamma:          DefaultGamma,
		R:              gas.R,
		A:              gas.NitrogenA,
		B:              gas.NitrogenB,
		Samples:        cycle.DefaultSamples,
		EntropySamples: cycle.DefaultEntropySamples,
		RPM:            DefaultRPM,
		DataDir:        DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// MolesOrDerived returns the configured amount of gas, or the amount filling
// VMax at ambient conditions when Moles is zero.
func (c *Config) MolesOrDerived() float64 {
	if c.Moles > 0 {
		return c.Moles
	}
	return gas.MolesFromState(c.PAmbient, c.VMax, c.TAmbient, c.R)
}

func (c *Config) GasParams() gas.Params {
	return gas.Params{
		N:     c.MolesOrDerived(),
		Gamma: c.Gamma,
		R:     c.R,
		A:     c.A,
		B:     c.B,
	}
}

func (c *Config) GasModel() (gas.Model, error) {
	return gas.New(c.Gas, c.GasParams())
}

func (c *Config) Kind() (cycle.Kind, error) {
	return cycle.ParseKind(c.Cycle)
}

func (c *Config) Boundary() cycle.Boundary {
	return cycle.BoundaryFromRatio(c.VMax, c.Tau, c.PAmbient, c.TAmbient, c.TMax)
}

func (c *Config) Options() cycle.Options {
	opts := cycle.DefaultOptions()
	if c.Samples != 0 {
		opts.Samples = c.Samples
	}
	return opts
}

// Build constructs a fresh gas model and engine from the configuration.
func (c *Config) Build() (*cycle.Engine, error) {
	kind, err := c.Kind()
	if err != nil {
		return nil, err
	}
	g, err := c.GasModel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cycle.ErrInvalidConfiguration, err)
	}
	return cycle.New(kind, g, c.Boundary(), c.Options())
}

// TraceSamples is the entropy trace resolution, defaulted when unset.
func (c *Config) TraceSamples() int {
	if c.EntropySamples > 0 {
		return c.EntropySamples
	}
	return cycle.DefaultEntropySamples
}

// Label is a short human description such as "diesel/vdw tau=16".
func (c *Config) Label() string {
	return fmt.Sprintf("%s/%s tau=%g", c.Cycle, c.Gas, c.Tau)
}

// BuildAt builds the configured cycle at another compression ratio. It
// leaves c untouched, so it can serve as a concurrent sweep builder.
func (c *Config) BuildAt(tau float64) (*cycle.Engine, error) {
	cp := c.Clone()
	cp.Tau = tau
	return cp.Build()
}
