package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/thermocycle/internal/config"
	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/metrics"
	"gopkg.in/yaml.v3"
)

// Scenario is a named batch of cycle configurations.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one configuration in a scenario. Any config key may
// appear next to name and preset; keys left out keep the preset's value,
// or the default when no preset is named.
type ScenarioStep struct {
	Name   string
	Preset string
	Config *config.Config
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Name   string `yaml:"name"`
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if head.Preset != "" {
		cfg = config.GetPreset(head.Preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset %q", head.Preset)
		}
	}
	if err := node.Decode(cfg); err != nil {
		return err
	}

	s.Name = head.Name
	if s.Name == "" {
		s.Name = cfg.Label()
	}
	s.Preset = head.Preset
	s.Config = cfg
	return nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepResult is the outcome of one step. A failed step carries Err and
// leaves the other fields zero.
type StepResult struct {
	Name        string
	Config      *config.Config
	Result      cycle.Result
	Performance metrics.Performance
	Err         error
}

// RunScenario computes every step in order. Step failures are recorded
// and do not stop the batch; only cancellation does.
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for _, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		sr := StepResult{Name: step.Name, Config: step.Config}
		e, err := step.Config.Build()
		if err != nil {
			sr.Err = err
			results = append(results, sr)
			continue
		}
		r, err := e.Result()
		if err != nil {
			sr.Err = err
			results = append(results, sr)
			continue
		}
		sr.Result = r
		sr.Performance = metrics.Evaluate(r, e.Boundary(), step.Config.RPM)
		results = append(results, sr)
	}

	return results, nil
}
