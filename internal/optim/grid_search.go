package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/thermocycle/internal/config"
	"github.com/san-kum/thermocycle/internal/cycle"
)

// ErrNoFeasible is returned when every grid point failed to build.
var ErrNoFeasible = errors.New("optim: no feasible grid point")

// Objective scores a computed cycle; larger is better.
type Objective func(e *cycle.Engine, r cycle.Result) float64

var Objectives = map[string]Objective{
	"efficiency": func(_ *cycle.Engine, r cycle.Result) float64 { return r.Efficiency },
	"work":       func(_ *cycle.Engine, r cycle.Result) float64 { return math.Abs(r.Work) },
	"mep": func(e *cycle.Engine, r cycle.Result) float64 {
		b := e.Boundary()
		return math.Abs(r.Work) / (b.VMax - b.VMin)
	},
}

func ObjectiveNames() []string {
	names := make([]string, 0, len(Objectives))
	for name := range Objectives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var setters = map[string]func(*config.Config, float64){
	"tau":       func(c *config.Config, v float64) { c.Tau = v },
	"t_max":     func(c *config.Config, v float64) { c.TMax = v },
	"v_max":     func(c *config.Config, v float64) { c.VMax = v },
	"p_ambient": func(c *config.Config, v float64) { c.PAmbient = v },
	"t_ambient": func(c *config.Config, v float64) { c.TAmbient = v },
	"gamma":     func(c *config.Config, v float64) { c.Gamma = v },
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for _, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("optim: cannot search over %q", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Best is the outcome of a search.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

// Search builds every combination of the grid on top of base and keeps the
// one with the highest objective. Infeasible points are counted and skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (Best, error) {
	best := Best{Value: math.Inf(-1)}
	if err := g.searchRecursive(ctx, 0, base.Clone(), make(map[string]float64), objective, &best); err != nil {
		return Best{}, err
	}
	if best.Params == nil {
		return best, ErrNoFeasible
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	cfg *config.Config,
	current map[string]float64,
	objective Objective,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		best.Evaluated++
		e, err := cfg.Build()
		if err != nil {
			best.Failed++
			return nil
		}
		r, err := e.Result()
		if err != nil {
			best.Failed++
			return nil
		}

		if val := objective(e, r); val > best.Value {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := cfg.Clone()
		setters[name](next, val)
		current[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, current, objective, best); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
