package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/thermocycle/internal/analysis"
	"github.com/san-kum/thermocycle/internal/config"
)

func TestGridSearchPrefersHighCompression(t *testing.T) {
	g, err := NewGridSearch([]string{"tau"}, [][]float64{analysis.Span(4, 20, 9)})
	if err != nil {
		t.Fatal(err)
	}

	best, err := g.Search(context.Background(), config.DefaultConfig(), Objectives["efficiency"])
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if best.Params["tau"] != 20 {
		t.Errorf("ideal otto efficiency should peak at the largest tau, got %g", best.Params["tau"])
	}
	if best.Evaluated != 9 || best.Failed != 0 {
		t.Errorf("expected 9 clean evaluations, got %d (%d failed)", best.Evaluated, best.Failed)
	}
}

func TestGridSearchSkipsInfeasible(t *testing.T) {
	// t_max = 900 K is below the end of compression for large tau
	g, err := NewGridSearch(
		[]string{"tau", "t_max"},
		[][]float64{{6, 12, 20}, {900, 2500}},
	)
	if err != nil {
		t.Fatal(err)
	}

	best, err := g.Search(context.Background(), config.DefaultConfig(), Objectives["work"])
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if best.Evaluated != 6 {
		t.Errorf("expected 6 evaluations, got %d", best.Evaluated)
	}
	if best.Failed == 0 {
		t.Error("expected infeasible points")
	}
	if best.Params["t_max"] != 2500 {
		t.Errorf("largest work needs the hottest combustion, got %v", best.Params)
	}
}

func TestGridSearchNoFeasible(t *testing.T) {
	g, err := NewGridSearch([]string{"tau"}, [][]float64{{0.5, 1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Search(context.Background(), config.DefaultConfig(), Objectives["mep"]); !errors.Is(err, ErrNoFeasible) {
		t.Errorf("expected ErrNoFeasible, got %v", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{"tau"}, [][]float64{{6, 8}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Search(ctx, config.DefaultConfig(), Objectives["work"]); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"rpm"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := NewGridSearch([]string{"tau"}, nil); err == nil {
		t.Error("expected error for missing range")
	}
}

func TestObjectiveNames(t *testing.T) {
	names := ObjectiveNames()
	if len(names) != 3 || names[0] != "efficiency" {
		t.Errorf("unexpected objectives %v", names)
	}
}
