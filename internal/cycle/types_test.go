package cycle

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"otto", Otto, false},
		{"Diesel", Diesel, false},
		{"beau_de_rochas", Otto, false},
		{"stirling", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("expected ErrInvalidConfiguration, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseKind(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestCornerString(t *testing.T) {
	for i, want := range []string{"A", "B", "C", "D"} {
		if got := Corners[i].String(); got != want {
			t.Errorf("corner %d: got %s, want %s", i, got, want)
		}
	}
	if got := Corner(7).String(); got != "corner(7)" {
		t.Errorf("out of range corner: %s", got)
	}
}

func TestBoundaryValidate(t *testing.T) {
	valid := BoundaryFromRatio(1e-3, 8, 1.013e5, 300, 2000)
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid boundary rejected: %v", err)
	}
	if tau := valid.Tau(); tau < 8-1e-12 || tau > 8+1e-12 {
		t.Errorf("expected tau 8, got %g", tau)
	}

	tests := []struct {
		name string
		b    Boundary
	}{
		{"tau one", BoundaryFromRatio(1e-3, 1, 1.013e5, 300, 2000)},
		{"tau below one", BoundaryFromRatio(1e-3, 0.5, 1.013e5, 300, 2000)},
		{"t_max equals ambient", BoundaryFromRatio(1e-3, 8, 1.013e5, 300, 300)},
		{"zero volume", Boundary{VMin: 0, VMax: 1e-3, PAmbient: 1e5, TAmbient: 300, TMax: 2000}},
		{"negative temperature", BoundaryFromRatio(1e-3, 8, 1.013e5, -300, 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.b.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLegLabels(t *testing.T) {
	e := &Engine{kind: Diesel}
	legs := e.Legs()
	if legs[1].Process != Isobaric {
		t.Errorf("diesel combustion should be isobaric, got %v", legs[1].Process)
	}
	if legs[3].Label() != "D->A" {
		t.Errorf("expected D->A, got %s", legs[3].Label())
	}
}

func TestProcessTextRoundTrip(t *testing.T) {
	for _, p := range []Process{Adiabatic, Isochoric, Isobaric} {
		t.Run(p.String(), func(t *testing.T) {
			data, err := json.Marshal(struct{ Kind Process }{p})
			if err != nil {
				t.Fatal(err)
			}
			var got struct{ Kind Process }
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("decode %s: %v", data, err)
			}
			if got.Kind != p {
				t.Errorf("got %v, want %v", got.Kind, p)
			}
		})
	}

	var p Process
	if err := p.UnmarshalText([]byte("isothermal")); err == nil {
		t.Error("expected error for unknown process")
	}
}
