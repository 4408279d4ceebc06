package cycle

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the combustion model.
type Kind int

const (
	Otto Kind = iota
	Diesel
)

func (k Kind) String() string {
	switch k {
	case Otto:
		return "otto"
	case Diesel:
		return "diesel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "otto", "beau_de_rochas":
		return Otto, nil
	case "diesel":
		return Diesel, nil
	default:
		return 0, invalid("unknown cycle %q", s)
	}
}

// Corner labels a characteristic state of the cycle.
type Corner int

const (
	A Corner = iota
	B
	C
	D
)

var cornerNames = [...]string{"A", "B", "C", "D"}

func (c Corner) String() string {
	if c < A || c > D {
		return fmt.Sprintf("corner(%d)", int(c))
	}
	return cornerNames[c]
}

// Corners lists the corners in traversal order.
var Corners = [4]Corner{A, B, C, D}

// Point is a thermodynamic state: volume (m³), pressure (Pa), temperature (K).
type Point struct {
	V float64 `json:"v"`
	P float64 `json:"p"`
	T float64 `json:"t"`
}

// State holds the four corners of a computed cycle.
type State [4]Point

func (s State) At(c Corner) Point { return s[c] }

// Process is the thermodynamic transformation along a leg.
type Process int

const (
	Adiabatic Process = iota
	Isochoric
	Isobaric
)

func (p Process) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Process) UnmarshalText(text []byte) error {
	switch string(text) {
	case "adiabatic":
		*p = Adiabatic
	case "isochoric":
		*p = Isochoric
	case "isobaric":
		*p = Isobaric
	default:
		return fmt.Errorf("unknown process %q", text)
	}
	return nil
}

func (p Process) String() string {
	switch p {
	case Adiabatic:
		return "adiabatic"
	case Isochoric:
		return "isochoric"
	case Isobaric:
		return "isobaric"
	default:
		return "unknown"
	}
}

// Leg is one transformation between two corners.
type Leg struct {
	From, To Corner
	Process  Process
}

func (l Leg) Label() string { return l.From.String() + "->" + l.To.String() }

// Boundary holds the imposed conditions of a run. TMax substitutes for the
// energy released by combustion.
type Boundary struct {
	VMin     float64 `json:"v_min"`
	VMax     float64 `json:"v_max"`
	PAmbient float64 `json:"p_ambient"`
	TAmbient float64 `json:"t_ambient"`
	TMax     float64 `json:"t_max"`
}

// BoundaryFromRatio derives VMin from VMax and the compression ratio.
func BoundaryFromRatio(vMax, tau, pAmbient, tAmbient, tMax float64) Boundary {
	return Boundary{
		VMin:     vMax / tau,
		VMax:     vMax,
		PAmbient: pAmbient,
		TAmbient: tAmbient,
		TMax:     tMax,
	}
}

// Tau is the compression ratio VMax/VMin.
func (b Boundary) Tau() float64 { return b.VMax / b.VMin }

func (b Boundary) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"v_min", b.VMin},
		{"v_max", b.VMax},
		{"p_ambient", b.PAmbient},
		{"t_ambient", b.TAmbient},
		{"t_max", b.TMax},
	} {
		if !(f.val > 0) || math.IsInf(f.val, 0) {
			return invalid("%s must be positive and finite, got %g", f.name, f.val)
		}
	}
	if !(b.Tau() > 1) {
		return invalid("compression ratio must exceed 1, got %g", b.Tau())
	}
	if !(b.TMax > b.TAmbient) {
		return invalid("t_max (%g K) must exceed t_ambient (%g K)", b.TMax, b.TAmbient)
	}
	return nil
}
