// Package cycle computes idealized closed engine cycles.
//
// An [Engine] takes a gas model and a [Boundary] and derives the four corner
// states of the cycle:
//
//	A ──adiabatic──▶ B ──combustion──▶ C ──adiabatic──▶ D ──isochoric──▶ A
//
// Combustion is isochoric for [Otto] and isobaric for [Diesel]. For Diesel the
// volume at the end of combustion has no closed form for a real gas and is
// found with a secant search on the equation of state.
//
// From the corners the engine integrates the work of each leg, the heat taken
// in during combustion and the resulting efficiency, and it samples the legs
// for pressure–volume and temperature–entropy diagrams.
//
// # Errors
//
// Construction fails with an error matching [ErrInvalidConfiguration],
// [ErrPhysicalInfeasibility] or [ErrConvergence] under [errors.Is]. A failed
// engine is never returned, so callers never see a partial state.
//
// # Thread Safety
//
// An Engine is immutable once built and may be read from several goroutines.
// Changing any input means building a new Engine.
package cycle
