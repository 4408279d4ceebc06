// Package gas provides equations of state for the working fluid of an
// engine cycle.
//
// Two variants implement [Model]:
//
//   - [Ideal]: PV = nRT
//   - [VanDerWaals]: (P + a n²/V²)(V - nb) = nRT
//
// Both expose pressure and temperature as functions of the state, the
// pressure reached along a reversible adiabatic path, and the entropy
// difference between two states.
//
// # Adiabatic Model
//
// Heat capacities are constant. For the Van der Waals gas the adiabatic path
// uses T·(V - nb)^(γ-1) = const, which drops the a·n²/V contribution to the
// internal energy. The approximation is kept on purpose so that results match
// the reference tables.
//
// # Example
//
//	g, _ := gas.NewIdeal(gas.Params{N: 0.04, Gamma: 1.4, R: gas.R})
//	p, _ := g.Pressure(1e-3, 300)
package gas
