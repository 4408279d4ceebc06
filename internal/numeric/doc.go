// Package numeric holds the numerical building blocks of the cycle engine:
// uniform sampling ([Linspace]), Simpson quadrature over a sampled path
// ([Integrate]) and a bounded secant root solver ([Secant]).
package numeric
