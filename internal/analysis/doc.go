// Package analysis sweeps a cycle across compression ratios.
//
// [SweepCompressionRatio] builds one engine per ratio through a [Builder]
// and evaluates them concurrently. A ratio that fails to build or compute
// is reported in its [SweepPoint] and does not abort the sweep:
//
//	points, err := analysis.SweepCompressionRatio(ctx, cfg.BuildAt, analysis.Span(4, 25, 43), 0)
//	taus, eta := analysis.Series(points)
package analysis
