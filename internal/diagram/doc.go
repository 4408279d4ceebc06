// Package diagram turns a computed cycle into plottable polylines.
//
// Two planes are produced: pressure against volume and temperature against
// entropy. Each leg of the cycle becomes one Segment; straight legs carry only
// their two end points. A Snapshot freezes both planes so a later run can be
// drawn over a reference.
package diagram
