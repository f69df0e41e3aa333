// Package surface turns sparse station readings into a dense AQI surface.
//
// It holds three pure pieces: an inverse-distance-weighted interpolator over
// the k nearest stations, a grid builder that lays a rows×cols lattice over
// the stations' envelope (plus a fixed margin) and interpolates every
// lattice point, and a nearest-station lookup with a snapping radius for
// hover queries. Bucketing, render hints, and summary statistics are derived
// views over a built grid.
//
// Nothing here keeps state between calls. The same inputs in the same order
// always produce bit-identical results, so a caller that abandons a build can
// simply run it again.
package surface
