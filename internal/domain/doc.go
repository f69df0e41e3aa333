// Package domain models air-quality station readings and the gridded surface
// estimated from them.
//
// # Data Source
//
// Station readings come from the World Air Quality Index project (WAQI)
// "map/bounds" endpoint, restricted to a configured region box and to
// stations whose names match a region keyword list. Each reading carries the
// station's latitude, longitude, current AQI, and display name. When the
// upstream is unavailable the service falls back to the last stored snapshot
// and then to synthetic readings.
//
// # Conventions
//
// Coordinates are WGS-84 decimal degrees. Distances inside the interpolation
// engine are planar: squared differences of raw latitude and longitude
// degrees, with one degree taken as 111 000 m when a ground distance is
// needed. This is accurate enough at national scale and keeps results
// identical to the map page the engine was extracted from.
//
// AQI severity follows the US EPA categories. Each category is half-open on
// the low side and closed on the high side:
//
//	Good            ≤ 50    #00e400
//	Moderate        ≤ 100   #ffff00
//	Sensitive       ≤ 150   #ff7e00   (Unhealthy for Sensitive Groups)
//	Unhealthy       ≤ 200   #ff0000
//	VeryUnhealthy   ≤ 300   #8f3f97
//	Hazardous       > 300   #7e0023
//
// # Ownership
//
// A [Snapshot] is one immutable station set. A [Grid] is produced fresh on
// every build and never mutated afterwards; callers own it once returned.
package domain
