package internal

// Coordinate is a position in signed decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DecodeGPS converts a raw GPS record into a decimal-degree coordinate.
// Latitude and longitude must both be present and well formed; a conversion
// fault on either component (wrong arity, zero denominator) invalidates the
// whole coordinate so the file lands in Unknown_Location instead of a bogus
// bucket at the equator or prime meridian.
func DecodeGPS(g *GPSRecord) *Coordinate {
	if g == nil {
		return nil
	}

	lat, ok := convertToDegrees(g.Lat)
	if !ok {
		return nil
	}
	lon, ok := convertToDegrees(g.Lon)
	if !ok {
		return nil
	}

	if g.LatRef == "S" {
		lat = -lat
	}
	if g.LonRef == "W" {
		lon = -lon
	}
	return &Coordinate{Lat: lat, Lon: lon}
}

// convertToDegrees folds a (degrees, minutes, seconds) triplet or a single
// decimal value into decimal degrees: deg + min/60 + sec/3600.
func convertToDegrees(parts []Rational) (float64, bool) {
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		if p.Den == 0 {
			return 0, false
		}
		vals = append(vals, float64(p.Num)/float64(p.Den))
	}

	switch {
	case len(vals) >= 3:
		return vals[0] + vals[1]/60.0 + vals[2]/3600.0, true
	case len(vals) == 1:
		return vals[0], true
	}
	return 0, false
}
