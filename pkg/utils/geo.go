package utils

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle math.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates given in degrees. NaN inputs propagate; callers validate.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLon := degToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HasCoordinates reports whether a lat/lon pair is usable. The 0/0 point is
// the "not geocoded yet" sentinel, not a real place.
func HasCoordinates(lat, lon float64) bool {
	return lat != 0 || lon != 0
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
