package services

import (
	"math"
	"regexp"
	"strconv"

	"tripweaver/pkg/utils"
)

// Pace is the trip-wide multiplier on on-site dwell time.
type Pace string

const (
	PaceRelaxed   Pace = "relaxed"
	PaceBalanced  Pace = "balanced"
	PaceIntensive Pace = "intensive"
)

const (
	minTravelMinutes = 5
	maxTravelMinutes = 180

	minVisitMinutes     = 30
	maxVisitMinutes     = 480
	defaultVisitMinutes = 120

	// Coordinate mode assumes ~30 km/h effective urban speed.
	minutesPerKm = 2.0

	rushHourFlatAddMinutes = 15
	rushHourMultiplier     = 1.4
)

func paceMultiplier(pace Pace) (float64, bool) {
	switch pace {
	case PaceRelaxed:
		return 0.7, true
	case PaceBalanced:
		return 1.0, true
	case PaceIntensive:
		return 1.3, true
	default:
		return 0, false
	}
}

// AdjustDurationForPace scales a base dwell duration by the pace multiplier.
// Unknown pace values fail fast rather than silently defaulting.
func AdjustDurationForPace(baseMinutes int, pace Pace) (int, error) {
	mult, ok := paceMultiplier(pace)
	if !ok {
		return 0, utils.ErrUnknownPace
	}
	return int(math.Round(float64(baseMinutes) * mult)), nil
}

// EstimateTravelByDistance is the coordinate-mode estimator used by the
// manual optimization path: round(km × 2) plus a flat rush-hour addition.
func EstimateTravelByDistance(distanceKm float64, bestTime string) int {
	minutes := math.Round(distanceKm * minutesPerKm)
	if isRushHour(bestTime) {
		minutes += rushHourFlatAddMinutes
	}
	return clampMinutes(int(minutes), minTravelMinutes, maxTravelMinutes)
}

// EstimateTravelFromText is the descriptive-mode estimator used when
// reconciling AI output: the base comes from a "N km" hint in the text
// (short <2 km → 15, medium 2–5 km → 25, long >5 km → 45, no hint → 25),
// then a rush-hour multiplier applies.
func EstimateTravelFromText(text, bestTime string) int {
	return adjustAndClampTravel(travelBaseFromText(text), bestTime)
}

// EstimateTravelFromMinutes applies the descriptive-mode rush adjustment and
// clamping to an explicit minute value the model supplied.
func EstimateTravelFromMinutes(minutes float64, bestTime string) int {
	return adjustAndClampTravel(minutes, bestTime)
}

func adjustAndClampTravel(base float64, bestTime string) int {
	if isRushHour(bestTime) {
		base *= rushHourMultiplier
	}
	return clampMinutes(int(math.Round(base)), minTravelMinutes, maxTravelMinutes)
}

var kmHintPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km`)

func travelBaseFromText(text string) float64 {
	match := kmHintPattern.FindStringSubmatch(text)
	if match == nil {
		return 25
	}
	km, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 25
	}
	switch {
	case km < 2:
		return 15
	case km <= 5:
		return 25
	default:
		return 45
	}
}

var hourMarkerPattern = regexp.MustCompile(`(\d{1,2})(?::[0-5]\d|h)`)

// isRushHour reports whether the best-time text carries an hour marker in
// the morning (8–10) or evening (16–19) rush windows. Daypart words alone
// ("morning") are labels, not hour markers, and do not trigger this.
func isRushHour(bestTime string) bool {
	for _, match := range hourMarkerPattern.FindAllStringSubmatch(bestTime, -1) {
		hour, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if (hour >= 8 && hour <= 10) || (hour >= 16 && hour <= 19) {
			return true
		}
	}
	return false
}

func clampMinutes(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
