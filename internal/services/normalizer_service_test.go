package services

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parisConfig = NormalizeConfig{
	StartPoint: "Gare du Nord",
	EndPoint:   "Orly Airport",
	TripDays:   3,
}

func TestNormalizeAIResponseCleanInput(t *testing.T) {
	raw := `[
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true, "estimatedDuration": 30, "travelTimeToNext": 20, "bestTimeToVisit": "morning"},
		{"name": "Louvre", "address": "Rue de Rivoli", "dayIndex": 0, "estimatedDuration": 180, "travelTimeToNext": 15, "bestTimeToVisit": "afternoon"},
		{"name": "Hotel: Le Marais", "dayIndex": 0},
		{"name": "Orly Airport", "dayIndex": 2, "estimatedDuration": 60, "bestTimeToVisit": "morning"}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 4)

	assert.Equal(t, "Gare du Nord", stops[0].Name)
	assert.True(t, stops[0].IsStartingPoint)
	assert.Equal(t, StopAttraction, stops[0].Kind)

	louvre := stops[1]
	assert.Equal(t, "Louvre", louvre.Name)
	assert.Equal(t, "Rue de Rivoli", louvre.Address)
	require.NotNil(t, louvre.Timing)
	assert.Equal(t, 180, louvre.Timing.EstimatedDuration)
	assert.Equal(t, 15, louvre.Timing.TravelTimeToNext)

	hotel := stops[2]
	assert.Equal(t, StopHotel, hotel.Kind)
	assert.Nil(t, hotel.Timing)

	assert.Equal(t, "Orly Airport", stops[3].Name)
	assert.Equal(t, 2, stops[3].DayIndex)
}

func TestNormalizeAIResponseFencesAndProse(t *testing.T) {
	raw := "Sure! Here is your itinerary:\n```json\n" +
		`[{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true}]` +
		"\n```\nEnjoy your trip!"

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, "Gare du Nord", stops[0].Name)
}

func TestNormalizeAIResponseTruncationRecovery(t *testing.T) {
	// Third object cut off mid-field; the first two survive.
	raw := `[
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true},
		{"name": "Louvre", "dayIndex": 0, "estimatedDuration": 120},
		{"name": "Notre-Da`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "Gare du Nord", stops[0].Name)
	assert.Equal(t, "Louvre", stops[1].Name)
}

func TestNormalizeAIResponseRepairsDamage(t *testing.T) {
	// Bare keys, quoted numbers, a trailing comma, a missing separator and an
	// embedded quote, all in one response.
	raw := `[
		{name: "Gare du Nord", dayIndex: "0", isStartingPoint: "true",},
		{"name": "Cafe Central", "description": "the "best" espresso in town, 1 km to next", "dayIndex": 0, "estimatedDuration": "90"}
		{"name": "Louvre", "dayIndex": 0,, "estimatedDuration": 120}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 3)

	assert.True(t, stops[0].IsStartingPoint)

	cafe := stops[1]
	assert.Equal(t, "Cafe Central", cafe.Name)
	assert.Contains(t, cafe.Description, `best`)
	require.NotNil(t, cafe.Timing)
	assert.Equal(t, 90, cafe.Timing.EstimatedDuration)
	// Travel derived from the "1 km" hint in the description.
	assert.Equal(t, 15, cafe.Timing.TravelTimeToNext)

	assert.Equal(t, 120, stops[2].Timing.EstimatedDuration)
}

func TestRepairJSONIsIdempotent(t *testing.T) {
	inputs := []string{
		`[{name: "a", dayIndex: "1",}]`,
		`[{"name": "a", "dayIndex": 0} {"name": "b", "dayIndex": 1}]`,
		"```json\n[{\"name\": \"a\", \"dayIndex\": 0}]\n```",
		`[{"name": "a", "description": "say "hi" twice", "dayIndex": 0}]`,
	}
	for _, in := range inputs {
		once := RepairJSON(in)
		twice := RepairJSON(once)
		assert.Equal(t, once, twice, "repair must be a fixed point for %q", in)
	}
}

func TestNormalizeAIResponseParseErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ParseErrorKind
	}{
		{"no array at all", `The weather is lovely in Paris.`, ParseKindMalformed},
		{"truncated with no complete object", `[{"name": "Lou`, ParseKindMalformed},
		{"empty array", `[]`, ParseKindEmptyArray},
		{"array of scalars", `[1, 2, 3]`, ParseKindNotAnArray},
		{"missing name", `[{"dayIndex": 0}]`, ParseKindMissingField},
		{"missing day index", `[{"name": "Louvre"}]`, ParseKindMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeAIResponse(tt.raw, parisConfig)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestNormalizeAIResponseHotelClassification(t *testing.T) {
	raw := `[
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true},
		{"name": "Riverside Lodge", "dayIndex": 0, "isHotel": true, "estimatedDuration": 90},
		{"name": "hotel: Petit Palais", "dayIndex": 1}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 3)

	lodge := stops[1]
	assert.Equal(t, StopHotel, lodge.Kind)
	assert.Nil(t, lodge.Timing, "hotel timing fields are discarded")

	palais := stops[2]
	assert.Equal(t, StopHotel, palais.Kind)
}

func TestNormalizeAIResponseHotelTimingFieldsWarn(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	// Each timing key alone triggers the discard warning.
	raws := []string{
		`[{"name": "Hotel: A", "dayIndex": 0, "estimatedDuration": 90},
		  {"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true}]`,
		`[{"name": "Hotel: B", "dayIndex": 0, "travelTimeToNext": 20},
		  {"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true}]`,
		`[{"name": "Hotel: C", "dayIndex": 0, "bestTimeToVisit": "evening"},
		  {"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true}]`,
	}
	for _, raw := range raws {
		buf.Reset()
		stops, err := NormalizeAIResponse(raw, parisConfig)
		require.NoError(t, err)
		for _, s := range stops {
			if s.Kind == StopHotel {
				assert.Nil(t, s.Timing)
			}
		}
		assert.Contains(t, buf.String(), "timing fields")
	}
}

func TestNormalizeAIResponseDuplicateHotelsLastWins(t *testing.T) {
	raw := `[
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true},
		{"name": "Hotel: First Choice", "dayIndex": 1},
		{"name": "Louvre", "dayIndex": 1, "estimatedDuration": 120},
		{"name": "Hotel: Second Thoughts", "dayIndex": 1}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)

	var hotels []string
	for _, s := range stops {
		if s.Kind == StopHotel {
			hotels = append(hotels, s.Name)
		}
	}
	require.Len(t, hotels, 1)
	assert.Equal(t, "Hotel: Second Thoughts", hotels[0])
}

func TestNormalizeAIResponseSynthesizesStartPoint(t *testing.T) {
	raw := `[{"name": "Louvre", "dayIndex": 1, "estimatedDuration": 120}]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 2)

	start := stops[0]
	assert.Equal(t, "Gare du Nord", start.Name)
	assert.True(t, start.IsStartingPoint)
	assert.Equal(t, 0, start.DayIndex)
	require.NotNil(t, start.Timing)
	assert.Equal(t, minVisitMinutes, start.Timing.EstimatedDuration)
	assert.Equal(t, 0, start.Timing.TravelTimeToNext)
	assert.Equal(t, "morning", start.Timing.BestTimeToVisit)
}

func TestNormalizeAIResponseRecognizesStartPointByName(t *testing.T) {
	raw := `[{"name": "Gare du Nord station", "dayIndex": 0, "estimatedDuration": 30}]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 1, "no synthetic start when the model already placed one")
	assert.True(t, stops[0].IsStartingPoint)
}

func TestNormalizeAIResponseClampsDayIndex(t *testing.T) {
	raw := `[
		{"name": "Gare du Nord", "dayIndex": -2, "isStartingPoint": true},
		{"name": "Louvre", "dayIndex": 9, "estimatedDuration": 120}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	assert.Equal(t, 0, stops[0].DayIndex)
	assert.Equal(t, parisConfig.TripDays-1, stops[len(stops)-1].DayIndex)
}

func TestNormalizeAIResponseClampsDurations(t *testing.T) {
	raw := `[
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true, "estimatedDuration": 5},
		{"name": "Louvre", "dayIndex": 0, "estimatedDuration": 900},
		{"name": "Notre-Dame", "dayIndex": 0}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)

	byName := map[string]NormalizedStop{}
	for _, s := range stops {
		byName[s.Name] = s
	}
	assert.Equal(t, minVisitMinutes, byName["Gare du Nord"].Timing.EstimatedDuration)
	assert.Equal(t, maxVisitMinutes, byName["Louvre"].Timing.EstimatedDuration)
	assert.Equal(t, defaultVisitMinutes, byName["Notre-Dame"].Timing.EstimatedDuration)
}

func TestNormalizeAIResponseOrdering(t *testing.T) {
	raw := `[
		{"name": "Hotel: Le Marais", "dayIndex": 0},
		{"name": "Sainte-Chapelle", "dayIndex": 0, "estimatedDuration": 60, "bestTimeToVisit": "afternoon"},
		{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true, "bestTimeToVisit": "morning"},
		{"name": "Orly Airport", "dayIndex": 2, "estimatedDuration": 45, "bestTimeToVisit": "08:00"},
		{"name": "Montmartre", "dayIndex": 2, "estimatedDuration": 90, "bestTimeToVisit": "10:00"}
	]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 5)

	// Day 0: start point first, hotel last.
	assert.Equal(t, "Gare du Nord", stops[0].Name)
	assert.Equal(t, "Sainte-Chapelle", stops[1].Name)
	assert.Equal(t, "Hotel: Le Marais", stops[2].Name)

	// Last day: the end point sorts last regardless of best time.
	assert.Equal(t, "Montmartre", stops[3].Name)
	assert.Equal(t, "Orly Airport", stops[4].Name)
}

func TestNormalizeAIResponseCanonicalizesClockTimes(t *testing.T) {
	raw := `[{"name": "Gare du Nord", "dayIndex": 0, "isStartingPoint": true, "bestTimeToVisit": "9:05"}]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	assert.Equal(t, "09:05", stops[0].Timing.BestTimeToVisit)
}

func TestExtractArrayIgnoresBracketsInStrings(t *testing.T) {
	raw := `[{"name": "Gare du Nord", "description": "famous for ]weird[ signage {right}", "dayIndex": 0, "isStartingPoint": true}]`

	stops, err := NormalizeAIResponse(raw, parisConfig)
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Contains(t, stops[0].Description, "]weird[")
}
