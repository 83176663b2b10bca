package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
)

// StopKind discriminates the scheduled-stop variants. Hotels carry no timing
// payload; the nil Timing pointer enforces that at the type level.
type StopKind string

const (
	StopAttraction StopKind = "attraction"
	StopHotel      StopKind = "hotel"
)

type StopTiming struct {
	EstimatedDuration int    // minutes, clamped to [30,480]
	TravelTimeToNext  int    // minutes, clamped to [5,180]; 0 for a day's last stop
	BestTimeToVisit   string // daypart label or canonical HH:MM
}

type NormalizedStop struct {
	Kind            StopKind
	Name            string
	Address         string
	Description     string
	DayIndex        int
	IsStartingPoint bool

	// Timing is nil for hotels.
	Timing *StopTiming
}

func (s NormalizedStop) bestTimeKey() string {
	if s.Timing == nil {
		return ""
	}
	return s.Timing.BestTimeToVisit
}

// NormalizeConfig carries the trip frame the stop list must respect.
type NormalizeConfig struct {
	StartPoint string
	EndPoint   string
	TripDays   int
}

// ---------------------------------------------------------------------------
// Parse errors

type ParseErrorKind string

const (
	ParseKindMalformed    ParseErrorKind = "malformed_response"
	ParseKindNotAnArray   ParseErrorKind = "not_an_array"
	ParseKindEmptyArray   ParseErrorKind = "empty_array"
	ParseKindInvalidJSON  ParseErrorKind = "invalid_json"
	ParseKindMissingField ParseErrorKind = "missing_required_field"
)

// ParseError is the fatal outcome of a normalization attempt. Snippet holds
// the text around the failure offset for diagnostics.
type ParseError struct {
	Kind    ParseErrorKind
	Snippet string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("ai response parse failed (%s)", e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Snippet != "" {
		msg += fmt.Sprintf(" near %q", e.Snippet)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(kind ParseErrorKind, text string, offset int, err error) *ParseError {
	return &ParseError{Kind: kind, Snippet: snippetAround(text, offset), Err: err}
}

func snippetAround(text string, offset int) string {
	const window = 40
	if text == "" {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	lo := offset - window
	if lo < 0 {
		lo = 0
	}
	hi := offset + window
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// ---------------------------------------------------------------------------
// Step 1: array extraction

// extractArray finds the JSON array inside raw model text. When the text is
// truncated mid-object it backs off to the last complete top-level object
// and closes the array there. The scanner tracks string/escape state by hand
// because regex cannot balance braces inside escaped strings.
func extractArray(text string) (string, *ParseError) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", newParseError(ParseKindMalformed, text, 0, errors.New("no opening bracket found"))
	}

	inString := false
	escaped := false
	braceDepth := 0
	bracketDepth := 0
	lastObjectEnd := -1

	for i := start; i < len(text); i++ {
		ch := text[i]

		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '[':
			bracketDepth++
		case ']':
			bracketDepth--
			if bracketDepth == 0 {
				return text[start : i+1], nil
			}
		case '{':
			braceDepth++
		case '}':
			braceDepth--
			if braceDepth == 0 && bracketDepth == 1 {
				lastObjectEnd = i
			}
		}
	}

	if lastObjectEnd >= 0 {
		return text[start:lastObjectEnd+1] + "]", nil
	}
	return "", newParseError(ParseKindMalformed, text, start, errors.New("truncated response with no complete object"))
}

// ---------------------------------------------------------------------------
// Step 2: textual repair passes

// RepairJSON applies the best-effort textual repairs, in order: strip fences
// and comments, quote bare keys, unquote numeric/boolean values, re-escape
// quotes embedded in address/description strings, then fix comma damage.
// Each pass is a fixed point, so repairing repaired text changes nothing.
func RepairJSON(s string) string {
	s = stripFences(s)
	s = stripComments(s)
	s = quoteBareKeys(s)
	s = normalizeScalarValues(s)
	s = escapeEmbeddedQuotes(s)
	s = fixCommas(s)
	return strings.TrimSpace(s)
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return s
}

func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		if ch == '/' && i+1 < len(s) && s[i+1] == '*' {
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// quoteBareKeys wraps unquoted object keys in quotes. String-aware so that
// colons inside values are left alone.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			b.WriteByte(ch)
			continue
		}
		if isIdentStart(ch) {
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			k := j
			for k < len(s) && isJSONSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' && word != "true" && word != "false" && word != "null" {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
			} else {
				b.WriteString(word)
			}
			i = j - 1
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

var (
	quotedNumberPattern = regexp.MustCompile(`"(estimatedDuration|travelTimeToNext|dayIndex)"\s*:\s*"(-?\d+(?:\.\d+)?)"`)
	quotedBoolPattern   = regexp.MustCompile(`"(isHotel|isStartingPoint)"\s*:\s*"(true|false)"`)
)

func normalizeScalarValues(s string) string {
	s = quotedNumberPattern.ReplaceAllString(s, `"$1": $2`)
	s = quotedBoolPattern.ReplaceAllString(s, `"$1": $2`)
	return s
}

var textValueKeyPattern = regexp.MustCompile(`"(address|description)"\s*:\s*"`)

// escapeEmbeddedQuotes repairs unescaped quotes inside address/description
// values. A quote only terminates the value when the next non-space byte is
// a comma or a closing brace/bracket; any other quote gets escaped.
func escapeEmbeddedQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	idx := 0

	for {
		loc := textValueKeyPattern.FindStringIndex(s[idx:])
		if loc == nil {
			b.WriteString(s[idx:])
			break
		}
		valStart := idx + loc[1]
		b.WriteString(s[idx:valStart])

		i := valStart
		for i < len(s) {
			if s[i] == '\\' && i+1 < len(s) {
				b.WriteByte(s[i])
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			if s[i] == '"' {
				j := i + 1
				for j < len(s) && isJSONSpace(s[j]) {
					j++
				}
				if j >= len(s) || s[j] == ',' || s[j] == '}' || s[j] == ']' {
					b.WriteByte('"')
					i++
					break
				}
				b.WriteString(`\"`)
				i++
				continue
			}
			b.WriteByte(s[i])
			i++
		}
		idx = i
	}
	return b.String()
}

// fixCommas drops trailing and duplicated commas and inserts the missing
// separator between adjacent objects. String-aware like the passes above.
func fixCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			b.WriteByte(ch)
		case ',':
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == ',' || s[j] == '}' || s[j] == ']') {
				continue // trailing or duplicated comma
			}
			b.WriteByte(ch)
		case '}':
			b.WriteByte(ch)
			j := i + 1
			for j < len(s) && isJSONSpace(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '{' {
				b.WriteByte(',')
			}
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Steps 3–7: parse, validate, classify, normalize, order

const hotelNamePrefix = "hotel:"

// NormalizeAIResponse turns raw model text into a validated, deterministically
// ordered stop list. Extraction and validation failures are fatal for the
// attempt (the orchestrator retries); repairs and hotel dedupe degrade
// gracefully so the itinerary stays usable even when imperfect.
func NormalizeAIResponse(raw string, cfg NormalizeConfig) ([]NormalizedStop, error) {
	arrayText, perr := extractArray(raw)
	if perr != nil {
		return nil, perr
	}

	repaired := RepairJSON(arrayText)

	if !strings.HasPrefix(repaired, "[") || !strings.HasSuffix(repaired, "]") {
		return nil, newParseError(ParseKindNotAnArray, repaired, 0, nil)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Parsed fine but the shape is wrong, e.g. an array of scalars.
			return nil, newParseError(ParseKindNotAnArray, repaired, int(typeErr.Offset), err)
		}
		offset := 0
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			offset = int(syntaxErr.Offset)
		}
		return nil, newParseError(ParseKindInvalidJSON, repaired, offset, err)
	}
	if len(entries) == 0 {
		return nil, newParseError(ParseKindEmptyArray, repaired, 0, nil)
	}

	stops := make([]NormalizedStop, 0, len(entries))
	for i, entry := range entries {
		stop, err := normalizeEntry(entry, i)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	stops = applyDayInvariants(stops, cfg)
	sortStops(stops, cfg)
	return stops, nil
}

func normalizeEntry(entry map[string]interface{}, index int) (NormalizedStop, error) {
	name := strings.TrimSpace(stringField(entry, "name"))
	if name == "" {
		return NormalizedStop{}, &ParseError{
			Kind: ParseKindMissingField,
			Err:  fmt.Errorf("entry %d has no name", index),
		}
	}
	dayIndex, ok := numberField(entry, "dayIndex")
	if !ok {
		return NormalizedStop{}, &ParseError{
			Kind: ParseKindMissingField,
			Err:  fmt.Errorf("entry %d (%s) has no numeric dayIndex", index, name),
		}
	}

	address := strings.TrimSpace(stringField(entry, "address"))
	if address == "" {
		address = name
	}

	stop := NormalizedStop{
		Name:        name,
		Address:     address,
		Description: stringField(entry, "description"),
		DayIndex:    int(dayIndex),
	}
	if v, ok := entry["isStartingPoint"].(bool); ok {
		stop.IsStartingPoint = v
	}

	if isHotelEntry(entry, name) {
		stop.Kind = StopHotel
		for _, key := range []string{"estimatedDuration", "travelTimeToNext", "bestTimeToVisit"} {
			if _, has := entry[key]; has {
				log.Printf("Warning: hotel %q carries timing fields, discarding them", name)
				break
			}
		}
		return stop, nil
	}

	stop.Kind = StopAttraction
	stop.Timing = normalizeAttractionTiming(entry)
	return stop, nil
}

func isHotelEntry(entry map[string]interface{}, name string) bool {
	if v, ok := entry["isHotel"].(bool); ok && v {
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), hotelNamePrefix)
}

func normalizeAttractionTiming(entry map[string]interface{}) *StopTiming {
	timing := &StopTiming{}

	if dur, ok := numberField(entry, "estimatedDuration"); ok {
		timing.EstimatedDuration = clampMinutes(int(math.Round(dur)), minVisitMinutes, maxVisitMinutes)
	} else {
		timing.EstimatedDuration = defaultVisitMinutes
	}

	bestTime := canonicalBestTime(stringField(entry, "bestTimeToVisit"))
	timing.BestTimeToVisit = bestTime

	if travel, ok := numberField(entry, "travelTimeToNext"); ok {
		timing.TravelTimeToNext = EstimateTravelFromMinutes(travel, bestTime)
	} else {
		timing.TravelTimeToNext = EstimateTravelFromText(stringField(entry, "description"), bestTime)
	}

	return timing
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// canonicalBestTime zero-pads HH:MM style values; daypart labels and other
// free text pass through untouched.
func canonicalBestTime(s string) string {
	s = strings.TrimSpace(s)
	match := clockPattern.FindStringSubmatch(s)
	if match == nil {
		return s
	}
	var hour, minute int
	fmt.Sscanf(match[1], "%d", &hour)
	fmt.Sscanf(match[2], "%d", &minute)
	if hour > 23 || minute > 59 {
		return s
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// applyDayInvariants enforces the day structure: a start point opens day 0,
// dayIndex stays inside the trip, and each day keeps at most one hotel (the
// last one encountered wins; earlier duplicates are dropped, not errors).
func applyDayInvariants(stops []NormalizedStop, cfg NormalizeConfig) []NormalizedStop {
	lastDay := cfg.TripDays - 1
	if lastDay < 0 {
		lastDay = 0
	}
	for i := range stops {
		if stops[i].DayIndex < 0 {
			stops[i].DayIndex = 0
		}
		if stops[i].DayIndex > lastDay {
			stops[i].DayIndex = lastDay
		}
	}

	hasStart := false
	for i := range stops {
		if stops[i].DayIndex != 0 {
			continue
		}
		if stops[i].IsStartingPoint || matchesPoint(stops[i].Name, cfg.StartPoint) {
			stops[i].IsStartingPoint = true
			hasStart = true
			break
		}
	}
	if !hasStart {
		synthetic := NormalizedStop{
			Kind:            StopAttraction,
			Name:            cfg.StartPoint,
			Address:         cfg.StartPoint,
			DayIndex:        0,
			IsStartingPoint: true,
			Timing: &StopTiming{
				EstimatedDuration: minVisitMinutes,
				TravelTimeToNext:  0,
				BestTimeToVisit:   "morning",
			},
		}
		stops = append([]NormalizedStop{synthetic}, stops...)
	}

	// Last hotel per day wins.
	lastHotel := make(map[int]int)
	for i, stop := range stops {
		if stop.Kind == StopHotel {
			lastHotel[stop.DayIndex] = i
		}
	}
	kept := stops[:0]
	for i, stop := range stops {
		if stop.Kind == StopHotel && lastHotel[stop.DayIndex] != i {
			log.Printf("Dropping duplicate hotel %q on day %d", stop.Name, stop.DayIndex)
			continue
		}
		kept = append(kept, stop)
	}
	return kept
}

// sortStops orders stops by (dayIndex, tie-break): the start point leads
// day 0, an end-point match closes the last day, hotels trail attractions on
// the days in between, and best-time strings settle what remains.
func sortStops(stops []NormalizedStop, cfg NormalizeConfig) {
	lastDay := cfg.TripDays - 1

	sort.SliceStable(stops, func(i, j int) bool {
		a, b := stops[i], stops[j]
		if a.DayIndex != b.DayIndex {
			return a.DayIndex < b.DayIndex
		}

		if a.DayIndex == 0 && a.IsStartingPoint != b.IsStartingPoint {
			return a.IsStartingPoint
		}

		if a.DayIndex == lastDay {
			aEnd := matchesPoint(a.Name, cfg.EndPoint)
			bEnd := matchesPoint(b.Name, cfg.EndPoint)
			if aEnd != bEnd {
				return bEnd
			}
		} else {
			aHotel := a.Kind == StopHotel
			bHotel := b.Kind == StopHotel
			if aHotel != bHotel {
				return bHotel
			}
		}

		return a.bestTimeKey() < b.bestTimeKey()
	})
}

func matchesPoint(name, point string) bool {
	if point == "" {
		return false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	point = strings.ToLower(strings.TrimSpace(point))
	return strings.Contains(name, point) || strings.Contains(point, name)
}

func stringField(entry map[string]interface{}, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}

func numberField(entry map[string]interface{}, key string) (float64, bool) {
	switch v := entry[key].(type) {
	case float64:
		return v, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}
