package subtitles

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTimestamp marks offsets that cannot be rendered (negative or NaN).
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrMalformedTimestamp marks timing text that cannot be parsed.
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

const (
	msPerHour   = 3_600_000
	msPerMinute = 60_000
	msPerSecond = 1_000
)

// FormatTimestamp renders seconds as [HH:]MM:SS,mmm. Milliseconds are rounded
// half-to-even. The hour field is emitted when alwaysIncludeHours is set or
// the value reaches one hour.
func FormatTimestamp(seconds float64, alwaysIncludeHours bool) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "", fmt.Errorf("%w: %v seconds", ErrInvalidTimestamp, seconds)
	}

	rounded := math.RoundToEven(seconds * 1000)
	if rounded >= math.MaxInt64 {
		return "", fmt.Errorf("%w: %v seconds is out of range", ErrInvalidTimestamp, seconds)
	}
	ms := int64(rounded)
	hours := ms / msPerHour
	ms -= hours * msPerHour
	minutes := ms / msPerMinute
	ms -= minutes * msPerMinute
	secs := ms / msPerSecond
	ms -= secs * msPerSecond

	var b strings.Builder
	if alwaysIncludeHours || hours > 0 {
		fmt.Fprintf(&b, "%02d:", hours)
	}
	fmt.Fprintf(&b, "%02d:%02d,%03d", minutes, secs, ms)
	return b.String(), nil
}

// ParseTimestamp parses [HH:]MM:SS,mmm back into seconds. A '.' millisecond
// separator is tolerated.
func ParseTimestamp(text string) (float64, error) {
	value := strings.TrimSpace(text)
	sep := strings.LastIndexAny(value, ",.")
	if sep < 0 {
		return 0, fmt.Errorf("%w: %q has no millisecond field", ErrMalformedTimestamp, text)
	}
	clock, fraction := value[:sep], value[sep+1:]
	if len(fraction) == 0 || len(fraction) > 3 {
		return 0, fmt.Errorf("%w: %q has a bad millisecond field", ErrMalformedTimestamp, text)
	}
	millis, err := parseField(fraction)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, text, err)
	}

	fields := strings.Split(clock, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q needs MM:SS or HH:MM:SS", ErrMalformedTimestamp, text)
	}
	var total int64
	for _, field := range fields {
		n, err := parseField(field)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedTimestamp, text, err)
		}
		if total > (math.MaxInt64-n)/60 {
			return 0, fmt.Errorf("%w: %q is out of range", ErrMalformedTimestamp, text)
		}
		total = total*60 + n
	}
	if total > (math.MaxInt64-millis)/msPerSecond {
		return 0, fmt.Errorf("%w: %q is out of range", ErrMalformedTimestamp, text)
	}
	total = total*msPerSecond + millis
	return float64(total) / 1000, nil
}

func parseField(field string) (int64, error) {
	if field == "" {
		return 0, errors.New("empty field")
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric field %q", field)
		}
	}
	return strconv.ParseInt(field, 10, 64)
}
