package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultExt is the image extension that terminates an encoded path timestamp.
const DefaultExt = ".jpg"

// ErrPathFormat is returned when a path does not encode a capture timestamp.
var ErrPathFormat = errors.New("path does not encode a YYYY/MM/DD/HHMMSS timestamp")

// PathTimestamp is a UTC capture time encoded in a YYYY/MM/DD/HHMMSS<ext> path.
type PathTimestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Time returns the timestamp as a UTC time.
func (p PathTimestamp) Time() time.Time {
	return time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, p.Minute, p.Second, 0, time.UTC)
}

func (p PathTimestamp) String() string {
	return fmt.Sprintf("%04d/%02d/%02d/%02d%02d%02d", p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second)
}

func (p PathTimestamp) valid() bool {
	if p.Hour > 23 || p.Minute > 59 || p.Second > 59 {
		return false
	}
	t := p.Time()
	return t.Year() == p.Year && int(t.Month()) == p.Month && t.Day() == p.Day
}

// ParsePath finds the leftmost YYYY/MM/DD/HHMMSS<ext> run of path segments.
//
// The year segment may carry a prefix; the last segment may carry a suffix after ext.
// Only the leftmost run is considered: if it is not a valid calendar time, parsing fails.
func ParsePath(path string, ext string) (PathTimestamp, error) {
	if ext == "" {
		ext = DefaultExt
	}

	segs := strings.Split(filepath.ToSlash(path), "/")
	for i := 0; i+3 < len(segs); i++ {
		ts, ok := matchSegments(segs[i:i+4], ext)
		if !ok {
			continue
		}
		if !ts.valid() {
			return PathTimestamp{}, fmt.Errorf("%w: %s is not a valid time in %q", ErrPathFormat, ts, path)
		}
		return ts, nil
	}

	return PathTimestamp{}, fmt.Errorf("%w: %q", ErrPathFormat, path)
}

func matchSegments(segs []string, ext string) (PathTimestamp, bool) {
	y, m, d, f := segs[0], segs[1], segs[2], segs[3]
	if len(y) < 4 || len(m) != 2 || len(d) != 2 || len(f) < 6+len(ext) {
		return PathTimestamp{}, false
	}
	y = y[len(y)-4:]
	if !strings.HasPrefix(f[6:], ext) {
		return PathTimestamp{}, false
	}
	f = f[:6]

	var ts PathTimestamp
	fields := []struct {
		s   string
		dst *int
	}{
		{y, &ts.Year},
		{m, &ts.Month},
		{d, &ts.Day},
		{f[0:2], &ts.Hour},
		{f[2:4], &ts.Minute},
		{f[4:6], &ts.Second},
	}
	for _, fd := range fields {
		n, ok := digits(fd.s)
		if !ok {
			return PathTimestamp{}, false
		}
		*fd.dst = n
	}
	return ts, true
}

// digits parses s as an unsigned decimal made only of ASCII digits.
func digits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Reconciled is a capture time in UTC and in the photographer's local zone.
type Reconciled struct {
	UTC time.Time
	// Local is the same instant as UTC, presented in a fixed zone offset by the requested hours.
	Local time.Time
	// Epoch is UTC in Unix seconds, independent of the offset.
	Epoch int64
}

// Reconcile applies a whole-hour UTC offset to a path timestamp.
func Reconcile(ts PathTimestamp, offsetHours int) Reconciled {
	utc := ts.Time()
	return Reconciled{
		UTC:   utc,
		Local: utc.In(Zone(offsetHours)),
		Epoch: utc.Unix(),
	}
}

// MaxOffsetHours bounds the UTC offset accepted by Reconcile callers.
const MaxOffsetHours = 24

// Zone returns a fixed zone named like "UTC-06" for a whole-hour offset.
func Zone(offsetHours int) *time.Location {
	sign := "+"
	h := offsetHours
	if h < 0 {
		sign = "-"
		h = -h
	}
	return time.FixedZone(fmt.Sprintf("UTC%s%02d", sign, h), offsetHours*60*60)
}
