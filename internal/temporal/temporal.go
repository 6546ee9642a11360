// Package temporal implements the time-range, weekday and hour filters and
// the fixed-width bucketing used by the series pipeline. All calendar math
// is done in UTC: timestamps, range boundaries, weekday and hour extraction.
package temporal

import (
	"time"

	"github.com/curbscope/curbscope/pkg/models"
)

// Granularity selects the bucket width and key format.
type Granularity string

const (
	Gran15Min   Granularity = "15min"
	GranHourly  Granularity = "hourly"
	GranDaily   Granularity = "daily"
	GranWeekly  Granularity = "weekly"
	GranMonthly Granularity = "monthly"
)

// Range is an inclusive date range. End is extended to the end of its day
// when testing membership.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	start := startOfDay(r.Start)
	end := endOfDay(r.End)
	t = t.UTC()
	return !t.Before(start) && !t.After(end)
}

// HourRange is an inclusive hour-of-day range, e.g. {18, 23} for evenings.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the hour falls inside the range.
func (hr HourRange) Contains(hour int) bool {
	return hour >= hr.Start && hour <= hr.End
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// FilterByRange keeps readings whose timestamp falls inside the range.
func FilterByRange(readings []models.Reading, r Range) []models.Reading {
	out := make([]models.Reading, 0, len(readings))
	for _, rd := range readings {
		if r.Contains(rd.Timestamp) {
			out = append(out, rd)
		}
	}
	return out
}

// FilterByWeekdays keeps readings whose UTC weekday (0=Sunday..6=Saturday)
// is in days. An empty set or one covering all seven days is the identity:
// the input slice is returned untouched.
func FilterByWeekdays(readings []models.Reading, days []int) []models.Reading {
	if len(days) == 0 {
		return readings
	}
	set := make(map[int]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	if len(set) >= 7 {
		return readings
	}
	out := make([]models.Reading, 0, len(readings))
	for _, rd := range readings {
		if _, ok := set[int(rd.Timestamp.UTC().Weekday())]; ok {
			out = append(out, rd)
		}
	}
	return out
}

// FilterByHours keeps readings whose UTC hour falls in any of the ranges.
// An empty range list is the identity.
func FilterByHours(readings []models.Reading, ranges []HourRange) []models.Reading {
	if len(ranges) == 0 {
		return readings
	}
	out := make([]models.Reading, 0, len(readings))
	for _, rd := range readings {
		h := rd.Timestamp.UTC().Hour()
		for _, hr := range ranges {
			if hr.Contains(h) {
				out = append(out, rd)
				break
			}
		}
	}
	return out
}

// BucketKey returns the canonical bucket key for a timestamp at the given
// granularity. 15min floors minutes to the lower multiple of 15, weekly keys
// to the Monday of the ISO week, monthly to the first of the month. An
// unknown granularity degrades to daily.
func BucketKey(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case Gran15Min:
		floored := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/15*15, 0, 0, time.UTC)
		return floored.Format("2006-01-02T15:04")
	case GranHourly:
		return t.Format("2006-01-02T15:00")
	case GranWeekly:
		return mondayOf(t).Format("2006-01-02")
	case GranMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	case GranDaily:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01-02")
	}
}

// mondayOf returns midnight of the Monday of t's ISO week.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -offset))
}

// alignToBucket returns the start of the bucket containing t.
func alignToBucket(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	switch g {
	case Gran15Min:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()/15*15, 0, 0, time.UTC)
	case GranHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case GranWeekly:
		return mondayOf(t)
	case GranMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return startOfDay(t)
	}
}

// step advances a bucket start by one bucket width.
func step(t time.Time, g Granularity) time.Time {
	switch g {
	case Gran15Min:
		return t.Add(15 * time.Minute)
	case GranHourly:
		return t.Add(time.Hour)
	case GranWeekly:
		return t.AddDate(0, 0, 7)
	case GranMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// BucketRange enumerates every bucket key between the range start and the
// end of the range's last day, in chronological order without duplicates.
// It is used to render empty buckets; the aggregation path never calls it.
func BucketRange(r Range, g Granularity) []string {
	end := endOfDay(r.End)
	var keys []string
	seen := make(map[string]struct{})
	for t := alignToBucket(startOfDay(r.Start), g); !t.After(end); t = step(t, g) {
		k := BucketKey(t, g)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Buckets groups readings by bucket key, preserving the order in which keys
// first appear. Empty buckets are never created.
type Buckets struct {
	keys   []string
	groups map[string][]models.Reading
}

// Bucketize partitions readings into buckets in a single pass.
func Bucketize(readings []models.Reading, g Granularity) *Buckets {
	b := &Buckets{groups: make(map[string][]models.Reading)}
	for _, rd := range readings {
		k := BucketKey(rd.Timestamp, g)
		if _, ok := b.groups[k]; !ok {
			b.keys = append(b.keys, k)
		}
		b.groups[k] = append(b.groups[k], rd)
	}
	return b
}

// Keys returns the bucket keys in first-appearance order.
func (b *Buckets) Keys() []string {
	return b.keys
}

// Get returns the readings in the bucket, or nil.
func (b *Buckets) Get(key string) []models.Reading {
	return b.groups[key]
}

// Len returns the number of non-empty buckets.
func (b *Buckets) Len() int {
	return len(b.keys)
}
