package temporal

import (
	"reflect"
	"testing"
	"time"

	"github.com/curbscope/curbscope/pkg/models"
)

func reading(ts time.Time, entity string) models.Reading {
	return models.Reading{Timestamp: ts, EntityID: entity, Occupied: 1, Capacity: 2}
}

func TestRangeContainsEndOfDay(t *testing.T) {
	r := Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	cases := []struct {
		ts   time.Time
		want bool
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 1, 3, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), false},
	}
	for _, c := range cases {
		if got := r.Contains(c.ts); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.ts, got, c.want)
		}
	}
}

func TestFilterByWeekdaysIdentity(t *testing.T) {
	rs := []models.Reading{
		reading(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "a"), // Monday
		reading(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), "a"), // Tuesday
	}
	if got := FilterByWeekdays(rs, nil); !reflect.DeepEqual(got, rs) {
		t.Errorf("FilterByWeekdays(rs, nil) changed the input")
	}
	all := []int{0, 1, 2, 3, 4, 5, 6}
	if got := FilterByWeekdays(rs, all); !reflect.DeepEqual(got, rs) {
		t.Errorf("FilterByWeekdays(rs, all) changed the input")
	}
}

func TestFilterByWeekdaysSelects(t *testing.T) {
	mon := reading(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "a")
	tue := reading(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), "a")
	got := FilterByWeekdays([]models.Reading{mon, tue}, []int{1}) // Monday only
	if len(got) != 1 || !got[0].Timestamp.Equal(mon.Timestamp) {
		t.Errorf("FilterByWeekdays kept %v, want only Monday", got)
	}
}

func TestFilterByHours(t *testing.T) {
	early := reading(time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC), "a")
	noon := reading(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "a")
	late := reading(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), "a")
	rs := []models.Reading{early, noon, late}

	if got := FilterByHours(rs, nil); !reflect.DeepEqual(got, rs) {
		t.Errorf("FilterByHours(rs, nil) changed the input")
	}

	got := FilterByHours(rs, []HourRange{{Start: 12, End: 17}, {Start: 22, End: 23}})
	if len(got) != 2 || got[0].Timestamp.Hour() != 12 || got[1].Timestamp.Hour() != 23 {
		t.Errorf("FilterByHours kept wrong readings: %v", got)
	}
}

func TestBucketKeyFormats(t *testing.T) {
	ts := time.Date(2024, 3, 13, 14, 47, 12, 0, time.UTC) // a Wednesday
	cases := []struct {
		g    Granularity
		want string
	}{
		{Gran15Min, "2024-03-13T14:45"},
		{GranHourly, "2024-03-13T14:00"},
		{GranDaily, "2024-03-13"},
		{GranWeekly, "2024-03-11"}, // Monday of that week
		{GranMonthly, "2024-03-01"},
		{"bogus", "2024-03-13"}, // unknown degrades to daily
	}
	for _, c := range cases {
		if got := BucketKey(ts, c.g); got != c.want {
			t.Errorf("BucketKey(%v, %q) = %q, want %q", ts, c.g, got, c.want)
		}
	}
}

func TestBucketKeyWeeklyOnSunday(t *testing.T) {
	// Sunday belongs to the ISO week starting the previous Monday
	sun := time.Date(2024, 3, 17, 10, 0, 0, 0, time.UTC)
	if got := BucketKey(sun, GranWeekly); got != "2024-03-11" {
		t.Errorf("BucketKey(sunday, weekly) = %q, want 2024-03-11", got)
	}
}

func TestBucketRangeDaily(t *testing.T) {
	r := Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if got := BucketRange(r, GranDaily); !reflect.DeepEqual(got, want) {
		t.Errorf("BucketRange(daily) = %v, want %v", got, want)
	}
}

func TestBucketRangeMonthlyEndOfMonthStart(t *testing.T) {
	// A range starting Jan 31 still enumerates February
	r := Range{
		Start: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	if got := BucketRange(r, GranMonthly); !reflect.DeepEqual(got, want) {
		t.Errorf("BucketRange(monthly) = %v, want %v", got, want)
	}
}

func TestBucketRangeHourlyCount(t *testing.T) {
	r := Range{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	got := BucketRange(r, GranHourly)
	if len(got) != 24 {
		t.Errorf("BucketRange(one day, hourly) has %d keys, want 24", len(got))
	}
	if got[0] != "2024-01-01T00:00" || got[23] != "2024-01-01T23:00" {
		t.Errorf("hourly keys out of order: first %q last %q", got[0], got[23])
	}
}

func TestBucketizeIsAPartition(t *testing.T) {
	rs := []models.Reading{
		reading(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "a"),
		reading(time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC), "b"),
		reading(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), "a"),
	}
	b := Bucketize(rs, GranDaily)

	total := 0
	for _, k := range b.Keys() {
		total += len(b.Get(k))
	}
	if total != len(rs) {
		t.Errorf("bucket members total %d, want %d", total, len(rs))
	}

	wantKeys := map[string]struct{}{}
	for _, rd := range rs {
		wantKeys[BucketKey(rd.Timestamp, GranDaily)] = struct{}{}
	}
	if len(b.Keys()) != len(wantKeys) {
		t.Errorf("bucket keys %v, want exactly %v", b.Keys(), wantKeys)
	}
	for _, k := range b.Keys() {
		if _, ok := wantKeys[k]; !ok {
			t.Errorf("unexpected bucket key %q", k)
		}
	}
}

func TestBucketizePreservesFirstAppearanceOrder(t *testing.T) {
	rs := []models.Reading{
		reading(time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), "a"),
		reading(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), "a"),
		reading(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), "a"),
	}
	b := Bucketize(rs, GranDaily)
	want := []string{"2024-01-02", "2024-01-01"}
	if !reflect.DeepEqual(b.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", b.Keys(), want)
	}
	if len(b.Get("2024-01-02")) != 2 {
		t.Errorf("bucket 2024-01-02 has %d readings, want 2", len(b.Get("2024-01-02")))
	}
}
