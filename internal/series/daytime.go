package series

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/curbscope/curbscope/internal/stats"
	"github.com/curbscope/curbscope/internal/temporal"
	"github.com/curbscope/curbscope/pkg/models"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// weekdayPalette colors weekday and dated sub-series, which have no entity
// color to inherit.
var weekdayPalette = [7]string{"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4", "#46f0f0", "#f032e6"}

// Period is a fixed time-of-day window selectable in the timeOfDay
// dimension.
type Period struct {
	ID    string
	Name  string
	Hours temporal.HourRange
	Color string
}

// Periods is the fixed period table, covering the full day.
var Periods = []Period{
	{ID: "night", Name: "Night (12am-5am)", Hours: temporal.HourRange{Start: 0, End: 5}, Color: "#4363d8"},
	{ID: "morning", Name: "Morning (6am-11am)", Hours: temporal.HourRange{Start: 6, End: 11}, Color: "#3cb44b"},
	{ID: "afternoon", Name: "Afternoon (12pm-5pm)", Hours: temporal.HourRange{Start: 12, End: 17}, Color: "#f58231"},
	{ID: "evening", Name: "Evening (6pm-11pm)", Hours: temporal.HourRange{Start: 18, End: 23}, Color: "#911eb4"},
}

// PeriodByID looks up a period in the fixed table.
func PeriodByID(id string) (Period, bool) {
	for _, p := range Periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// buildDayOfWeek produces hour-of-day series grouped by weekday. With the
// "actual" statistic each concrete calendar date matching the weekday gets
// its own dated sub-series; any other statistic aggregates all occurrences
// of the weekday into a single series. Every series carries 24 hourly
// points; hours with no readings resolve to 0.
func buildDayOfWeek(filtered []models.Reading, snap Snapshot) []Series {
	days := snap.Dimension.Weekdays
	if len(days) == 0 {
		days = []int{0, 1, 2, 3, 4, 5, 6}
	}

	var out []Series
	for _, day := range days {
		if day < 0 || day > 6 {
			continue
		}
		dayReadings := readingsOnWeekday(filtered, day)
		if snap.Statistic == stats.KindActual {
			out = append(out, datedSubSeries(day, dayReadings, snap)...)
			continue
		}
		out = append(out, Series{
			ID:     weekdayID(day),
			Name:   weekdayNames[day],
			Color:  weekdayPalette[day],
			Points: hourlyPoints(dayReadings, snap.Metric, snap.Statistic),
		}.withReference())
	}
	return out
}

// datedSubSeries splits one weekday's readings into per-date series, each
// with 24 hourly mean points.
func datedSubSeries(day int, dayReadings []models.Reading, snap Snapshot) []Series {
	byDate := make(map[string][]models.Reading)
	var dates []string
	for _, r := range dayReadings {
		d := r.Timestamp.UTC().Format("2006-01-02")
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], r)
	}
	sort.Strings(dates)

	out := make([]Series, 0, len(dates))
	for _, d := range dates {
		out = append(out, Series{
			ID:     fmt.Sprintf("%s-%s", weekdayID(day), d),
			Name:   fmt.Sprintf("%s %s", weekdayNames[day], d),
			Color:  weekdayPalette[day],
			Points: hourlyPoints(byDate[d], snap.Metric, stats.KindAverage),
		}.withReference())
	}
	return out
}

// hourlyPoints computes one point per hour of day (00-23).
func hourlyPoints(readings []models.Reading, metric Metric, kind stats.Kind) []Point {
	byHour := make(map[int][]models.Reading)
	for _, r := range readings {
		h := r.Timestamp.UTC().Hour()
		byHour[h] = append(byHour[h], r)
	}
	points := make([]Point, 0, 24)
	for h := 0; h < 24; h++ {
		points = append(points, Point{
			Key:   fmt.Sprintf("%02d", h),
			Value: stats.Calculate(metricValues(byHour[h], metric), kind),
		})
	}
	return points
}

// buildTimeOfDay produces one series per selected period, with one point per
// weekday (Sunday through Saturday). The "actual" statistic has no single
// value across a day bucket and degrades to the mean.
func buildTimeOfDay(filtered []models.Reading, snap Snapshot) []Series {
	ids := snap.Dimension.Periods
	if len(ids) == 0 {
		ids = make([]string, len(Periods))
		for i, p := range Periods {
			ids[i] = p.ID
		}
	}

	kind := snap.Statistic
	if kind == stats.KindActual {
		kind = stats.KindAverage
	}

	var out []Series
	for _, id := range ids {
		p, ok := PeriodByID(id)
		if !ok {
			continue
		}
		inPeriod := make([]models.Reading, 0, len(filtered))
		for _, r := range filtered {
			if p.Hours.Contains(r.Timestamp.UTC().Hour()) {
				inPeriod = append(inPeriod, r)
			}
		}
		points := make([]Point, 0, 7)
		for day := 0; day < 7; day++ {
			points = append(points, Point{
				Key:   strconv.Itoa(day),
				Value: stats.Calculate(metricValues(readingsOnWeekday(inPeriod, day), snap.Metric), kind),
			})
		}
		out = append(out, Series{
			ID:     p.ID,
			Name:   p.Name,
			Color:  p.Color,
			Points: points,
		}.withReference())
	}
	return out
}

func readingsOnWeekday(readings []models.Reading, day int) []models.Reading {
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		if int(r.Timestamp.UTC().Weekday()) == day {
			out = append(out, r)
		}
	}
	return out
}

func weekdayID(day int) string {
	return "weekday-" + strconv.Itoa(day)
}

// withReference returns a copy with ReferenceValue recomputed from the
// points.
func (s Series) withReference() Series {
	s.ReferenceValue = referenceValue(s.Points)
	return s
}
