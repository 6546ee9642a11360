package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curbscope/curbscope/internal/config"
	"github.com/curbscope/curbscope/internal/series"
	"github.com/curbscope/curbscope/internal/stats"
	"github.com/curbscope/curbscope/internal/temporal"
)

// snapshotFlags collects the aggregation configuration flags shared by the
// chart, map and publish commands.
type snapshotFlags struct {
	from        string
	to          string
	granularity string
	statistic   string
	metric      string
	dimension   string
	entities    []string
	weekdays    []int
	periods     []string
	hours       []string
	combined    bool
}

// register adds the shared flags to a command.
func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Range start (YYYY-MM-DD or relative like 30d)")
	cmd.Flags().StringVar(&f.to, "to", "", "Range end (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&f.granularity, "granularity", "", "Bucket width: 15min, hourly, daily, weekly, monthly")
	cmd.Flags().StringVar(&f.statistic, "statistic", "", "Statistic: actual, average, min, max, median, mode, p25, p75, total, stddev")
	cmd.Flags().StringVar(&f.metric, "metric", "", "Metric: occupancy or transactions")
	cmd.Flags().StringVar(&f.dimension, "dimension", "aoi", "Series dimension: aoi, dayOfWeek, timeOfDay, blockface")
	cmd.Flags().StringSliceVar(&f.entities, "entities", nil, "Entity IDs to include (default: all of the dimension's kind)")
	cmd.Flags().IntSliceVar(&f.weekdays, "weekdays", nil, "Weekday pattern or selection, 0=Sunday..6=Saturday")
	cmd.Flags().StringSliceVar(&f.periods, "periods", nil, "Time-of-day periods: night, morning, afternoon, evening")
	cmd.Flags().StringSliceVar(&f.hours, "hours", nil, "Hour ranges like 8-11 or 18-23 (inclusive)")
	cmd.Flags().BoolVar(&f.combined, "combined", false, "Merge selected areas into one series")
}

// build turns the flags into a pipeline snapshot, applying config defaults.
func (f *snapshotFlags) build(cfg *config.Config) (series.Snapshot, error) {
	var snap series.Snapshot

	to := time.Now().UTC()
	if f.to != "" {
		t, err := parseDate(f.to)
		if err != nil {
			return snap, fmt.Errorf("parsing --to date: %w", err)
		}
		to = t
	}
	from := to.AddDate(0, 0, -30)
	if f.from != "" {
		t, err := parseDate(f.from)
		if err != nil {
			return snap, fmt.Errorf("parsing --from date: %w", err)
		}
		from = t
	}
	snap.Range = temporal.Range{Start: from, End: to}

	snap.Granularity = temporal.Granularity(firstNonEmpty(f.granularity, cfg.GetGranularity()))
	snap.Statistic = stats.Kind(firstNonEmpty(f.statistic, cfg.GetStatistic()))
	snap.Metric = series.Metric(firstNonEmpty(f.metric, cfg.GetMetric()))
	snap.CombinedView = f.combined

	dim := series.Dimension{Type: series.DimensionType(f.dimension)}
	switch dim.Type {
	case series.DimensionDayOfWeek:
		dim.Weekdays = f.weekdays
	case series.DimensionTimeOfDay:
		dim.Periods = f.periods
	default:
		dim.Entities = f.entities
	}
	snap.Dimension = dim

	// the recurring patterns only apply where the dimension does not
	// already group by them
	if dim.Type != series.DimensionDayOfWeek {
		snap.Weekdays = f.weekdays
	}
	if dim.Type != series.DimensionTimeOfDay {
		hours, err := parseHourRanges(f.hours)
		if err != nil {
			return snap, err
		}
		snap.Hours = hours
	}

	return snap, nil
}

// parseDate parses a date string in either YYYY-MM-DD format or relative
// format (e.g., "7d" for 7 days ago)
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err == nil {
		return t, nil
	}

	if len(dateStr) > 1 && dateStr[len(dateStr)-1] == 'd' {
		daysStr := dateStr[:len(dateStr)-1]
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err == nil {
			return time.Now().UTC().AddDate(0, 0, -days), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", dateStr)
}

// parseHourRanges parses flags like "8-11" into inclusive hour ranges.
func parseHourRanges(specs []string) ([]temporal.HourRange, error) {
	var out []temporal.HourRange
	for _, s := range specs {
		parts := strings.SplitN(s, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid hour range %q (use start-end, e.g. 8-11)", s)
		}
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid hour range %q: %w", s, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid hour range %q: %w", s, err)
		}
		if start < 0 || end > 23 || start > end {
			return nil, fmt.Errorf("invalid hour range %q: hours must satisfy 0 <= start <= end <= 23", s)
		}
		out = append(out, temporal.HourRange{Start: start, End: end})
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
