package report

import "time"

// ChartDateLayout is the day format used for chart labels
const ChartDateLayout = "2006-01-02"

// BuildChartSeries turns sparse daily totals into one point per day for the
// days ending on today, filling missing days with zeros.
func BuildChartSeries(movements []DailyMovement, days int, today time.Time) []ChartPoint {
	if days <= 0 {
		days = DefaultChartDays
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}

	byDay := make(map[string]*ChartPoint, len(movements))
	for _, m := range movements {
		key := m.Day.In(today.Location()).Format(ChartDateLayout)
		p, ok := byDay[key]
		if !ok {
			p = &ChartPoint{Date: key}
			byDay[key] = p
		}
		switch m.Direction {
		case string(DirectionIn):
			p.In += m.Total
		case string(DirectionOut):
			p.Out += m.Total
		}
	}

	start := truncateDay(today).AddDate(0, 0, -(days - 1))
	series := make([]ChartPoint, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(ChartDateLayout)
		if p, ok := byDay[key]; ok {
			series = append(series, *p)
			continue
		}
		series = append(series, ChartPoint{Date: key})
	}
	return series
}

// ChartWindowStart returns midnight of the first day in a window ending today
func ChartWindowStart(days int, today time.Time) time.Time {
	if days <= 0 {
		days = DefaultChartDays
	}
	if days > MaxChartDays {
		days = MaxChartDays
	}
	return truncateDay(today).AddDate(0, 0, -(days - 1))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
