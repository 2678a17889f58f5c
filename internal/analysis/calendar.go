package analysis

import (
	"sort"
	"time"
)

// Cell is one day of the heatmap. Empty cells pad the first and last week
// and lie outside the year.
type Cell struct {
	Date  string `json:"date,omitempty"`
	Count int    `json:"count"`
	Level int    `json:"level"`
	Empty bool   `json:"empty,omitempty"`
}

// Calendar is a full-year heatmap laid out in Sunday-first weeks.
type Calendar struct {
	Year          int       `json:"year"`
	Weeks         [][7]Cell `json:"weeks"`
	MaxDaily      int       `json:"max_daily"`
	ActiveDays    int       `json:"active_days"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
}

// BuildCalendar lays out daily (YYYY-MM-DD -> count) for year. Only dates in
// year are counted. The current streak is measured back from now's date, or
// from the day before when now's date has no messages.
func BuildCalendar(daily map[string]int, year int, now time.Time) Calendar {
	first := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	inYear := make(map[string]int)
	cal := Calendar{Year: year, MaxDaily: 1}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		n := daily[key]
		if n <= 0 {
			continue
		}
		inYear[key] = n
		cal.ActiveDays++
		if n > cal.MaxDaily {
			cal.MaxDaily = n
		}
	}

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	for week := gridStart; !week.After(gridEnd); week = week.AddDate(0, 0, 7) {
		var row [7]Cell
		for i := range row {
			d := week.AddDate(0, 0, i)
			if d.Year() != year {
				row[i] = Cell{Empty: true}
				continue
			}
			n := inYear[d.Format(dateLayout)]
			row[i] = Cell{Date: d.Format(dateLayout), Count: n, Level: level(n, cal.MaxDaily)}
		}
		cal.Weeks = append(cal.Weeks, row)
	}

	cal.CurrentStreak = currentStreak(inYear, now)
	cal.LongestStreak = longestStreak(inYear)
	return cal
}

// level buckets count/max into quartiles: (0,.25] is 1 up to (.75,1] is 4.
func level(count, maxDaily int) int {
	if count <= 0 {
		return 0
	}
	switch ratio := float64(count) / float64(maxDaily); {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}

func currentStreak(active map[string]int, now time.Time) int {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if active[day.Format(dateLayout)] == 0 {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for active[day.Format(dateLayout)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func longestStreak(active map[string]int) int {
	dates := make([]time.Time, 0, len(active))
	for key := range active {
		d, err := time.Parse(dateLayout, key)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && d.Equal(dates[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
