package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/glimpse/core"
)

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december`

// dateRule recognizes one family of date expressions. resolve receives the
// submatches of pattern and the reference time.
type dateRule struct {
	pattern *regexp.Regexp
	resolve func(m []string, now time.Time) (core.TimePeriod, bool)
}

// dateRules are tried in order; the first match wins.
var dateRules = []dateRule{
	{
		regexp.MustCompile(`(?i)\b(?:in\s+|during\s+)?(` + monthNames + `)(?:\s+of)?,?\s+((?:19|20)\d{2})\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			year, _ := strconv.Atoi(m[2])
			return monthPeriod(year, parseMonth(m[1]), now.Location()), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(?:in\s+|during\s+)?(?:the\s+)?(summer|winter|spring|fall|autumn)(?:\s+of)?\s+((?:19|20)\d{2})\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			year, _ := strconv.Atoi(m[2])
			return seasonPeriod(strings.ToLower(m[1]), year, now.Location()), true
		},
	},
	{
		regexp.MustCompile(`(?i)\blast\s+weekend\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			return lastWeekend(now), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(this|last|past)\s+(week|month|year)\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			return calendarPeriod(strings.ToLower(m[1]) != "this", strings.ToLower(m[2]), now), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(this|last|past)\s+(summer|winter|spring|fall|autumn)\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			season := strings.ToLower(m[2])
			if strings.EqualFold(m[1], "this") {
				return thisSeason(season, now), true
			}
			return lastSeason(season, now), true
		},
	},
	{
		regexp.MustCompile(`(?i)\btoday\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			return dayPeriod(now), true
		},
	},
	{
		regexp.MustCompile(`(?i)\byesterday\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			return dayPeriod(now.AddDate(0, 0, -1)), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(?:(in|during|last|this)\s+)?(` + monthNames + `)\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			prefix := strings.ToLower(m[1])
			month := parseMonth(m[2])
			// "may" alone is far more often a verb than a month.
			if prefix == "" && month == time.May {
				return core.TimePeriod{}, false
			}
			year := now.Year()
			switch prefix {
			case "this":
			case "last":
				if month >= now.Month() {
					year--
				}
			default:
				if month > now.Month() {
					year--
				}
			}
			return monthPeriod(year, month, now.Location()), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(?:(?:in|during|from)\s+)?((?:19|20)\d{2})\b`),
		func(m []string, now time.Time) (core.TimePeriod, bool) {
			year, _ := strconv.Atoi(m[1])
			start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
			return span(start, start.AddDate(1, 0, 0)), true
		},
	},
}

// extractDate finds the first date expression in text and returns the
// resolved period with the expression removed from the text.
func extractDate(text string, now time.Time) (*core.TimePeriod, string) {
	for _, rule := range dateRules {
		for _, loc := range rule.pattern.FindAllStringSubmatchIndex(text, -1) {
			m := submatches(text, loc)
			period, ok := rule.resolve(m, now)
			if !ok {
				continue
			}
			return &period, text[:loc[0]] + " " + text[loc[1]:]
		}
	}
	return nil, text
}

func submatches(text string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

// span converts a half-open interval into an inclusive period.
func span(start, end time.Time) core.TimePeriod {
	return core.TimePeriod{Start: start, End: end.Add(-time.Nanosecond)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayPeriod(t time.Time) core.TimePeriod {
	start := startOfDay(t)
	return span(start, start.AddDate(0, 0, 1))
}

func monthPeriod(year int, month time.Month, loc *time.Location) core.TimePeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return span(start, start.AddDate(0, 1, 0))
}

func parseMonth(name string) time.Month {
	name = strings.ToLower(name)
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()) == name {
			return m
		}
	}
	return 0
}

// calendarPeriod resolves "this/last week|month|year". Weeks start on Monday.
func calendarPeriod(previous bool, unit string, now time.Time) core.TimePeriod {
	today := startOfDay(now)
	var start, end time.Time
	switch unit {
	case "week":
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		if previous {
			start = start.AddDate(0, 0, -7)
		}
		end = start.AddDate(0, 0, 7)
	case "month":
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, now.Location())
		if previous {
			start = start.AddDate(0, -1, 0)
		}
		end = start.AddDate(0, 1, 0)
	default:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		if previous {
			start = start.AddDate(-1, 0, 0)
		}
		end = start.AddDate(1, 0, 0)
	}
	return span(start, end)
}

// lastWeekend is the most recent Saturday and Sunday that are entirely past.
func lastWeekend(now time.Time) core.TimePeriod {
	today := startOfDay(now)
	back := (int(today.Weekday()) + 1) % 7
	if back <= 1 {
		back += 7
	}
	saturday := today.AddDate(0, 0, -back)
	return span(saturday, saturday.AddDate(0, 0, 2))
}

// seasonBounds returns a meteorological northern-hemisphere season. Winter
// of year Y runs from December Y through February Y+1.
func seasonBounds(season string, year int, loc *time.Location) (time.Time, time.Time) {
	var month time.Month
	switch season {
	case "spring":
		month = time.March
	case "summer":
		month = time.June
	case "fall", "autumn":
		month = time.September
	default:
		month = time.December
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 3, 0)
}

func seasonPeriod(season string, year int, loc *time.Location) core.TimePeriod {
	return span(seasonBounds(season, year, loc))
}

// thisSeason is the season of the current year; in January and February
// "this winter" is the one that started the previous December.
func thisSeason(season string, now time.Time) core.TimePeriod {
	year := now.Year()
	if season == "winter" && now.Month() <= time.February {
		year--
	}
	return seasonPeriod(season, year, now.Location())
}

// lastSeason is the most recent occurrence of the season that has ended.
func lastSeason(season string, now time.Time) core.TimePeriod {
	for year := now.Year(); ; year-- {
		start, end := seasonBounds(season, year, now.Location())
		if !end.After(startOfDay(now)) {
			return span(start, end)
		}
	}
}
