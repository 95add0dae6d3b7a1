package engagement

import "time"

// InteractionType describes one kind of resource interaction.
type InteractionType struct {
	Name    string `json:"name"`
	Legend  string `json:"legend,omitempty"`
	IconURL string `json:"iconUrl,omitempty"`
	Color   string `json:"color"`
}

// DailyActivity holds the sessions of one day.
type DailyActivity struct {
	Date     time.Time `json:"date"`
	Sessions []Session `json:"sessions"`
}

// InteractionStudent is one student's daily activity.
type InteractionStudent struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatarUrl,omitempty"`
	Daily     []DailyActivity `json:"dailyData"`
}

// Interactions is the access-and-interaction dataset over a date range.
type Interactions struct {
	StartDate time.Time                  `json:"startDate"`
	EndDate   time.Time                  `json:"endDate"`
	Types     map[string]InteractionType `json:"interactionTypes"`
	Students  []InteractionStudent       `json:"students"`
}

// Days returns every calendar day from StartDate through EndDate, inclusive,
// at midnight UTC.
func (d Interactions) Days() []time.Time {
	start := truncateDay(d.StartDate)
	end := truncateDay(d.EndDate)
	var days []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// DayTotal is the number of minutes a student spent on one day.
type DayTotal struct {
	Date     time.Time
	Sessions []Session
	Minutes  float64
}

// DailyTotals aligns a student's activity to d.Days. Days without activity
// are present with no sessions. Activity outside the range is dropped.
func (d Interactions) DailyTotals(st InteractionStudent) []DayTotal {
	byDay := make(map[time.Time][]Session, len(st.Daily))
	for _, a := range st.Daily {
		day := truncateDay(a.Date)
		byDay[day] = append(byDay[day], a.Sessions...)
	}

	days := d.Days()
	totals := make([]DayTotal, len(days))
	for i, day := range days {
		sessions := byDay[day]
		var m float64
		for _, s := range sessions {
			m += s.Minutes()
		}
		totals[i] = DayTotal{Date: day, Sessions: sessions, Minutes: m}
	}
	return totals
}

// GrandTotal sums the minutes of all days in range.
func (d Interactions) GrandTotal(st InteractionStudent) float64 {
	var total float64
	for _, t := range d.DailyTotals(st) {
		total += t.Minutes
	}
	return total
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
