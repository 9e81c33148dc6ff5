package schedule

import "time"

// ServiceCalendar describes the weekdays a service runs on and the inclusive
// date range in which it is valid. It is copied by value out of the feed for
// every record that references it.
type ServiceCalendar struct {
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
	StartDate time.Time
	EndDate   time.Time
}

// DateOf strips the clock and location from t, keeping only its calendar date.
// Calendar comparisons are always done on values returned by DateOf so that
// feed dates parsed in an agency timezone compare equal to naive local dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ActiveOn reports whether date lies within [StartDate, EndDate].
func (c ServiceCalendar) ActiveOn(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(c.StartDate)) && !d.After(DateOf(c.EndDate))
}

// RunsOn reports whether the weekday flag for weekday is set.
func (c ServiceCalendar) RunsOn(weekday time.Weekday) bool {
	switch weekday {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	default:
		return false
	}
}

// Covers combines ActiveOn and RunsOn.
func (c ServiceCalendar) Covers(date time.Time, weekday time.Weekday) bool {
	return c.ActiveOn(date) && c.RunsOn(weekday)
}

// Weekdays returns the seven weekday flags ordered Monday through Sunday.
func (c ServiceCalendar) Weekdays() [7]bool {
	return [7]bool{c.Monday, c.Tuesday, c.Wednesday, c.Thursday, c.Friday, c.Saturday, c.Sunday}
}

// CalendarFromWeekdays is the inverse of Weekdays.
func CalendarFromWeekdays(days [7]bool, start, end time.Time) ServiceCalendar {
	return ServiceCalendar{
		Monday:    days[0],
		Tuesday:   days[1],
		Wednesday: days[2],
		Thursday:  days[3],
		Friday:    days[4],
		Saturday:  days[5],
		Sunday:    days[6],
		StartDate: DateOf(start),
		EndDate:   DateOf(end),
	}
}
