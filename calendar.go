package main

import "time"

// Swedish weekday names, indexed by time.Weekday (Sunday = 0). The
// original cron job ran under sv_SE and the email is written in
// Swedish, so the day label sent to the agent is Swedish too.
var swedishWeekdays = [7]string{
	"Söndag",
	"Måndag",
	"Tisdag",
	"Onsdag",
	"Torsdag",
	"Fredag",
	"Lördag",
}

// resolveCalendar decides which weekday's menu the run should produce.
//
// On a holiday (and no override) the run is skipped. On weekends, or
// whenever allDays forces a preview, the date is advanced to the next
// Monday and both the day label and the ISO week are taken from the
// advanced date, so the label can never disagree with the week number.
func resolveCalendar(now time.Time, allDays bool, holidays map[string]bool) RunContext {
	if holidays[now.Format("2006-01-02")] && !allDays {
		return RunContext{Skip: true}
	}

	wd := now.Weekday()
	if wd == time.Saturday || wd == time.Sunday || allDays {
		days := (8 - int(wd)) % 7
		if days == 0 {
			days = 7
		}
		monday := now.AddDate(0, 0, days)
		_, week := monday.ISOWeek()
		return RunContext{
			EffectiveDay:  swedishWeekdays[monday.Weekday()],
			EffectiveWeek: week,
		}
	}

	_, week := now.ISOWeek()
	return RunContext{
		EffectiveDay:  swedishWeekdays[wd],
		EffectiveWeek: week,
	}
}
