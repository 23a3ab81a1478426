package domain

import "time"

// IST is the fixed UTC+5:30 offset used for all calendar-day bucketing.
var IST = time.FixedZone("IST", 5*3600+30*60)

const fallbackDailyLimit = 300

// DailyLimit returns the daily budget for a grade. Grades 1-10 map to
// 100-1000 in unit increments of 100; anything else falls back to 300.
func DailyLimit(grade int) float64 {
	if grade >= 1 && grade <= 10 {
		return float64(grade * 100)
	}
	return fallbackDailyLimit
}

// SameLocalDay reports whether two instants fall on the same IST calendar day.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(IST).Date()
	by, bm, bd := b.In(IST).Date()
	return ay == by && am == bm && ad == bd
}

// Remaining computes the allowance left for one category on asOf's calendar
// day: the grade's daily limit minus the sum of approved same-category
// expenses dated that day. excludeID skips a record even if approved, which
// the edit path uses so an expense is not counted against itself. The result
// may be negative. Pure function of its inputs.
func Remaining(grade int, category Category, asOf time.Time, excludeID string, expenses []Expense) float64 {
	limit := DailyLimit(grade)
	var spent float64
	for _, e := range expenses {
		if e.ID == excludeID && excludeID != "" {
			continue
		}
		if e.Category != category || e.Status != StatusApproved {
			continue
		}
		if !SameLocalDay(e.Date, asOf) {
			continue
		}
		spent += e.Amount
	}
	return limit - spent
}
