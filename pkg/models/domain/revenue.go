package domain

// RevenueDay is a single spreadsheet row that passed the date check.
// Total always equals the sum of Breakdown values; both come from the same
// row scan, so the invariant holds by construction.
type RevenueDay struct {
	Date      string // YYYY-MM-DD, as written in the sheet
	Total     int64
	Breakdown map[string]int64
	HasData   bool // false for a valid-date row whose total is zero
}

// RevenueReport is the revenue collector's result for one run.
type RevenueReport struct {
	Days []RevenueDay // most recent first, capped by the lookback window

	// Derived statistics over HasData days only.
	DayOverDayPct     *float64 // nil when fewer than two data days exist
	TrailingAvg       int64    // mean of up to the last 7 data days
	MonthToDate       int64
	MonthlyTarget     int64
	AttainmentPct     float64 // MonthToDate / MonthlyTarget, 0 if no target
	ProjectedMonthEnd int64   // MonthToDate + TrailingAvg * remaining days
}

// DataDays counts the days that carried a non-zero total.
func (r *RevenueReport) DataDays() int {
	n := 0
	for _, d := range r.Days {
		if d.HasData {
			n++
		}
	}
	return n
}
