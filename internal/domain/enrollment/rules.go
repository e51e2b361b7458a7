package enrollment

import "time"

// LengthOfStay returns the number of whole days between admission and
// discharge. A same-day stay counts as zero. The result can be negative when
// the discharge date precedes admission; validation rejects that ordering
// before anything is persisted.
func LengthOfStay(admission, discharge time.Time) int {
	return daysBetween(admission, discharge)
}

// DaysSinceDischarge returns the number of whole days from the discharge date
// to today.
func DaysSinceDischarge(discharge, today time.Time) int {
	return daysBetween(discharge, today)
}

// IsHighRisk reports whether a risk level requires priority follow-up.
func IsHighRisk(riskLevel string) bool {
	return riskLevel == RiskHigh || riskLevel == RiskCritical
}

// Derive recomputes the read-time fields. Calling it again with the same
// reference date is a no-op.
func (ds *DischargeSummary) Derive(today time.Time) {
	ds.IsHighRisk = IsHighRisk(ds.RiskLevel)
	ds.DaysSinceDischarge = DaysSinceDischarge(ds.DischargeDate, today)
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
