package enrollment

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLengthOfStay(t *testing.T) {
	tests := []struct {
		name      string
		admission time.Time
		discharge time.Time
		want      int
	}{
		{"NineDayStay", date(2026, 1, 1), date(2026, 1, 10), 9},
		{"SameDay", date(2026, 3, 15), date(2026, 3, 15), 0},
		{"Overnight", date(2026, 3, 15), date(2026, 3, 16), 1},
		{"AcrossMonthEnd", date(2026, 1, 28), date(2026, 2, 3), 6},
		{"AcrossYearEnd", date(2025, 12, 30), date(2026, 1, 2), 3},
		{"DischargeBeforeAdmission", date(2026, 1, 10), date(2026, 1, 1), -9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LengthOfStay(tt.admission, tt.discharge); got != tt.want {
				t.Errorf("LengthOfStay(%v, %v) = %d, want %d", tt.admission, tt.discharge, got, tt.want)
			}
		})
	}
}

func TestLengthOfStayIgnoresTimeOfDay(t *testing.T) {
	admission := time.Date(2026, 1, 1, 23, 50, 0, 0, time.UTC)
	discharge := time.Date(2026, 1, 10, 0, 5, 0, 0, time.UTC)
	if got := LengthOfStay(admission, discharge); got != 9 {
		t.Errorf("LengthOfStay = %d, want 9", got)
	}
}

func TestDaysSinceDischarge(t *testing.T) {
	today := date(2026, 6, 1)
	if got := DaysSinceDischarge(date(2026, 5, 25), today); got != 7 {
		t.Errorf("DaysSinceDischarge = %d, want 7", got)
	}
	if got := DaysSinceDischarge(today, today); got != 0 {
		t.Errorf("DaysSinceDischarge same day = %d, want 0", got)
	}
}

func TestIsHighRisk(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{RiskLow, false},
		{RiskMedium, false},
		{RiskHigh, true},
		{RiskCritical, true},
	}
	for _, tt := range tests {
		if got := IsHighRisk(tt.level); got != tt.want {
			t.Errorf("IsHighRisk(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestDerive(t *testing.T) {
	ds := &DischargeSummary{
		DischargeDate: date(2026, 5, 22),
		RiskLevel:     RiskCritical,
	}
	today := date(2026, 6, 1)

	ds.Derive(today)
	if !ds.IsHighRisk {
		t.Error("expected critical summary to derive as high risk")
	}
	if ds.DaysSinceDischarge != 10 {
		t.Errorf("DaysSinceDischarge = %d, want 10", ds.DaysSinceDischarge)
	}

	// Re-deriving with the same reference date changes nothing.
	ds.Derive(today)
	if !ds.IsHighRisk || ds.DaysSinceDischarge != 10 {
		t.Errorf("second Derive changed results: highRisk=%v days=%d", ds.IsHighRisk, ds.DaysSinceDischarge)
	}
}
