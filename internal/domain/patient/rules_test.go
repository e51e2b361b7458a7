package patient

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		today time.Time
		want  int
	}{
		{"birthday already passed", date(1990, time.March, 10), date(2026, time.June, 1), 36},
		{"birthday not yet reached", date(1990, time.September, 10), date(2026, time.June, 1), 35},
		{"birthday today", date(1990, time.June, 1), date(2026, time.June, 1), 36},
		{"born today", date(2026, time.June, 1), date(2026, time.June, 1), 0},
		{"future birth date goes negative", date(2027, time.January, 1), date(2026, time.June, 1), -1},
		{"120 years, birthday passed", date(1906, time.January, 2), date(2026, time.June, 1), 120},
		{"120 years, birthday pending", date(1906, time.December, 2), date(2026, time.June, 1), 119},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.birth, tt.today); got != tt.want {
				t.Errorf("Age(%v, %v) = %d, want %d", tt.birth, tt.today, got, tt.want)
			}
		})
	}
}

func TestPatient_Derive(t *testing.T) {
	p := &Patient{
		FirstName:   "Alice",
		LastName:    "Uwimana",
		DateOfBirth: date(2000, time.January, 15),
	}
	p.Derive(date(2026, time.June, 1))

	if p.FullName != "Alice Uwimana" {
		t.Errorf("expected full name Alice Uwimana, got %q", p.FullName)
	}
	if p.Age != 26 {
		t.Errorf("expected age 26, got %d", p.Age)
	}

	// Re-deriving with the same reference date yields the same values.
	p.Derive(date(2026, time.June, 1))
	if p.Age != 26 {
		t.Errorf("expected derivation to be idempotent, got age %d", p.Age)
	}
}
