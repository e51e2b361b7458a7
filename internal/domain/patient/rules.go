package patient

import "time"

// Age returns the whole-year age at the reference date. The result is reduced
// by one when the birthday has not yet occurred in the reference year, and may
// be zero or negative for today-or-future birth dates since no bound is
// enforced on date of birth.
func Age(dateOfBirth, today time.Time) int {
	age := today.Year() - dateOfBirth.Year()
	if today.Month() < dateOfBirth.Month() ||
		(today.Month() == dateOfBirth.Month() && today.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}

// Derive fills the read-only fields from the stored columns. Applied when a
// record is serialized for output; nothing here is persisted.
func (p *Patient) Derive(today time.Time) {
	p.FullName = p.FirstName + " " + p.LastName
	p.Age = Age(p.DateOfBirth, today)
}
