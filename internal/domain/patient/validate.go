package patient

import (
	"github.com/bicare/bicare360/pkg/validate"
)

// Validate runs every field rule for a patient and returns the full failure
// list, or nil when the record is acceptable. Date of birth is deliberately
// unbounded: past, present, and future values all pass.
func (p *Patient) Validate() error {
	var errs validate.Errors
	errs = errs.Append(validate.Required("first_name", p.FirstName))
	errs = errs.Append(validate.Required("last_name", p.LastName))
	if p.DateOfBirth.IsZero() {
		errs = errs.Append(&validate.FieldError{
			Field:   "date_of_birth",
			Reason:  validate.MissingField,
			Message: "date_of_birth is required",
		})
	}
	errs = errs.Append(validate.OneOf("gender", p.Gender, Genders...))
	errs = errs.Append(validate.NationalID("national_id", p.NationalID))
	errs = errs.Append(validate.Phone("phone_number", p.PhoneNumber))
	if p.AltPhoneNumber != nil {
		errs = errs.Append(validate.OptionalPhone("alt_phone_number", *p.AltPhoneNumber))
	}
	if p.BloodType != nil && *p.BloodType != "" {
		errs = errs.Append(validate.OneOf("blood_type", *p.BloodType, BloodTypes...))
	}
	if p.LanguagePreference != "" {
		errs = errs.Append(validate.OneOf("language_preference", p.LanguagePreference, Languages...))
	}
	return errs.OrNil()
}

// Validate checks the administrative hierarchy fields and the GPS pairing
// rule: a lone latitude or longitude is rejected.
func (a *Address) Validate() error {
	var errs validate.Errors
	errs = errs.Append(validate.Required("province", a.Province))
	errs = errs.Append(validate.Required("district", a.District))
	errs = errs.Append(validate.Required("sector", a.Sector))
	errs = errs.Append(validate.Required("cell", a.Cell))
	errs = errs.Append(validate.Required("village", a.Village))
	errs = errs.Append(validate.Coordinates(a.Latitude, a.Longitude))
	return errs.OrNil()
}

// Validate checks an emergency contact. Multiple contacts may be flagged
// primary for the same patient; no rule forbids it.
func (ec *EmergencyContact) Validate() error {
	var errs validate.Errors
	errs = errs.Append(validate.Required("full_name", ec.FullName))
	errs = errs.Append(validate.OneOf("relationship", ec.Relationship, Relationships...))
	errs = errs.Append(validate.Phone("phone_number", ec.PhoneNumber))
	if ec.AltPhoneNumber != nil {
		errs = errs.Append(validate.OptionalPhone("alt_phone_number", *ec.AltPhoneNumber))
	}
	return errs.OrNil()
}
