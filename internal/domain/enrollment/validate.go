package enrollment

import (
	"github.com/bicare/bicare360/pkg/validate"
)

// Validate checks all hospital field rules and returns every failure at once.
func (h *Hospital) Validate() error {
	var errs validate.Errors

	errs = errs.Append(validate.Required("name", h.Name))
	errs = errs.Append(validate.Required("code", h.Code))
	errs = errs.Append(validate.Required("province", h.Province))
	errs = errs.Append(validate.Required("district", h.District))
	errs = errs.Append(validate.OneOf("hospital_type", h.HospitalType, HospitalTypes...))
	errs = errs.Append(validate.OneOf("emr_integration_type", h.EMRIntegrationType, EMRIntegrationTypes...))
	errs = errs.Append(validate.OneOf("status", h.Status, HospitalStatuses...))
	errs = errs.Append(validate.Phone("phone_number", h.PhoneNumber))

	return errs.OrNil()
}

// Validate checks all discharge summary field rules, including the
// admission/discharge ordering and the conditional follow-up timeframe.
func (ds *DischargeSummary) Validate() error {
	var errs validate.Errors

	if ds.AdmissionDate.IsZero() {
		errs = errs.Append(validate.Required("admission_date", ""))
	}
	if ds.DischargeDate.IsZero() {
		errs = errs.Append(validate.Required("discharge_date", ""))
	}
	if !ds.AdmissionDate.IsZero() && !ds.DischargeDate.IsZero() {
		errs = errs.Append(validate.DateOrder("discharge_date", ds.AdmissionDate, ds.DischargeDate))
	}

	errs = errs.Append(validate.Required("primary_diagnosis", ds.PrimaryDiagnosis))
	errs = errs.Append(validate.Required("treatment_summary", ds.TreatmentSummary))
	errs = errs.Append(validate.Required("discharge_instructions", ds.DischargeInstructions))
	errs = errs.Append(validate.Required("attending_physician", ds.AttendingPhysician))
	errs = errs.Append(validate.OneOf("discharge_condition", ds.DischargeCondition, DischargeConditions...))
	errs = errs.Append(validate.OneOf("risk_level", ds.RiskLevel, RiskLevels...))

	timeframe := ""
	if ds.FollowUpTimeframe != nil {
		timeframe = *ds.FollowUpTimeframe
	}
	errs = errs.Append(validate.RequiredWhen("follow_up_timeframe", ds.FollowUpRequired, timeframe))

	return errs.OrNil()
}
