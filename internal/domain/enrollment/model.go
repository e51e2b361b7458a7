package enrollment

import (
	"time"

	"github.com/google/uuid"
)

// Hospital facility types.
const (
	TypeReferral     = "referral"
	TypeDistrict     = "district"
	TypeHealthCenter = "health_center"
	TypeClinic       = "clinic"
)

// Hospital operating status.
const (
	StatusActive   = "active"
	StatusPilot    = "pilot"
	StatusInactive = "inactive"
)

// Risk levels on a discharge summary.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

var (
	HospitalTypes       = []string{TypeReferral, TypeDistrict, TypeHealthCenter, TypeClinic}
	HospitalStatuses    = []string{StatusActive, StatusPilot, StatusInactive}
	EMRIntegrationTypes = []string{"manual", "api", "hl7"}
	DischargeConditions = []string{"improved", "stable", "unchanged", "deteriorated"}
	RiskLevels          = []string{RiskLow, RiskMedium, RiskHigh, RiskCritical}
)

// Hospital maps to the hospital table. The short code (e.g. CHUK, KFH) is
// unique across facilities.
type Hospital struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Code               string    `db:"code" json:"code"`
	HospitalType       string    `db:"hospital_type" json:"hospital_type"`
	Province           string    `db:"province" json:"province"`
	District           string    `db:"district" json:"district"`
	Sector             *string   `db:"sector" json:"sector,omitempty"`
	PhoneNumber        string    `db:"phone_number" json:"phone_number"`
	Email              *string   `db:"email" json:"email,omitempty"`
	EMRIntegrationType string    `db:"emr_integration_type" json:"emr_integration_type"`
	EMRSystemName      *string   `db:"emr_system_name" json:"emr_system_name,omitempty"`
	Status             string    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// DischargeSummary maps to the discharge_summary table. LengthOfStayDays is
// derived from the admission/discharge dates and overwritten on every save;
// IsHighRisk and DaysSinceDischarge are derived at read time and never stored.
type DischargeSummary struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	HospitalID uuid.UUID `db:"hospital_id" json:"hospital_id"`

	AdmissionDate     time.Time `db:"admission_date" json:"admission_date"`
	DischargeDate     time.Time `db:"discharge_date" json:"discharge_date"`
	LengthOfStayDays  int       `db:"length_of_stay_days" json:"length_of_stay_days"`

	PrimaryDiagnosis   string  `db:"primary_diagnosis" json:"primary_diagnosis"`
	SecondaryDiagnoses *string `db:"secondary_diagnoses" json:"secondary_diagnoses,omitempty"`
	ICD10Primary       *string `db:"icd10_primary" json:"icd10_primary,omitempty"`
	ICD10Secondary     *string `db:"icd10_secondary" json:"icd10_secondary,omitempty"`

	ProceduresPerformed *string `db:"procedures_performed" json:"procedures_performed,omitempty"`
	TreatmentSummary    string  `db:"treatment_summary" json:"treatment_summary"`

	DischargeCondition                string  `db:"discharge_condition" json:"discharge_condition"`
	DischargeInstructions             string  `db:"discharge_instructions" json:"discharge_instructions"`
	DischargeInstructionsKinyarwanda  *string `db:"discharge_instructions_kinyarwanda" json:"discharge_instructions_kinyarwanda,omitempty"`
	DietInstructions                  *string `db:"diet_instructions" json:"diet_instructions,omitempty"`
	ActivityRestrictions              *string `db:"activity_restrictions" json:"activity_restrictions,omitempty"`

	FollowUpRequired  bool    `db:"follow_up_required" json:"follow_up_required"`
	FollowUpTimeframe *string `db:"follow_up_timeframe" json:"follow_up_timeframe,omitempty"`
	FollowUpWith      *string `db:"follow_up_with" json:"follow_up_with,omitempty"`

	RiskLevel               string  `db:"risk_level" json:"risk_level"`
	RiskFactors             *string `db:"risk_factors" json:"risk_factors,omitempty"`
	WarningSigns            *string `db:"warning_signs" json:"warning_signs,omitempty"`
	WarningSignsKinyarwanda *string `db:"warning_signs_kinyarwanda" json:"warning_signs_kinyarwanda,omitempty"`

	AttendingPhysician string  `db:"attending_physician" json:"attending_physician"`
	DischargeNurse     *string `db:"discharge_nurse" json:"discharge_nurse,omitempty"`
	AdditionalNotes    *string `db:"additional_notes" json:"additional_notes,omitempty"`

	CreatedBy *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`

	IsHighRisk         bool `db:"-" json:"is_high_risk"`
	DaysSinceDischarge int  `db:"-" json:"days_since_discharge"`
}

// RiskAnalysis is the per-record projection served by the risk-analysis
// endpoint, aimed at community health workers planning follow-up visits.
type RiskAnalysis struct {
	DischargeSummaryID      uuid.UUID `json:"discharge_summary_id"`
	PatientName             string    `json:"patient_name"`
	RiskLevel               string    `json:"risk_level"`
	IsHighRisk              bool      `json:"is_high_risk"`
	RiskFactors             *string   `json:"risk_factors,omitempty"`
	WarningSigns            *string   `json:"warning_signs,omitempty"`
	WarningSignsKinyarwanda *string   `json:"warning_signs_kinyarwanda,omitempty"`
	DaysSinceDischarge      int       `json:"days_since_discharge"`
	FollowUpRequired        bool      `json:"follow_up_required"`
	FollowUpTimeframe       *string   `json:"follow_up_timeframe,omitempty"`
	DischargeCondition      string    `json:"discharge_condition"`
	PrimaryDiagnosis        string    `json:"primary_diagnosis"`
}
