package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service validates hospitals and discharge summaries and keeps the derived
// length-of-stay column in step with the admission and discharge dates. The
// clock is injected so days-since-discharge derivation stays deterministic
// under test.
type Service struct {
	hospitals HospitalRepository
	summaries DischargeSummaryRepository
	now       func() time.Time
}

func NewService(hospitals HospitalRepository, summaries DischargeSummaryRepository) *Service {
	return &Service{hospitals: hospitals, summaries: summaries, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// -- Hospital --

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	applyHospitalDefaults(h)
	if err := h.Validate(); err != nil {
		return err
	}
	return s.hospitals.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.GetByID(ctx, id)
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	applyHospitalDefaults(h)
	if err := h.Validate(); err != nil {
		return err
	}
	return s.hospitals.Update(ctx, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.hospitals.Delete(ctx, id)
}

func (s *Service) SearchHospitals(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.Search(ctx, params, limit, offset)
}

// ActiveHospitals lists every facility currently accepting referrals.
func (s *Service) ActiveHospitals(ctx context.Context) ([]*Hospital, error) {
	return s.hospitals.ListActive(ctx)
}

// ActiveHospitalsByProvince lists active facilities in one province, used by
// enrollment officers to pick a discharge facility near the patient.
func (s *Service) ActiveHospitalsByProvince(ctx context.Context, province string) ([]*Hospital, error) {
	return s.hospitals.ListActiveByProvince(ctx, province)
}

func applyHospitalDefaults(h *Hospital) {
	if h.HospitalType == "" {
		h.HospitalType = TypeDistrict
	}
	if h.EMRIntegrationType == "" {
		h.EMRIntegrationType = "manual"
	}
	if h.Status == "" {
		h.Status = StatusActive
	}
}

// -- Discharge Summary --

func (s *Service) CreateDischargeSummary(ctx context.Context, ds *DischargeSummary, createdBy *uuid.UUID) error {
	applySummaryDefaults(ds)
	if err := ds.Validate(); err != nil {
		return err
	}
	ds.LengthOfStayDays = LengthOfStay(ds.AdmissionDate, ds.DischargeDate)
	ds.CreatedBy = createdBy
	if err := s.summaries.Create(ctx, ds); err != nil {
		return err
	}
	ds.Derive(s.now())
	return nil
}

func (s *Service) GetDischargeSummary(ctx context.Context, id uuid.UUID) (*DischargeSummary, error) {
	ds, err := s.summaries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ds.Derive(s.now())
	return ds, nil
}

func (s *Service) UpdateDischargeSummary(ctx context.Context, ds *DischargeSummary) (*DischargeSummary, error) {
	applySummaryDefaults(ds)
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	ds.LengthOfStayDays = LengthOfStay(ds.AdmissionDate, ds.DischargeDate)
	if err := s.summaries.Update(ctx, ds); err != nil {
		return nil, err
	}
	return s.GetDischargeSummary(ctx, ds.ID)
}

func (s *Service) DeleteDischargeSummary(ctx context.Context, id uuid.UUID) error {
	return s.summaries.Delete(ctx, id)
}

func (s *Service) SearchDischargeSummaries(ctx context.Context, params map[string]string, limit, offset int) ([]*DischargeSummary, int, error) {
	return s.derived(s.summaries.Search(ctx, params, limit, offset))
}

func (s *Service) ListDischargeSummariesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DischargeSummary, int, error) {
	return s.derived(s.summaries.ListByPatient(ctx, patientID, limit, offset))
}

// HighRiskDischarges returns summaries flagged high or critical, newest
// discharge first.
func (s *Service) HighRiskDischarges(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error) {
	return s.derived(s.summaries.HighRisk(ctx, limit, offset))
}

// RecentDischarges returns summaries discharged within the last N days.
// Zero or negative days falls back to the one-week default. The cutoff is
// truncated to midnight so a record discharged exactly N days ago is still
// inside the window; discharge_date is a date column and a timestamp cutoff
// would silently exclude the boundary day.
func (s *Service) RecentDischarges(ctx context.Context, days, limit, offset int) ([]*DischargeSummary, int, error) {
	if days <= 0 {
		days = 7
	}
	y, m, d := s.now().Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
	return s.derived(s.summaries.Recent(ctx, since, limit, offset))
}

// DischargesNeedingFollowUp returns summaries with follow-up still required.
func (s *Service) DischargesNeedingFollowUp(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error) {
	return s.derived(s.summaries.NeedsFollowUp(ctx, limit, offset))
}

// RiskAnalysis builds the follow-up planning view for one discharge record.
func (s *Service) RiskAnalysis(ctx context.Context, id uuid.UUID) (*RiskAnalysis, error) {
	ds, err := s.GetDischargeSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.summaries.PatientName(ctx, ds.PatientID)
	if err != nil {
		return nil, err
	}
	return &RiskAnalysis{
		DischargeSummaryID:      ds.ID,
		PatientName:             name,
		RiskLevel:               ds.RiskLevel,
		IsHighRisk:              ds.IsHighRisk,
		RiskFactors:             ds.RiskFactors,
		WarningSigns:            ds.WarningSigns,
		WarningSignsKinyarwanda: ds.WarningSignsKinyarwanda,
		DaysSinceDischarge:      ds.DaysSinceDischarge,
		FollowUpRequired:        ds.FollowUpRequired,
		FollowUpTimeframe:       ds.FollowUpTimeframe,
		DischargeCondition:      ds.DischargeCondition,
		PrimaryDiagnosis:        ds.PrimaryDiagnosis,
	}, nil
}

func (s *Service) derived(items []*DischargeSummary, total int, err error) ([]*DischargeSummary, int, error) {
	if err != nil {
		return nil, 0, err
	}
	today := s.now()
	for _, ds := range items {
		ds.Derive(today)
	}
	return items, total, nil
}

func applySummaryDefaults(ds *DischargeSummary) {
	if ds.DischargeCondition == "" {
		ds.DischargeCondition = "improved"
	}
	if ds.RiskLevel == "" {
		ds.RiskLevel = RiskMedium
	}
}
