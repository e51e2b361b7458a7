package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error)
	ListActive(ctx context.Context) ([]*Hospital, error)
	ListActiveByProvince(ctx context.Context, province string) ([]*Hospital, error)
}

type DischargeSummaryRepository interface {
	Create(ctx context.Context, ds *DischargeSummary) error
	GetByID(ctx context.Context, id uuid.UUID) (*DischargeSummary, error)
	Update(ctx context.Context, ds *DischargeSummary) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DischargeSummary, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*DischargeSummary, int, error)
	HighRisk(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error)
	Recent(ctx context.Context, since time.Time, limit, offset int) ([]*DischargeSummary, int, error)
	NeedsFollowUp(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error)
	PatientName(ctx context.Context, patientID uuid.UUID) (string, error)
}
