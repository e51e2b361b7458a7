package patient

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Stats(ctx context.Context) (*Stats, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Address, int, error)
}

type EmergencyContactRepository interface {
	Create(ctx context.Context, ec *EmergencyContact) error
	GetByID(ctx context.Context, id uuid.UUID) (*EmergencyContact, error)
	Update(ctx context.Context, ec *EmergencyContact) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*EmergencyContact, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyContact, int, error)
}
