package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bicare/bicare360/pkg/validate"
)

// TxRunner executes fn atomically. The production runner wraps db.WithTx so
// every repository call inside fn shares one transaction; tests pass fn
// straight through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service validates and derives patient records before they reach the store.
// The clock is injected so age derivation stays deterministic under test.
type Service struct {
	patients PatientRepository
	address  AddressRepository
	contacts EmergencyContactRepository
	now      func() time.Time
	tx       TxRunner
}

func NewService(patients PatientRepository, address AddressRepository, contacts EmergencyContactRepository) *Service {
	return &Service{
		patients: patients,
		address:  address,
		contacts: contacts,
		now:      time.Now,
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetTxRunner overrides the transaction wrapper.
func (s *Service) SetTxRunner(tx TxRunner) {
	s.tx = tx
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient, enrolledBy *uuid.UUID) error {
	return s.EnrollPatient(ctx, p, nil, nil, enrolledBy)
}

// EnrollPatient creates a patient together with an optional address and
// emergency contacts in one transaction. All entities are validated up front
// and every failure is reported in a single pass; nothing is stored when any
// entity is invalid or any insert fails.
func (s *Service) EnrollPatient(ctx context.Context, p *Patient, addr *Address, contacts []*EmergencyContact, enrolledBy *uuid.UUID) error {
	if p.LanguagePreference == "" {
		p.LanguagePreference = LanguageKinyarwanda
	}
	var errs validate.Errors
	errs = mergeFieldErrors(errs, p.Validate())
	if addr != nil {
		errs = mergeFieldErrors(errs, addr.Validate())
	}
	for _, ec := range contacts {
		errs = mergeFieldErrors(errs, ec.Validate())
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	p.IsActive = true
	p.EnrolledBy = enrolledBy
	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
		if addr != nil {
			addr.PatientID = p.ID
			if err := s.address.Create(ctx, addr); err != nil {
				return err
			}
		}
		for _, ec := range contacts {
			ec.PatientID = p.ID
			if err := s.contacts.Create(ctx, ec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.Derive(s.now())
	return nil
}

func mergeFieldErrors(errs validate.Errors, err error) validate.Errors {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		return append(errs, verrs...)
	}
	return errs
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Derive(s.now())
	return p, nil
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) (*Patient, error) {
	if p.LanguagePreference == "" {
		p.LanguagePreference = LanguageKinyarwanda
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.GetPatient(ctx, p.ID)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	items, total, err := s.patients.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	today := s.now()
	for _, p := range items {
		p.Derive(today)
	}
	return items, total, nil
}

// ActivatePatient re-enables a deactivated profile.
func (s *Service) ActivatePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.SetActive(ctx, id, true)
}

// DeactivatePatient is the soft-delete path: the record stays, the active
// flag flips.
func (s *Service) DeactivatePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.SetActive(ctx, id, false)
}

func (s *Service) PatientStats(ctx context.Context) (*Stats, error) {
	return s.patients.Stats(ctx)
}

// -- Address --

func (s *Service) CreateAddress(ctx context.Context, a *Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.address.Create(ctx, a)
}

func (s *Service) GetAddress(ctx context.Context, id uuid.UUID) (*Address, error) {
	return s.address.GetByID(ctx, id)
}

func (s *Service) GetAddressByPatient(ctx context.Context, patientID uuid.UUID) (*Address, error) {
	return s.address.GetByPatient(ctx, patientID)
}

func (s *Service) UpdateAddress(ctx context.Context, a *Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.address.Update(ctx, a)
}

func (s *Service) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return s.address.Delete(ctx, id)
}

func (s *Service) SearchAddresses(ctx context.Context, params map[string]string, limit, offset int) ([]*Address, int, error) {
	return s.address.Search(ctx, params, limit, offset)
}

// -- Emergency Contact --

func (s *Service) CreateEmergencyContact(ctx context.Context, ec *EmergencyContact) error {
	if err := ec.Validate(); err != nil {
		return err
	}
	return s.contacts.Create(ctx, ec)
}

func (s *Service) GetEmergencyContact(ctx context.Context, id uuid.UUID) (*EmergencyContact, error) {
	return s.contacts.GetByID(ctx, id)
}

func (s *Service) UpdateEmergencyContact(ctx context.Context, ec *EmergencyContact) error {
	if err := ec.Validate(); err != nil {
		return err
	}
	return s.contacts.Update(ctx, ec)
}

func (s *Service) DeleteEmergencyContact(ctx context.Context, id uuid.UUID) error {
	return s.contacts.Delete(ctx, id)
}

func (s *Service) ListEmergencyContactsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*EmergencyContact, int, error) {
	return s.contacts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) SearchEmergencyContacts(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyContact, int, error) {
	return s.contacts.Search(ctx, params, limit, offset)
}
