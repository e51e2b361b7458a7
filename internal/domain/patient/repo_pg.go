package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bicare/bicare360/internal/platform/db"
	"github.com/bicare/bicare360/pkg/validate"
)

// uniqueViolation maps a pg unique-index error to the validation channel so a
// storage race surfaces exactly like a locally detected duplicate.
func uniqueViolation(err error, field string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return validate.Errors{validate.Conflict(field)}
	}
	return err
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, first_name, last_name, first_name_kinyarwanda, last_name_kinyarwanda,
	date_of_birth, gender, national_id, phone_number, alt_phone_number, email, blood_type,
	is_active, prefers_sms, prefers_whatsapp, language_preference,
	enrolled_by, enrolled_date, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.FirstNameKinyarwanda, &p.LastNameKinyarwanda,
		&p.DateOfBirth, &p.Gender, &p.NationalID, &p.PhoneNumber, &p.AltPhoneNumber, &p.Email, &p.BloodType,
		&p.IsActive, &p.PrefersSMS, &p.PrefersWhatsApp, &p.LanguagePreference,
		&p.EnrolledBy, &p.EnrolledDate, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, first_name, last_name, first_name_kinyarwanda, last_name_kinyarwanda,
			date_of_birth, gender, national_id, phone_number, alt_phone_number, email, blood_type,
			is_active, prefers_sms, prefers_whatsapp, language_preference, enrolled_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.FirstName, p.LastName, p.FirstNameKinyarwanda, p.LastNameKinyarwanda,
		p.DateOfBirth, p.Gender, p.NationalID, p.PhoneNumber, p.AltPhoneNumber, p.Email, p.BloodType,
		p.IsActive, p.PrefersSMS, p.PrefersWhatsApp, p.LanguagePreference, p.EnrolledBy)
	return uniqueViolation(err, "national_id")
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name=$3, first_name_kinyarwanda=$4, last_name_kinyarwanda=$5,
			date_of_birth=$6, gender=$7, national_id=$8, phone_number=$9, alt_phone_number=$10,
			email=$11, blood_type=$12, prefers_sms=$13, prefers_whatsapp=$14, language_preference=$15,
			updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.FirstNameKinyarwanda, p.LastNameKinyarwanda,
		p.DateOfBirth, p.Gender, p.NationalID, p.PhoneNumber, p.AltPhoneNumber,
		p.Email, p.BloodType, p.PrefersSMS, p.PrefersWhatsApp, p.LanguagePreference)
	return uniqueViolation(err, "national_id")
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE patient SET is_active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY enrolled_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *patientRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + patientCols + ` FROM patient WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM patient WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["is_active"]; ok {
		query += fmt.Sprintf(` AND is_active = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, p == "true")
		idx++
	}
	if p, ok := params["gender"]; ok {
		query += fmt.Sprintf(` AND gender = $%d`, idx)
		countQuery += fmt.Sprintf(` AND gender = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["language_preference"]; ok {
		query += fmt.Sprintf(` AND language_preference = $%d`, idx)
		countQuery += fmt.Sprintf(` AND language_preference = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["search"]; ok {
		clause := fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR national_id ILIKE $%d OR phone_number ILIKE $%d)`, idx, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY enrolled_date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *patientRepoPG) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{ByGender: make(map[string]int)}
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM patient`).Scan(&s.TotalPatients, &s.ActivePatients); err != nil {
		return nil, err
	}
	s.InactivePatients = s.TotalPatients - s.ActivePatients

	rows, err := r.conn(ctx).Query(ctx, `SELECT gender, COUNT(*) FROM patient GROUP BY gender`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var gender string
		var count int
		if err := rows.Scan(&gender, &count); err != nil {
			return nil, err
		}
		s.ByGender[gender] = count
	}
	for _, g := range Genders {
		if _, ok := s.ByGender[g]; !ok {
			s.ByGender[g] = 0
		}
	}
	return s, nil
}

// =========== Address Repository ===========

type addressRepoPG struct{ pool *pgxpool.Pool }

func NewAddressRepoPG(pool *pgxpool.Pool) AddressRepository { return &addressRepoPG{pool: pool} }

func (r *addressRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const addressCols = `id, patient_id, province, district, sector, cell, village,
	latitude, longitude, street_address, landmarks, created_at, updated_at`

func (r *addressRepoPG) scanAddress(row pgx.Row) (*Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.PatientID, &a.Province, &a.District, &a.Sector, &a.Cell, &a.Village,
		&a.Latitude, &a.Longitude, &a.StreetAddress, &a.Landmarks, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *addressRepoPG) Create(ctx context.Context, a *Address) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO address (id, patient_id, province, district, sector, cell, village,
			latitude, longitude, street_address, landmarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		a.ID, a.PatientID, a.Province, a.District, a.Sector, a.Cell, a.Village,
		a.Latitude, a.Longitude, a.StreetAddress, a.Landmarks)
	return uniqueViolation(err, "patient_id")
}

func (r *addressRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	return r.scanAddress(r.conn(ctx).QueryRow(ctx, `SELECT `+addressCols+` FROM address WHERE id = $1`, id))
}

func (r *addressRepoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Address, error) {
	return r.scanAddress(r.conn(ctx).QueryRow(ctx, `SELECT `+addressCols+` FROM address WHERE patient_id = $1`, patientID))
}

func (r *addressRepoPG) Update(ctx context.Context, a *Address) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE address SET province=$2, district=$3, sector=$4, cell=$5, village=$6,
			latitude=$7, longitude=$8, street_address=$9, landmarks=$10, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Province, a.District, a.Sector, a.Cell, a.Village,
		a.Latitude, a.Longitude, a.StreetAddress, a.Landmarks)
	return err
}

func (r *addressRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM address WHERE id = $1`, id)
	return err
}

func (r *addressRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Address, int, error) {
	query := `SELECT ` + addressCols + ` FROM address WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM address WHERE 1=1`
	var args []interface{}
	idx := 1

	for _, field := range []string{"province", "district", "sector"} {
		if p, ok := params[field]; ok {
			query += fmt.Sprintf(` AND %s = $%d`, field, idx)
			countQuery += fmt.Sprintf(` AND %s = $%d`, field, idx)
			args = append(args, p)
			idx++
		}
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Address
	for rows.Next() {
		a, err := r.scanAddress(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

// =========== Emergency Contact Repository ===========

type contactRepoPG struct{ pool *pgxpool.Pool }

func NewEmergencyContactRepoPG(pool *pgxpool.Pool) EmergencyContactRepository {
	return &contactRepoPG{pool: pool}
}

func (r *contactRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const contactCols = `id, patient_id, full_name, relationship, phone_number, alt_phone_number,
	is_primary, created_at, updated_at`

func (r *contactRepoPG) scanContact(row pgx.Row) (*EmergencyContact, error) {
	var ec EmergencyContact
	err := row.Scan(&ec.ID, &ec.PatientID, &ec.FullName, &ec.Relationship, &ec.PhoneNumber, &ec.AltPhoneNumber,
		&ec.IsPrimary, &ec.CreatedAt, &ec.UpdatedAt)
	return &ec, err
}

func (r *contactRepoPG) Create(ctx context.Context, ec *EmergencyContact) error {
	ec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_contact (id, patient_id, full_name, relationship, phone_number, alt_phone_number, is_primary)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		ec.ID, ec.PatientID, ec.FullName, ec.Relationship, ec.PhoneNumber, ec.AltPhoneNumber, ec.IsPrimary)
	return err
}

func (r *contactRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*EmergencyContact, error) {
	return r.scanContact(r.conn(ctx).QueryRow(ctx, `SELECT `+contactCols+` FROM emergency_contact WHERE id = $1`, id))
}

func (r *contactRepoPG) Update(ctx context.Context, ec *EmergencyContact) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE emergency_contact SET full_name=$2, relationship=$3, phone_number=$4,
			alt_phone_number=$5, is_primary=$6, updated_at=NOW()
		WHERE id = $1`,
		ec.ID, ec.FullName, ec.Relationship, ec.PhoneNumber, ec.AltPhoneNumber, ec.IsPrimary)
	return err
}

func (r *contactRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM emergency_contact WHERE id = $1`, id)
	return err
}

func (r *contactRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*EmergencyContact, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM emergency_contact WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+contactCols+` FROM emergency_contact WHERE patient_id = $1 ORDER BY is_primary DESC, full_name LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EmergencyContact
	for rows.Next() {
		ec, err := r.scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ec)
	}
	return items, total, nil
}

func (r *contactRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyContact, int, error) {
	query := `SELECT ` + contactCols + ` FROM emergency_contact WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM emergency_contact WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["patient_id"]; ok {
		query += fmt.Sprintf(` AND patient_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND patient_id = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["relationship"]; ok {
		query += fmt.Sprintf(` AND relationship = $%d`, idx)
		countQuery += fmt.Sprintf(` AND relationship = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["is_primary"]; ok {
		query += fmt.Sprintf(` AND is_primary = $%d`, idx)
		countQuery += fmt.Sprintf(` AND is_primary = $%d`, idx)
		args = append(args, p == "true")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY is_primary DESC, full_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*EmergencyContact
	for rows.Next() {
		ec, err := r.scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ec)
	}
	return items, total, nil
}
