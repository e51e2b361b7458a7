package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bicare/bicare360/internal/platform/db"
	"github.com/bicare/bicare360/pkg/validate"
)

// ErrHospitalInUse is returned when deleting a hospital that still has
// discharge summaries pointing at it. The foreign key is declared RESTRICT;
// summaries are the clinical record and must outlive facility cleanup.
var ErrHospitalInUse = errors.New("hospital has discharge summaries and cannot be deleted")

// uniqueViolation maps a pg unique-index error to the validation channel so a
// storage race surfaces exactly like a locally detected duplicate.
func uniqueViolation(err error, field string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return validate.Errors{validate.Conflict(field)}
	}
	return err
}

// =========== Hospital Repository ===========

type hospitalRepoPG struct{ pool *pgxpool.Pool }

func NewHospitalRepoPG(pool *pgxpool.Pool) HospitalRepository { return &hospitalRepoPG{pool: pool} }

func (r *hospitalRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const hospitalCols = `id, name, code, hospital_type, province, district, sector,
	phone_number, email, emr_integration_type, emr_system_name, status, created_at, updated_at`

func (r *hospitalRepoPG) scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Code, &h.HospitalType, &h.Province, &h.District, &h.Sector,
		&h.PhoneNumber, &h.Email, &h.EMRIntegrationType, &h.EMRSystemName, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	return &h, err
}

func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital (id, name, code, hospital_type, province, district, sector,
			phone_number, email, emr_integration_type, emr_system_name, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		h.ID, h.Name, h.Code, h.HospitalType, h.Province, h.District, h.Sector,
		h.PhoneNumber, h.Email, h.EMRIntegrationType, h.EMRSystemName, h.Status)
	return uniqueViolation(err, "code")
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return r.scanHospital(r.conn(ctx).QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE id = $1`, id))
}

func (r *hospitalRepoPG) Update(ctx context.Context, h *Hospital) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE hospital SET name=$2, code=$3, hospital_type=$4, province=$5, district=$6, sector=$7,
			phone_number=$8, email=$9, emr_integration_type=$10, emr_system_name=$11, status=$12,
			updated_at=NOW()
		WHERE id = $1`,
		h.ID, h.Name, h.Code, h.HospitalType, h.Province, h.District, h.Sector,
		h.PhoneNumber, h.Email, h.EMRIntegrationType, h.EMRSystemName, h.Status)
	return uniqueViolation(err, "code")
}

func (r *hospitalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM hospital WHERE id = $1`, id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrHospitalInUse
	}
	return err
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM hospital`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+hospitalCols+` FROM hospital ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, nil
}

func (r *hospitalRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	query := `SELECT ` + hospitalCols + ` FROM hospital WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM hospital WHERE 1=1`
	var args []interface{}
	idx := 1

	for _, field := range []string{"hospital_type", "province", "district", "status", "emr_integration_type"} {
		if p, ok := params[field]; ok {
			query += fmt.Sprintf(` AND %s = $%d`, field, idx)
			countQuery += fmt.Sprintf(` AND %s = $%d`, field, idx)
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["search"]; ok {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, nil
}

func (r *hospitalRepoPG) ListActive(ctx context.Context) ([]*Hospital, error) {
	return r.listWhere(ctx, `WHERE status = $1`, StatusActive)
}

func (r *hospitalRepoPG) ListActiveByProvince(ctx context.Context, province string) ([]*Hospital, error) {
	return r.listWhere(ctx, `WHERE status = $1 AND province = $2`, StatusActive, province)
}

func (r *hospitalRepoPG) listWhere(ctx context.Context, where string, args ...interface{}) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+hospitalCols+` FROM hospital `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := r.scanHospital(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, nil
}

// =========== Discharge Summary Repository ===========

type summaryRepoPG struct{ pool *pgxpool.Pool }

func NewDischargeSummaryRepoPG(pool *pgxpool.Pool) DischargeSummaryRepository {
	return &summaryRepoPG{pool: pool}
}

func (r *summaryRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const summaryCols = `id, patient_id, hospital_id, admission_date, discharge_date, length_of_stay_days,
	primary_diagnosis, secondary_diagnoses, icd10_primary, icd10_secondary,
	procedures_performed, treatment_summary,
	discharge_condition, discharge_instructions, discharge_instructions_kinyarwanda,
	diet_instructions, activity_restrictions,
	follow_up_required, follow_up_timeframe, follow_up_with,
	risk_level, risk_factors, warning_signs, warning_signs_kinyarwanda,
	attending_physician, discharge_nurse, additional_notes,
	created_by, created_at, updated_at`

func (r *summaryRepoPG) scanSummary(row pgx.Row) (*DischargeSummary, error) {
	var ds DischargeSummary
	err := row.Scan(&ds.ID, &ds.PatientID, &ds.HospitalID, &ds.AdmissionDate, &ds.DischargeDate, &ds.LengthOfStayDays,
		&ds.PrimaryDiagnosis, &ds.SecondaryDiagnoses, &ds.ICD10Primary, &ds.ICD10Secondary,
		&ds.ProceduresPerformed, &ds.TreatmentSummary,
		&ds.DischargeCondition, &ds.DischargeInstructions, &ds.DischargeInstructionsKinyarwanda,
		&ds.DietInstructions, &ds.ActivityRestrictions,
		&ds.FollowUpRequired, &ds.FollowUpTimeframe, &ds.FollowUpWith,
		&ds.RiskLevel, &ds.RiskFactors, &ds.WarningSigns, &ds.WarningSignsKinyarwanda,
		&ds.AttendingPhysician, &ds.DischargeNurse, &ds.AdditionalNotes,
		&ds.CreatedBy, &ds.CreatedAt, &ds.UpdatedAt)
	return &ds, err
}

func (r *summaryRepoPG) Create(ctx context.Context, ds *DischargeSummary) error {
	ds.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO discharge_summary (id, patient_id, hospital_id, admission_date, discharge_date,
			length_of_stay_days, primary_diagnosis, secondary_diagnoses, icd10_primary, icd10_secondary,
			procedures_performed, treatment_summary, discharge_condition, discharge_instructions,
			discharge_instructions_kinyarwanda, diet_instructions, activity_restrictions,
			follow_up_required, follow_up_timeframe, follow_up_with,
			risk_level, risk_factors, warning_signs, warning_signs_kinyarwanda,
			attending_physician, discharge_nurse, additional_notes, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)`,
		ds.ID, ds.PatientID, ds.HospitalID, ds.AdmissionDate, ds.DischargeDate,
		ds.LengthOfStayDays, ds.PrimaryDiagnosis, ds.SecondaryDiagnoses, ds.ICD10Primary, ds.ICD10Secondary,
		ds.ProceduresPerformed, ds.TreatmentSummary, ds.DischargeCondition, ds.DischargeInstructions,
		ds.DischargeInstructionsKinyarwanda, ds.DietInstructions, ds.ActivityRestrictions,
		ds.FollowUpRequired, ds.FollowUpTimeframe, ds.FollowUpWith,
		ds.RiskLevel, ds.RiskFactors, ds.WarningSigns, ds.WarningSignsKinyarwanda,
		ds.AttendingPhysician, ds.DischargeNurse, ds.AdditionalNotes, ds.CreatedBy)
	return err
}

func (r *summaryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DischargeSummary, error) {
	return r.scanSummary(r.conn(ctx).QueryRow(ctx, `SELECT `+summaryCols+` FROM discharge_summary WHERE id = $1`, id))
}

func (r *summaryRepoPG) Update(ctx context.Context, ds *DischargeSummary) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE discharge_summary SET patient_id=$2, hospital_id=$3, admission_date=$4, discharge_date=$5,
			length_of_stay_days=$6, primary_diagnosis=$7, secondary_diagnoses=$8, icd10_primary=$9,
			icd10_secondary=$10, procedures_performed=$11, treatment_summary=$12, discharge_condition=$13,
			discharge_instructions=$14, discharge_instructions_kinyarwanda=$15, diet_instructions=$16,
			activity_restrictions=$17, follow_up_required=$18, follow_up_timeframe=$19, follow_up_with=$20,
			risk_level=$21, risk_factors=$22, warning_signs=$23, warning_signs_kinyarwanda=$24,
			attending_physician=$25, discharge_nurse=$26, additional_notes=$27, updated_at=NOW()
		WHERE id = $1`,
		ds.ID, ds.PatientID, ds.HospitalID, ds.AdmissionDate, ds.DischargeDate,
		ds.LengthOfStayDays, ds.PrimaryDiagnosis, ds.SecondaryDiagnoses, ds.ICD10Primary,
		ds.ICD10Secondary, ds.ProceduresPerformed, ds.TreatmentSummary, ds.DischargeCondition,
		ds.DischargeInstructions, ds.DischargeInstructionsKinyarwanda, ds.DietInstructions,
		ds.ActivityRestrictions, ds.FollowUpRequired, ds.FollowUpTimeframe, ds.FollowUpWith,
		ds.RiskLevel, ds.RiskFactors, ds.WarningSigns, ds.WarningSignsKinyarwanda,
		ds.AttendingPhysician, ds.DischargeNurse, ds.AdditionalNotes)
	return err
}

func (r *summaryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM discharge_summary WHERE id = $1`, id)
	return err
}

const summaryOrder = ` ORDER BY discharge_date DESC, created_at DESC`

func (r *summaryRepoPG) List(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *summaryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*DischargeSummary, int, error) {
	return r.listWhere(ctx, `WHERE patient_id = $1`, []interface{}{patientID}, limit, offset)
}

func (r *summaryRepoPG) HighRisk(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error) {
	return r.listWhere(ctx, `WHERE risk_level IN ('high', 'critical')`, nil, limit, offset)
}

func (r *summaryRepoPG) Recent(ctx context.Context, since time.Time, limit, offset int) ([]*DischargeSummary, int, error) {
	return r.listWhere(ctx, `WHERE discharge_date >= $1`, []interface{}{since}, limit, offset)
}

func (r *summaryRepoPG) NeedsFollowUp(ctx context.Context, limit, offset int) ([]*DischargeSummary, int, error) {
	return r.listWhere(ctx, `WHERE follow_up_required = TRUE`, nil, limit, offset)
}

func (r *summaryRepoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*DischargeSummary, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM discharge_summary `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT `+summaryCols+` FROM discharge_summary `+where+summaryOrder+` LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DischargeSummary
	for rows.Next() {
		ds, err := r.scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ds)
	}
	return items, total, nil
}

func (r *summaryRepoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*DischargeSummary, int, error) {
	query := `SELECT ` + summaryCols + ` FROM discharge_summary WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM discharge_summary WHERE 1=1`
	var args []interface{}
	idx := 1

	for _, field := range []string{"patient_id", "hospital_id", "discharge_condition", "risk_level"} {
		if p, ok := params[field]; ok {
			query += fmt.Sprintf(` AND %s = $%d`, field, idx)
			countQuery += fmt.Sprintf(` AND %s = $%d`, field, idx)
			args = append(args, p)
			idx++
		}
	}
	if p, ok := params["follow_up_required"]; ok {
		query += fmt.Sprintf(` AND follow_up_required = $%d`, idx)
		countQuery += fmt.Sprintf(` AND follow_up_required = $%d`, idx)
		args = append(args, p == "true")
		idx++
	}
	if p, ok := params["search"]; ok {
		clause := fmt.Sprintf(` AND (primary_diagnosis ILIKE $%d OR attending_physician ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(summaryOrder+` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DischargeSummary
	for rows.Next() {
		ds, err := r.scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ds)
	}
	return items, total, nil
}

func (r *summaryRepoPG) PatientName(ctx context.Context, patientID uuid.UUID) (string, error) {
	var name string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT first_name || ' ' || last_name FROM patient WHERE id = $1`, patientID).Scan(&name)
	return name, err
}
