package patient

import (
	"time"

	"github.com/google/uuid"
)

// Gender values stored on the patient record.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Preferred-language codes.
const (
	LanguageKinyarwanda = "kin"
	LanguageEnglish     = "eng"
	LanguageFrench      = "fra"
)

var (
	Genders    = []string{GenderMale, GenderFemale, GenderOther}
	Languages  = []string{LanguageKinyarwanda, LanguageEnglish, LanguageFrench}
	BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

	Relationships = []string{"parent", "spouse", "child", "sibling", "friend", "other"}
)

// Patient maps to the patient table. FullName and Age are derived at read
// time and never stored.
type Patient struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	FirstName            string     `db:"first_name" json:"first_name"`
	LastName             string     `db:"last_name" json:"last_name"`
	FirstNameKinyarwanda *string    `db:"first_name_kinyarwanda" json:"first_name_kinyarwanda,omitempty"`
	LastNameKinyarwanda  *string    `db:"last_name_kinyarwanda" json:"last_name_kinyarwanda,omitempty"`
	DateOfBirth          time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender               string     `db:"gender" json:"gender"`
	NationalID           string     `db:"national_id" json:"national_id"`
	PhoneNumber          string     `db:"phone_number" json:"phone_number"`
	AltPhoneNumber       *string    `db:"alt_phone_number" json:"alt_phone_number,omitempty"`
	Email                *string    `db:"email" json:"email,omitempty"`
	BloodType            *string    `db:"blood_type" json:"blood_type,omitempty"`
	IsActive             bool       `db:"is_active" json:"is_active"`
	PrefersSMS           bool       `db:"prefers_sms" json:"prefers_sms"`
	PrefersWhatsApp      bool       `db:"prefers_whatsapp" json:"prefers_whatsapp"`
	LanguagePreference   string     `db:"language_preference" json:"language_preference"`
	EnrolledBy           *uuid.UUID `db:"enrolled_by" json:"enrolled_by,omitempty"`
	EnrolledDate         time.Time  `db:"enrolled_date" json:"enrolled_date"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`

	FullName string `db:"-" json:"full_name"`
	Age      int    `db:"-" json:"age"`
}

// Address maps to the address table: one per patient, following Rwanda's
// administrative hierarchy down to the village.
type Address struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	Province      string    `db:"province" json:"province"`
	District      string    `db:"district" json:"district"`
	Sector        string    `db:"sector" json:"sector"`
	Cell          string    `db:"cell" json:"cell"`
	Village       string    `db:"village" json:"village"`
	Latitude      *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude     *float64  `db:"longitude" json:"longitude,omitempty"`
	StreetAddress *string   `db:"street_address" json:"street_address,omitempty"`
	Landmarks     *string   `db:"landmarks" json:"landmarks,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// EmergencyContact maps to the emergency_contact table.
type EmergencyContact struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	FullName       string    `db:"full_name" json:"full_name"`
	Relationship   string    `db:"relationship" json:"relationship"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	AltPhoneNumber *string   `db:"alt_phone_number" json:"alt_phone_number,omitempty"`
	IsPrimary      bool      `db:"is_primary" json:"is_primary"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Stats is the aggregate returned by the patient stats endpoint.
type Stats struct {
	TotalPatients    int            `json:"total_patients"`
	ActivePatients   int            `json:"active_patients"`
	InactivePatients int            `json:"inactive_patients"`
	ByGender         map[string]int `json:"by_gender"`
}
