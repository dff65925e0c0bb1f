// Package models defines the core data structures for users, predictions
// and contact messages.
package models

// Role identifies what kind of account a user registered as.
type Role string

const (
	// RolePatient is the default role for new registrations.
	RolePatient Role = "Patient"
	// RoleDoctor marks clinical staff accounts.
	RoleDoctor Role = "Doctor"
	// RoleAdmin marks the seeded administrator account.
	RoleAdmin Role = "Admin"
)

// User represents a portal account.
type User struct {
	// Username is the login name chosen by the user.
	Username string
	// Email is the unique address the account was registered with.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Role is the registered role ("Patient", "Doctor", "Admin").
	Role Role
	// Hospital is the hospital named at registration ("N/A" when absent).
	Hospital string
	// Designation is the free-form job title for doctor accounts.
	Designation string
	// PatientID is the generated portal identifier (P#### or D####).
	PatientID string
	// Verified reports whether the email passed OTP verification.
	Verified bool
}

// Prediction holds one outcome prediction computed for a user.
type Prediction struct {
	// ID is the unique identifier for the prediction.
	ID string `json:"id"`
	// Email is the address of the user the prediction belongs to.
	Email string `json:"email"`
	// LOSDays is the predicted length of stay in days.
	LOSDays float64 `json:"predicted_LOS_days"`
	// MortalityPct is the in-hospital mortality score, 0-100.
	MortalityPct float64 `json:"in_hospital_mortality_%"`
	// RiskLevel is "Low", "Moderate" or "High".
	RiskLevel string `json:"mortality_risk_level"`
	// CreatedAt is the unix timestamp the prediction was made.
	CreatedAt int64 `json:"timestamp"`
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt int64
}

// Vitals is the input to the outcome predictor.
type Vitals struct {
	Age             int `json:"age"`
	HeartRate       int `json:"heart_rate"`
	SystolicBP      int `json:"systolic_bp"`
	RespiratoryRate int `json:"respiratory_rate"`
}
