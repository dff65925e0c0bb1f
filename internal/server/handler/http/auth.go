package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/teameicu/careportal/internal/models"
	"github.com/teameicu/careportal/internal/service"
)

// AuthService defines the account operations required by the HTTP
// handlers.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (string, *models.User, error)
	MarkVerified(ctx context.Context, email string) (bool, error)
}

// OTPService issues and verifies email verification codes.
type OTPService interface {
	Send(email string) error
	Verify(email, code string) error
}

// AuthHandler handles registration, login and OTP verification requests.
type AuthHandler struct {
	AuthService AuthService
	OTPService  OTPService

	validate *validator.Validate
}

// NewAuthHandler constructs an AuthHandler with request validation wired.
func NewAuthHandler(auth AuthService, otp OTPService) *AuthHandler {
	return &AuthHandler{
		AuthService: auth,
		OTPService:  otp,
		validate:    validator.New(),
	}
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role" validate:"omitempty,oneof=Patient Doctor"`
	Hospital    string `json:"hospital"`
	Designation string `json:"designation"`
}

// Register handles POST /register. Accounts start unverified; login is
// blocked until the email passes OTP verification.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		Hospital:    req.Hospital,
		Designation: req.Designation,
	})
	if errors.Is(err, service.ErrUserExists) {
		writeDetail(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User registered successfully",
		"user": map[string]string{
			"email":      user.Email,
			"username":   user.Username,
			"role":       string(user.Role),
			"patient_id": user.PatientID,
		},
	})
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// Login handles POST /login. The admin account is just another user here;
// its role in the response is what makes the client route to the admin
// dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Email/Username and password are required")
		return
	}

	token, user, err := h.AuthService.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeDetail(w, http.StatusUnauthorized, "Invalid email/username or password")
		return
	}
	if errors.Is(err, service.ErrNotVerified) {
		writeDetail(w, http.StatusForbidden, "Email not verified. Please verify your email first.")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user": map[string]string{
			"email":      user.Email,
			"username":   user.Username,
			"role":       string(user.Role),
			"patient_id": user.PatientID,
		},
	})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendOTP handles POST /email-otp.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := h.OTPService.Send(req.Email); err != nil {
		writeDetail(w, http.StatusInternalServerError, "failed to send OTP email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully to email!"})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// VerifyOTP handles POST /verify-otp. A verified code marks the account
// verified so login can proceed.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	if err := h.OTPService.Verify(req.Email, req.OTP); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	matched, err := h.AuthService.MarkVerified(r.Context(), req.Email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !matched {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified, but no matching user found in database."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified successfully!"})
}
