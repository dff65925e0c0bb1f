package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/teameicu/careportal/internal/mailer"
)

var (
	// ErrNoOTP is returned when verifying an email no code was issued for.
	ErrNoOTP = errors.New("no OTP found, please request again")
	// ErrOTPExpired is returned when the code outlived its 2-minute window.
	ErrOTPExpired = errors.New("OTP expired, please request a new one")
	// ErrOTPInvalid is returned for a wrong code.
	ErrOTPInvalid = errors.New("invalid OTP")
)

// otpTTL matches the original 2-minute validity window.
const otpTTL = 2 * time.Minute

type otpEntry struct {
	code   string
	expiry time.Time
}

// OTPService issues and verifies one-time email verification codes. Codes
// live in memory only; a restart invalidates outstanding codes, as in the
// original backend.
type OTPService struct {
	mailer mailer.Mailer
	mu     sync.Mutex
	codes  map[string]otpEntry
	now    func() time.Time
}

// NewOTPService constructs an OTPService delivering codes through m.
func NewOTPService(m mailer.Mailer) *OTPService {
	return &OTPService{
		mailer: m,
		codes:  make(map[string]otpEntry),
		now:    time.Now,
	}
}

// Send issues a 6-digit code for the email and delivers it. A new code
// replaces any outstanding one for the same address.
func (s *OTPService) Send(email string) error {
	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	s.mu.Lock()
	s.codes[email] = otpEntry{code: code, expiry: s.now().Add(otpTTL)}
	s.mu.Unlock()

	body := fmt.Sprintf(
		"Hello,\n\nYour OTP for verification is: %s\nThis OTP is valid for 2 minutes.\n\nRegards,\nTeam EICU\n",
		code,
	)
	if err := s.mailer.Send(email, "Your Verification OTP", body); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// Verify checks the code for the email. The code is consumed on success
// and discarded on expiry.
func (s *OTPService) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return ErrNoOTP
	}
	if s.now().After(entry.expiry) {
		delete(s.codes, email)
		return ErrOTPExpired
	}
	if entry.code != code {
		return ErrOTPInvalid
	}
	delete(s.codes, email)
	return nil
}
