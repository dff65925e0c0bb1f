package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/teameicu/careportal/internal/models"
)

// PredictionRepository defines the persistence operations required by the
// prediction service.
type PredictionRepository interface {
	Insert(ctx context.Context, p *models.Prediction) error
	ListByEmail(ctx context.Context, email string) ([]models.Prediction, error)
	ListAll(ctx context.Context) ([]models.Prediction, error)
	ListRecent(ctx context.Context, limit int) ([]models.Prediction, error)
	Count(ctx context.Context) (int64, error)
}

// UserCounter provides the account totals the admin analytics need.
type UserCounter interface {
	CountAll(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// PredictionService computes, stores and aggregates outcome predictions.
// The scoring formula is a stand-in until a real model ships.
type PredictionService struct {
	repo  PredictionRepository
	users UserCounter
	now   func() time.Time
}

// NewPredictionService constructs a PredictionService over the given
// repositories.
func NewPredictionService(repo PredictionRepository, users UserCounter) *PredictionService {
	return &PredictionService{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

// Predict scores the vitals, stores the result under the user's email and
// returns it.
//
// Placeholder formula carried over from the original service:
// LOS = (age mod 7) + heart_rate/100 + U(0.5, 2.0), one decimal;
// mortality = clamp(resp*1.2 + age/5 - systolic/10 + U(-5, 5), 0, 100).
func (s *PredictionService) Predict(ctx context.Context, email string, v models.Vitals) (*models.Prediction, error) {
	// Package-level rand is locked internally; Predict runs on
	// concurrent requests.
	los := float64(v.Age%7) + float64(v.HeartRate)/100 + rand.Float64()*1.5 + 0.5
	los = float64(int(los*10+0.5)) / 10

	ihm := float64(v.RespiratoryRate)*1.2 + float64(v.Age)/5 - float64(v.SystolicBP)/10 + rand.Float64()*10 - 5
	if ihm < 0 {
		ihm = 0
	}
	if ihm > 100 {
		ihm = 100
	}
	ihm = float64(int(ihm*100+0.5)) / 100

	risk := "Low"
	switch {
	case ihm > 60:
		risk = "High"
	case ihm > 30:
		risk = "Moderate"
	}

	p := &models.Prediction{
		ID:           uuid.NewString(),
		Email:        email,
		LOSDays:      los,
		MortalityPct: ihm,
		RiskLevel:    risk,
		CreatedAt:    s.now().Unix(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return p, nil
}

// History returns every prediction stored for the email.
func (s *PredictionService) History(ctx context.Context, email string) ([]models.Prediction, error) {
	return s.repo.ListByEmail(ctx, email)
}

// Overview returns every stored prediction for the doctor dashboard.
func (s *PredictionService) Overview(ctx context.Context) ([]models.Prediction, error) {
	return s.repo.ListAll(ctx)
}

// Analytics aggregates the counters and recent activity shown on the
// admin dashboard.
type Analytics struct {
	TotalUsers       int64               `json:"total_users"`
	TotalDoctors     int64               `json:"total_doctors"`
	TotalPatients    int64               `json:"total_patients"`
	TotalPredictions int64               `json:"total_predictions"`
	Recent           []models.Prediction `json:"recent_predictions"`
}

// Analytics gathers system-wide totals plus the five most recent
// predictions.
func (s *PredictionService) Analytics(ctx context.Context) (*Analytics, error) {
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	doctors, err := s.users.CountByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	patients, err := s.users.CountByRole(ctx, models.RolePatient)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	preds, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	recent, err := s.repo.ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	return &Analytics{
		TotalUsers:       users,
		TotalDoctors:     doctors,
		TotalPatients:    patients,
		TotalPredictions: preds,
		Recent:           recent,
	}, nil
}
