package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/teameicu/careportal/internal/models"
	"go.uber.org/zap"
)

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Insert(ctx context.Context, m *models.ContactMessage) error
}

// ContactService records contact-form messages. Storage failures are
// logged and swallowed; the sender always gets a friendly reply.
type ContactService struct {
	repo ContactRepository
	log  *zap.Logger
}

// NewContactService constructs a ContactService.
func NewContactService(repo ContactRepository, log *zap.Logger) *ContactService {
	return &ContactService{repo: repo, log: log}
}

// Submit stores one message best-effort.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) {
	m := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		s.log.Warn("failed to store contact message", zap.Error(err))
	}
}
