package service

import (
	"context"
	"errors"
	"testing"

	"github.com/teameicu/careportal/internal/models"
	"go.uber.org/zap"
)

type mockContactRepo struct {
	InsertFunc func(ctx context.Context, m *models.ContactMessage) error
}

func (m *mockContactRepo) Insert(ctx context.Context, msg *models.ContactMessage) error {
	return m.InsertFunc(ctx, msg)
}

func TestContactSubmit(t *testing.T) {
	var stored *models.ContactMessage
	repo := &mockContactRepo{
		InsertFunc: func(ctx context.Context, m *models.ContactMessage) error {
			stored = m
			return nil
		},
	}
	svc := NewContactService(repo, zap.NewNop())

	svc.Submit(context.Background(), "Alice", "alice@example.com", "hello there")

	if stored == nil {
		t.Fatal("message was not stored")
	}
	if stored.Name != "Alice" || stored.Email != "alice@example.com" || stored.Message != "hello there" {
		t.Errorf("unexpected message: %+v", stored)
	}
	if stored.ID == "" || stored.CreatedAt == 0 {
		t.Errorf("missing ID or timestamp: %+v", stored)
	}
}

func TestContactSubmit_SwallowsError(t *testing.T) {
	repo := &mockContactRepo{
		InsertFunc: func(ctx context.Context, m *models.ContactMessage) error {
			return errors.New("insert failed")
		},
	}
	svc := NewContactService(repo, zap.NewNop())

	// Must not panic; the failure is logged only.
	svc.Submit(context.Background(), "Bob", "bob@example.com", "hi")
}
