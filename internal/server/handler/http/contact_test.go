package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeContactService struct {
	gotName, gotEmail, gotMessage string
	called                        bool
}

func (f *fakeContactService) Submit(ctx context.Context, name, email, message string) {
	f.called = true
	f.gotName, f.gotEmail, f.gotMessage = name, email, message
}

func TestContact(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode int
		wantCalled   bool
	}{
		{"invalid JSON", `nope`, http.StatusBadRequest, false},
		{"missing message", `{"name":"Alice","email":"a@b.co"}`, http.StatusBadRequest, false},
		{"bad email", `{"name":"Alice","email":"nope","message":"hi"}`, http.StatusBadRequest, false},
		{"success", `{"name":"Alice","email":"a@b.co","message":"hi"}`, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeContactService{}
			h := NewContactHandler(svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/contact", strings.NewReader(tt.body))
			h.Contact(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if svc.called != tt.wantCalled {
				t.Errorf("Submit called = %v; want %v", svc.called, tt.wantCalled)
			}
			if tt.wantCalled && !strings.Contains(rec.Body.String(), "has been received") {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}
