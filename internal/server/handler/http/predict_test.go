package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/teameicu/careportal/internal/middleware"
	"github.com/teameicu/careportal/internal/models"
	"github.com/teameicu/careportal/internal/service"
)

type fakePredictionService struct {
	prediction *models.Prediction
	predictErr error
	history    []models.Prediction
	historyErr error
	overview   []models.Prediction
	analytics  *service.Analytics
	reportData []byte
	reportName string
	gotVitals  models.Vitals
	gotEmail   string
}

func (f *fakePredictionService) Predict(ctx context.Context, email string, v models.Vitals) (*models.Prediction, error) {
	f.gotEmail, f.gotVitals = email, v
	return f.prediction, f.predictErr
}
func (f *fakePredictionService) History(ctx context.Context, email string) ([]models.Prediction, error) {
	f.gotEmail = email
	return f.history, f.historyErr
}
func (f *fakePredictionService) Overview(ctx context.Context) ([]models.Prediction, error) {
	return f.overview, nil
}
func (f *fakePredictionService) Analytics(ctx context.Context) (*service.Analytics, error) {
	return f.analytics, nil
}
func (f *fakePredictionService) Report(ctx context.Context, email string) ([]byte, string, error) {
	return f.reportData, f.reportName, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUser(req.Context(), "alice@example.com"))
}

func TestPredict_Defaults(t *testing.T) {
	svc := &fakePredictionService{prediction: &models.Prediction{ID: "p1", RiskLevel: "Low"}}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest("POST", "/predict", `{"age": 40}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	want := models.Vitals{Age: 40, HeartRate: 80, SystolicBP: 120, RespiratoryRate: 16}
	if svc.gotVitals != want {
		t.Errorf("vitals = %+v; want defaults %+v", svc.gotVitals, want)
	}
	if svc.gotEmail != "alice@example.com" {
		t.Errorf("email = %q; want authenticated user", svc.gotEmail)
	}
}

func TestPredict_BadBody(t *testing.T) {
	h := &PredictHandler{PredictionService: &fakePredictionService{}}

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest("POST", "/predict", `{"age": "old"}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid input data") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPredict_ServiceError(t *testing.T) {
	h := &PredictHandler{PredictionService: &fakePredictionService{predictErr: errors.New("db down")}}

	rec := httptest.NewRecorder()
	h.Predict(rec, authedRequest("POST", "/predict", `{}`))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", rec.Code)
	}
}

func TestHistory_Empty404(t *testing.T) {
	h := &PredictHandler{PredictionService: &fakePredictionService{}}

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest("GET", "/user/history?email=ghost@example.com", ""))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No predictions found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHistory_Found(t *testing.T) {
	svc := &fakePredictionService{history: []models.Prediction{{ID: "p1"}, {ID: "p2"}}}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest("GET", "/user/history?email=alice@example.com", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp struct {
		Email string              `json:"email"`
		Total int                 `json:"total_predictions"`
		Preds []models.Prediction `json:"predictions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Email != "alice@example.com" || resp.Total != 2 || len(resp.Preds) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHistory_FallsBackToAuthedEmail(t *testing.T) {
	svc := &fakePredictionService{history: []models.Prediction{{ID: "p1"}}}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest("GET", "/user/history", ""))

	if svc.gotEmail != "alice@example.com" {
		t.Errorf("email = %q; want token email fallback", svc.gotEmail)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
}

func TestDownloadReport_CSV(t *testing.T) {
	svc := &fakePredictionService{
		reportData: []byte("Email,Prediction Date\n"),
		reportName: "user_report_alice_at_example.com.csv",
	}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.DownloadReport(rec, authedRequest("GET", "/user/download-report?email=alice@example.com", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q; want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "user_report_alice_at_example.com.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestDownloadReport_NoData(t *testing.T) {
	h := &PredictHandler{PredictionService: &fakePredictionService{}}

	rec := httptest.NewRecorder()
	h.DownloadReport(rec, authedRequest("GET", "/user/download-report?email=ghost@example.com", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No predictions found for ghost@example.com") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPatients(t *testing.T) {
	svc := &fakePredictionService{overview: []models.Prediction{
		{ID: "p1", Email: "a@b.co", RiskLevel: "High"},
	}}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.Patients(rec, authedRequest("GET", "/doctor/patients", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp struct {
		Total    int              `json:"total"`
		Patients []map[string]any `json:"patients"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || resp.Patients[0]["mortality_risk_level"] != "High" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAnalytics_Response(t *testing.T) {
	svc := &fakePredictionService{analytics: &service.Analytics{
		TotalUsers:       10,
		TotalDoctors:     3,
		TotalPatients:    6,
		TotalPredictions: 12,
		Recent:           []models.Prediction{{Email: "a@b.co", RiskLevel: "Low"}},
	}}
	h := &PredictHandler{PredictionService: svc}

	rec := httptest.NewRecorder()
	h.Analytics(rec, authedRequest("GET", "/admin/analytics", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var resp struct {
		Summary map[string]int64 `json:"summary"`
		Recent  []map[string]any `json:"recent_predictions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Summary["total_users"] != 10 || resp.Summary["total_predictions"] != 12 {
		t.Errorf("unexpected summary: %+v", resp.Summary)
	}
	if len(resp.Recent) != 1 {
		t.Errorf("unexpected recent: %+v", resp.Recent)
	}
}
