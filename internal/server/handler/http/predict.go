package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/teameicu/careportal/internal/middleware"
	"github.com/teameicu/careportal/internal/models"
	"github.com/teameicu/careportal/internal/service"
)

// PredictionService defines the prediction and dashboard operations the
// handlers require.
type PredictionService interface {
	Predict(ctx context.Context, email string, v models.Vitals) (*models.Prediction, error)
	History(ctx context.Context, email string) ([]models.Prediction, error)
	Overview(ctx context.Context) ([]models.Prediction, error)
	Analytics(ctx context.Context) (*service.Analytics, error)
	Report(ctx context.Context, email string) ([]byte, string, error)
}

// PredictHandler serves the prediction form and the three dashboards'
// data endpoints.
type PredictHandler struct {
	PredictionService PredictionService
}

// predictRequest uses pointers so absent vitals fall back to the
// original defaults instead of zero.
type predictRequest struct {
	Age             *int `json:"age"`
	HeartRate       *int `json:"heart_rate"`
	SystolicBP      *int `json:"systolic_bp"`
	RespiratoryRate *int `json:"respiratory_rate"`
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Predict handles POST /predict. The prediction is stored under the
// authenticated user's email.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	email := middleware.GetUserFromContext(r.Context())

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid input data")
		return
	}

	vitals := models.Vitals{
		Age:             orDefault(req.Age, 0),
		HeartRate:       orDefault(req.HeartRate, 80),
		SystolicBP:      orDefault(req.SystolicBP, 120),
		RespiratoryRate: orDefault(req.RespiratoryRate, 16),
	}

	p, err := h.PredictionService.Predict(r.Context(), email, vitals)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient_id":              p.ID,
		"predicted_LOS_days":      p.LOSDays,
		"in_hospital_mortality_%": p.MortalityPct,
		"mortality_risk_level":    p.RiskLevel,
		"message":                 "Prediction successful",
	})
}

// History handles GET /user/history?email=. Responds 404 when the user
// has no predictions, matching the original contract.
func (h *PredictHandler) History(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email = middleware.GetUserFromContext(r.Context())
	}

	preds, err := h.PredictionService.History(r.Context(), email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(preds) == 0 {
		writeDetail(w, http.StatusNotFound, "No predictions found for this user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"email":             email,
		"total_predictions": len(preds),
		"predictions":       preds,
	})
}

// DownloadReport handles GET /user/download-report?email=, streaming a
// CSV attachment of the user's predictions.
func (h *PredictHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email = middleware.GetUserFromContext(r.Context())
	}

	data, filename, err := h.PredictionService.Report(r.Context(), email)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	if data == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("No predictions found for %s", email)})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	_, _ = w.Write(data)
}

// Patients handles GET /doctor/patients with every prediction for the
// doctor dashboard.
func (h *PredictHandler) Patients(w http.ResponseWriter, r *http.Request) {
	preds, err := h.PredictionService.Overview(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	patients := make([]map[string]any, 0, len(preds))
	for _, p := range preds {
		patients = append(patients, map[string]any{
			"id":                      p.ID,
			"email":                   p.Email,
			"predicted_LOS_days":      p.LOSDays,
			"in_hospital_mortality_%": p.MortalityPct,
			"mortality_risk_level":    p.RiskLevel,
			"timestamp":               p.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    len(patients),
		"patients": patients,
	})
}

// Analytics handles GET /admin/analytics for the admin dashboard.
func (h *PredictHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.PredictionService.Analytics(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	recent := make([]map[string]any, 0, len(a.Recent))
	for _, p := range a.Recent {
		recent = append(recent, map[string]any{
			"email":       p.Email,
			"los_days":    p.LOSDays,
			"mortality_%": p.MortalityPct,
			"risk_level":  p.RiskLevel,
			"timestamp":   p.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": map[string]int64{
			"total_users":       a.TotalUsers,
			"total_doctors":     a.TotalDoctors,
			"total_patients":    a.TotalPatients,
			"total_predictions": a.TotalPredictions,
		},
		"recent_predictions": recent,
	})
}
