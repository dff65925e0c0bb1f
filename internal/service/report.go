package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Report builds a CSV export of the user's predictions. The returned
// filename embeds the email with '@' flattened, matching the original
// report naming.
func (s *PredictionService) Report(ctx context.Context, email string) ([]byte, string, error) {
	preds, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("report: %w", err)
	}
	if len(preds) == 0 {
		return nil, "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Email", "Prediction Date", "Predicted LOS (days)", "Mortality %", "Risk Level"})
	for _, p := range preds {
		_ = w.Write([]string{
			p.Email,
			time.Unix(p.CreatedAt, 0).Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(p.LOSDays, 'f', -1, 64),
			strconv.FormatFloat(p.MortalityPct, 'f', -1, 64),
			p.RiskLevel,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("report: %w", err)
	}

	filename := fmt.Sprintf("user_report_%s.csv", strings.ReplaceAll(email, "@", "_at_"))
	return buf.Bytes(), filename, nil
}
