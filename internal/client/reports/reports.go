// Package reports keeps a local cache of the user's predictions so the
// history view has data to show between server round trips.
package reports

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teameicu/careportal/internal/models"
)

// HistoryFetcher pulls the authenticated user's predictions from the
// server.
type HistoryFetcher interface {
	History(ctx context.Context, token, email string) ([]models.Prediction, error)
}

// LocalReports is the on-disk prediction cache.
type LocalReports struct {
	Predictions []models.Prediction `json:"predictions"`
	Updated     int64               `json:"updated"`

	mu   sync.Mutex
	path string
}

// Load reads the cache from path. A missing, unreadable or corrupt file
// yields an empty cache; the path is kept so the next Save overwrites
// whatever was there.
func Load(path string) *LocalReports {
	lr := &LocalReports{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		return lr
	}
	var data struct {
		Predictions []models.Prediction `json:"predictions"`
		Updated     int64               `json:"updated"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return lr
	}
	lr.Predictions = data.Predictions
	lr.Updated = data.Updated
	return lr
}

// Save writes the cache back to disk.
func (lr *LocalReports) Save() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	f, err := os.Create(lr.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(lr)
}

// List returns a copy of the cached predictions.
func (lr *LocalReports) List() []models.Prediction {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	out := make([]models.Prediction, len(lr.Predictions))
	copy(out, lr.Predictions)
	return out
}

// Add appends a freshly scored prediction to the cache.
func (lr *LocalReports) Add(p models.Prediction) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.Predictions = append(lr.Predictions, p)
	lr.Updated = time.Now().Unix()
}

// Merge folds server predictions into the cache, keyed by ID. A known
// ID with a newer timestamp replaces the cached entry; unknown IDs are
// appended.
func (lr *LocalReports) Merge(incoming []models.Prediction) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	for _, p := range incoming {
		found := false
		for i := range lr.Predictions {
			if lr.Predictions[i].ID == p.ID {
				if p.CreatedAt > lr.Predictions[i].CreatedAt {
					lr.Predictions[i] = p
				}
				found = true
				break
			}
		}
		if !found {
			lr.Predictions = append(lr.Predictions, p)
		}
	}
	lr.Updated = time.Now().Unix()
}

// RefreshFromServer fetches the user's history and merges it in. An
// empty history leaves the cache as is.
func RefreshFromServer(ctx context.Context, fetcher HistoryFetcher, token, email string, lr *LocalReports) error {
	preds, err := fetcher.History(ctx, token, email)
	if err != nil {
		return err
	}
	if len(preds) == 0 {
		return nil
	}
	lr.Merge(preds)
	return lr.Save()
}

// StartAutoRefresh polls the server on interval until ctx is cancelled.
func StartAutoRefresh(ctx context.Context, fetcher HistoryFetcher, token, email string, lr *LocalReports, interval time.Duration, log *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := RefreshFromServer(ctx, fetcher, token, email, lr); err != nil {
					log.Warn("history refresh failed", zap.Error(err))
				}
			}
		}
	}()
}
