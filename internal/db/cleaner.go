package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartPredictionCleaner deletes predictions older than retention with interval
func StartPredictionCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention).Unix()
				res, err := db.ExecContext(ctx, `
                    DELETE FROM predictions
                     WHERE created_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean expired predictions", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired predictions", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
