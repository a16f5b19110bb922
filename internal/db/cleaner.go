package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartResetTokenCleaner purges expired password-reset tokens with interval
func StartResetTokenCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
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
				cutoff := time.Now().Unix()
				res, err := db.ExecContext(ctx, `
                    DELETE FROM password_reset_tokens
                     WHERE expires_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean expired reset tokens", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned expired reset tokens", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
