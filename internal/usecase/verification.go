package usecase

import (
	"context"
	"time"

	"property-portal/internal/data/entity"
	"property-portal/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VerificationTracker stamps per-channel verified-at timestamps. Stamping is
// idempotent (a re-stamp moves the timestamp to now) and always completes
// before the caller is told login succeeded.
type VerificationTracker struct {
	accounts repository.AccountRepository
	log      *zap.Logger
}

func NewVerificationTracker(accounts repository.AccountRepository, log *zap.Logger) *VerificationTracker {
	return &VerificationTracker{
		accounts: accounts,
		log:      log,
	}
}

func (t *VerificationTracker) MarkVerified(ctx context.Context, accountID uuid.UUID, channel entity.VerificationChannel) error {
	if err := t.accounts.UpdateVerification(ctx, accountID, channel, time.Now()); err != nil {
		return err
	}

	t.log.Info("Channel verified",
		zap.String("account_id", accountID.String()),
		zap.String("channel", string(channel)),
	)
	return nil
}
