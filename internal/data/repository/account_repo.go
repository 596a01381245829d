package repository

import (
	"context"
	"fmt"
	"time"

	"property-portal/internal/data/entity"
	"property-portal/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Account, error)
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindAuthProjection(ctx context.Context, id uuid.UUID) (*entity.AuthProjection, error)
	UpdateVerification(ctx context.Context, id uuid.UUID, channel entity.VerificationChannel, verifiedAt time.Time) error
}

type accountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAccountRepository(db database.PgxIface, log *zap.Logger) AccountRepository {
	return &accountRepository{
		db:  db,
		log: log.With(zap.String("repository", "account")),
	}
}

const accountColumns = `id, email, phone, username, password, role,
	       company_name, avatar_url, email_verified_at, mobile_verified_at,
	       created_at, updated_at, deleted_at`

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var acc entity.Account
	err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.Phone,
		&acc.Username,
		&acc.PasswordHash,
		&acc.Role,
		&acc.CompanyName,
		&acc.AvatarURL,
		&acc.EmailVerifiedAt,
		&acc.MobileVerifiedAt,
		&acc.CreatedAt,
		&acc.UpdatedAt,
		&acc.DeletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindByEmail returns the first matching account or nil. Absence is not an error.
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND deleted_at IS NULL
		LIMIT 1
	`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		r.log.Error("Failed to find account by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find account by email: %w", err)
	}

	return acc, nil
}

func (r *accountRepository) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE phone = $1 AND deleted_at IS NULL
		LIMIT 1
	`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		r.log.Error("Failed to find account by phone",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return nil, fmt.Errorf("find account by phone: %w", err)
	}

	return acc, nil
}

func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1 AND deleted_at IS NULL
		LIMIT 1
	`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, username))
	if err != nil {
		r.log.Error("Failed to find account by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find account by username: %w", err)
	}

	return acc, nil
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND deleted_at IS NULL
	`

	acc, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find account by ID",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find account by ID %s: %w", id.String(), err)
	}

	return acc, nil
}

// FindAuthProjection reads the fixed column set used for token refresh and
// session projection in one row read, so concurrent refreshes each see an
// internally consistent snapshot.
func (r *accountRepository) FindAuthProjection(ctx context.Context, id uuid.UUID) (*entity.AuthProjection, error) {
	query := `
		SELECT role, avatar_url, username, phone,
		       email_verified_at, mobile_verified_at, company_name
		FROM accounts
		WHERE id = $1 AND deleted_at IS NULL
	`

	var p entity.AuthProjection
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.Role,
		&p.AvatarURL,
		&p.Username,
		&p.Phone,
		&p.EmailVerifiedAt,
		&p.MobileVerifiedAt,
		&p.CompanyName,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to read auth projection",
			zap.Error(err),
			zap.String("account_id", id.String()),
		)
		return nil, fmt.Errorf("find auth projection %s: %w", id.String(), err)
	}

	return &p, nil
}

// UpdateVerification stamps exactly one channel's verified-at column. The
// other channel is never touched; re-stamping an already verified channel
// simply moves its timestamp forward.
func (r *accountRepository) UpdateVerification(ctx context.Context, id uuid.UUID, channel entity.VerificationChannel, verifiedAt time.Time) error {
	var query string
	switch channel {
	case entity.ChannelEmail:
		query = `UPDATE accounts SET email_verified_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	case entity.ChannelMobile:
		query = `UPDATE accounts SET mobile_verified_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	default:
		return fmt.Errorf("unknown verification channel %q", channel)
	}

	result, err := r.db.Exec(ctx, query, id, verifiedAt)
	if err != nil {
		r.log.Error("Failed to update verification timestamp",
			zap.Error(err),
			zap.String("account_id", id.String()),
			zap.String("channel", string(channel)),
		)
		return fmt.Errorf("update %s verification for %s: %w", channel, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id.String())
	}

	return nil
}
