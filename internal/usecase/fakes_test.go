package usecase

import (
	"context"
	"time"

	"property-portal/internal/data/entity"
	"property-portal/pkg/gateway"

	"github.com/google/uuid"
)

type verificationCall struct {
	accountID uuid.UUID
	channel   entity.VerificationChannel
	stampedAt time.Time
}

// fakeAccountRepo is an in-memory AccountRepository. Lookups are counted so
// tests can assert that certain paths never touch the store.
type fakeAccountRepo struct {
	byEmail     map[string]*entity.Account
	byPhone     map[string]*entity.Account
	byUsername  map[string]*entity.Account
	byID        map[uuid.UUID]*entity.Account
	projections map[uuid.UUID]*entity.AuthProjection

	lookups       int
	verifications []verificationCall
	failWith      error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byEmail:     make(map[string]*entity.Account),
		byPhone:     make(map[string]*entity.Account),
		byUsername:  make(map[string]*entity.Account),
		byID:        make(map[uuid.UUID]*entity.Account),
		projections: make(map[uuid.UUID]*entity.AuthProjection),
	}
}

func (f *fakeAccountRepo) add(acc *entity.Account) {
	f.byID[acc.ID] = acc
	if acc.Email != nil {
		f.byEmail[*acc.Email] = acc
	}
	if acc.Phone != nil {
		f.byPhone[*acc.Phone] = acc
	}
	if acc.Username != nil {
		f.byUsername[*acc.Username] = acc
	}
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byEmail[email], nil
}

func (f *fakeAccountRepo) FindByPhone(ctx context.Context, phone string) (*entity.Account, error) {
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byPhone[phone], nil
}

func (f *fakeAccountRepo) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byUsername[username], nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	f.lookups++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.byID[id], nil
}

func (f *fakeAccountRepo) FindAuthProjection(ctx context.Context, id uuid.UUID) (*entity.AuthProjection, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.projections[id], nil
}

func (f *fakeAccountRepo) UpdateVerification(ctx context.Context, id uuid.UUID, channel entity.VerificationChannel, verifiedAt time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}

	f.verifications = append(f.verifications, verificationCall{
		accountID: id,
		channel:   channel,
		stampedAt: verifiedAt,
	})

	if acc, ok := f.byID[id]; ok {
		ts := verifiedAt
		switch channel {
		case entity.ChannelEmail:
			acc.EmailVerifiedAt = &ts
		case entity.ChannelMobile:
			acc.MobileVerifiedAt = &ts
		}
	}
	return nil
}

// fakeOTPVerifier records calls and replies with a canned result or error.
type fakeOTPVerifier struct {
	result *gateway.VerifyResult
	err    error
	calls  int
}

func (f *fakeOTPVerifier) VerifyToken(ctx context.Context, token string) (*gateway.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return &gateway.VerifyResult{}, nil
	}
	return f.result, nil
}

func str(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
