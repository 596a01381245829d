package usecase

import (
	"context"
	"strings"

	"property-portal/internal/data/entity"
	"property-portal/internal/data/repository"
)

// LoginType selects which credential flow a login attempt goes through.
type LoginType string

const (
	LoginPassword LoginType = "password"
	LoginOTP      LoginType = "otp"
)

// ClassifyChannel maps an identifier to the verification channel it proves.
// Anything with an "@" is treated as an email address, everything else as a
// mobile number.
func ClassifyChannel(identifier string) entity.VerificationChannel {
	if strings.Contains(identifier, "@") {
		return entity.ChannelEmail
	}
	return entity.ChannelMobile
}

// IdentifierResolver classifies a raw identifier and looks up the matching
// account. Classification is asymmetric by login type: both modes treat an
// "@" identifier as an email, but a bare identifier is a username under
// password login and a phone number under OTP login. Phone is never a
// password-mode key and username is never an OTP-mode key.
type IdentifierResolver struct {
	accounts repository.AccountRepository
}

func NewIdentifierResolver(accounts repository.AccountRepository) *IdentifierResolver {
	return &IdentifierResolver{accounts: accounts}
}

// Resolve returns the first matching account or nil. An empty identifier
// resolves to nil without touching the store; absence is not an error.
func (r *IdentifierResolver) Resolve(ctx context.Context, mode LoginType, identifier string) (*entity.Account, error) {
	if identifier == "" {
		return nil, nil
	}

	if strings.Contains(identifier, "@") {
		return r.accounts.FindByEmail(ctx, identifier)
	}

	switch mode {
	case LoginPassword:
		return r.accounts.FindByUsername(ctx, identifier)
	case LoginOTP:
		return r.accounts.FindByPhone(ctx, identifier)
	default:
		return nil, nil
	}
}
