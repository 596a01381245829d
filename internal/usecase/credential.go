package usecase

import (
	"context"

	"property-portal/internal/data/entity"
	"property-portal/pkg/gateway"
	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

// Credential is the tagged union of the two login modes. A request is
// validated into exactly one variant before dispatch; there is no
// optional-field sniffing past this point.
type Credential interface {
	credential()
}

type PasswordCredential struct {
	Identifier string
	Secret     string
}

type OTPCredential struct {
	Identifier string
	Code       string
}

func (PasswordCredential) credential() {}
func (OTPCredential) credential()      {}

// NewCredential builds the variant for the given login type. An unknown type
// yields nil, which the verifier treats as a plain rejection.
func NewCredential(loginType LoginType, identifier, password, otp string) Credential {
	switch loginType {
	case LoginPassword:
		return PasswordCredential{Identifier: identifier, Secret: password}
	case LoginOTP:
		return OTPCredential{Identifier: identifier, Code: otp}
	default:
		return nil
	}
}

// CredentialVerifier validates a credential against policy. Rejection is a
// uniform (nil, nil): whether the account was missing or the secret wrong is
// indistinguishable to the caller. Only store and gateway transport failures
// surface as errors.
type CredentialVerifier struct {
	resolver *IdentifierResolver
	tracker  *VerificationTracker
	otp      gateway.OTPVerifier
	config   utils.OTPConfig
	log      *zap.Logger
}

func NewCredentialVerifier(
	resolver *IdentifierResolver,
	tracker *VerificationTracker,
	otp gateway.OTPVerifier,
	config utils.OTPConfig,
	log *zap.Logger,
) *CredentialVerifier {
	return &CredentialVerifier{
		resolver: resolver,
		tracker:  tracker,
		otp:      otp,
		config:   config,
		log:      log,
	}
}

func (v *CredentialVerifier) Verify(ctx context.Context, cred Credential) (*entity.Account, error) {
	switch c := cred.(type) {
	case PasswordCredential:
		return v.verifyPassword(ctx, c)
	case OTPCredential:
		return v.verifyOTP(ctx, c)
	default:
		return nil, nil
	}
}

func (v *CredentialVerifier) verifyPassword(ctx context.Context, cred PasswordCredential) (*entity.Account, error) {
	if cred.Identifier == "" || cred.Secret == "" {
		return nil, nil
	}

	account, err := v.resolver.Resolve(ctx, LoginPassword, cred.Identifier)
	if err != nil {
		return nil, err
	}
	if account == nil || account.PasswordHash == nil {
		return nil, nil
	}

	if !utils.CheckPasswordHash(cred.Secret, *account.PasswordHash) {
		v.log.Warn("Password mismatch", zap.String("account_id", account.ID.String()))
		return nil, nil
	}

	return account, nil
}

// verifyOTP accepts either the configured fallback code or a gateway-verified
// token matching the submitted identifier. OTP never creates an account. On
// success the classified channel is stamped before returning, so the caller
// never sees a logged-in account whose verification state is still pending.
func (v *CredentialVerifier) verifyOTP(ctx context.Context, cred OTPCredential) (*entity.Account, error) {
	if cred.Identifier == "" || !v.validCodeShape(cred.Code) {
		return nil, nil
	}

	account, err := v.resolver.Resolve(ctx, LoginOTP, cred.Identifier)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	accepted := v.config.FallbackCode != "" && cred.Code == v.config.FallbackCode
	if !accepted {
		result, err := v.otp.VerifyToken(ctx, cred.Code)
		if err != nil {
			return nil, err
		}
		accepted = result.Success && result.Identifier == cred.Identifier
	}
	if !accepted {
		v.log.Warn("OTP rejected", zap.String("account_id", account.ID.String()))
		return nil, nil
	}

	if err := v.tracker.MarkVerified(ctx, account.ID, ClassifyChannel(cred.Identifier)); err != nil {
		return nil, err
	}

	return account, nil
}

func (v *CredentialVerifier) validCodeShape(code string) bool {
	length := v.config.Length
	if length <= 0 {
		length = 6
	}
	if len(code) != length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
