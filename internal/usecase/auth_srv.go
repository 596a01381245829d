package usecase

import (
	"context"
	"fmt"

	"property-portal/internal/data/repository"
	"property-portal/internal/dto/request"
	"property-portal/internal/dto/response"
	"property-portal/pkg/gateway"
	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	// Login resolves, verifies and mints in one pass. A (nil, nil) result is
	// the uniform credential rejection; the HTTP boundary turns it into an
	// unauthorized response.
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// RefreshToken re-signs the held claims, re-hydrating the watched fields
	// when a trigger condition holds. An unparseable token yields (nil, nil).
	RefreshToken(ctx context.Context, tokenStr, trigger string) (*response.AuthResponse, error)
}

type authService struct {
	verifier *CredentialVerifier
	tokens   TokenService
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	otp gateway.OTPVerifier,
	tokens TokenService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	resolver := NewIdentifierResolver(repo.Account)
	tracker := NewVerificationTracker(repo.Account, log)

	return &authService{
		verifier: NewCredentialVerifier(resolver, tracker, otp, config.OTP, log),
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	cred := NewCredential(LoginType(req.LoginType), req.Identifier, req.Password, req.OTP)

	account, err := s.verifier.Verify(ctx, cred)
	if err != nil {
		s.log.Error("Credential verification failed", zap.Error(err))
		return nil, fmt.Errorf("verify credential: %w", err)
	}
	if account == nil {
		// Deliberately silent about why.
		s.log.Warn("Login rejected", zap.String("login_type", req.LoginType))
		return nil, nil
	}

	claims := s.tokens.Mint(account)
	signed, err := s.tokens.Sign(claims)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("account_id", account.ID.String()))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("Account logged in",
		zap.String("account_id", account.ID.String()),
		zap.String("login_type", req.LoginType),
	)

	return authToResponse(signed, claims), nil
}

func (s *authService) RefreshToken(ctx context.Context, tokenStr, trigger string) (*response.AuthResponse, error) {
	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		s.log.Warn("Refresh with invalid token", zap.Error(err))
		return nil, nil
	}

	next, err := s.tokens.Refresh(ctx, *claims, trigger)
	if err != nil {
		return nil, fmt.Errorf("refresh claims: %w", err)
	}

	signed, err := s.tokens.Sign(next)
	if err != nil {
		s.log.Error("Failed to re-sign token", zap.Error(err), zap.String("account_id", next.Subject))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return authToResponse(signed, next), nil
}

func authToResponse(signed string, claims Claims) *response.AuthResponse {
	resp := &response.AuthResponse{
		AccountID:        claims.Subject,
		Token:            signed,
		Role:             claims.Role,
		Username:         claims.Username,
		MobileNumber:     claims.MobileNumber,
		IsEmailVerified:  claims.IsEmailVerified,
		IsMobileVerified: claims.IsMobileVerified,
		IsAgent:          claims.IsAgent,
		CompanyName:      claims.CompanyName,
		AvatarURL:        claims.AvatarURL,
	}

	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}

	return resp
}
