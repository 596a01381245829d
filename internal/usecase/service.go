package usecase

import (
	"property-portal/internal/data/repository"
	"property-portal/pkg/gateway"
	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Token   TokenService
	Session SessionService
}

func NewService(repo *repository.Repository, otp gateway.OTPVerifier, config *utils.Config, log *zap.Logger) *Service {
	tokens := NewTokenService(repo.Account, config.JWT, log)

	return &Service{
		Auth:    NewAuthService(repo, otp, tokens, config, log),
		Token:   tokens,
		Session: NewSessionService(repo.Account, log),
	}
}
