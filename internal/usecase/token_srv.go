package usecase

import (
	"context"
	"errors"
	"time"

	"property-portal/internal/data/entity"
	"property-portal/internal/data/repository"
	"property-portal/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RefreshTriggerUpdate is the sentinel that forces a claim re-hydration.
const RefreshTriggerUpdate = "update"

// Claims is the signed snapshot of identity attributes held inside a session
// token. It is minted once at login and only changes through Refresh.
type Claims struct {
	Role             string `json:"role,omitempty"`
	Username         string `json:"username,omitempty"`
	MobileNumber     string `json:"mobileNumber,omitempty"`
	IsEmailVerified  bool   `json:"isEmailVerified"`
	IsMobileVerified bool   `json:"isMobileVerified"`
	IsAgent          bool   `json:"isAgent"`
	CompanyName      string `json:"companyName,omitempty"`
	AvatarURL        string `json:"avatarUrl,omitempty"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Mint(account *entity.Account) Claims
	Refresh(ctx context.Context, claims Claims, trigger string) (Claims, error)
	Sign(claims Claims) (string, error)
	Parse(tokenStr string) (*Claims, error)
}

type tokenService struct {
	accounts repository.AccountRepository
	config   utils.JWTConfig
	log      *zap.Logger
}

func NewTokenService(accounts repository.AccountRepository, config utils.JWTConfig, log *zap.Logger) TokenService {
	return &tokenService{
		accounts: accounts,
		config:   config,
		log:      log,
	}
}

// Mint copies the identity snapshot out of the account and derives the
// verification booleans. Timestamps themselves never enter the token.
func (s *tokenService) Mint(account *entity.Account) Claims {
	now := time.Now()
	expiry := now.Add(time.Duration(s.config.ExpiryHours) * time.Hour)

	return Claims{
		Role:             string(account.Role),
		Username:         strValue(account.Username),
		MobileNumber:     strValue(account.Phone),
		IsEmailVerified:  account.EmailVerifiedAt != nil,
		IsMobileVerified: account.MobileVerifiedAt != nil,
		IsAgent:          account.IsAgent(),
		CompanyName:      strValue(account.CompanyName),
		AvatarURL:        strValue(account.AvatarURL),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
}

// Refresh re-hydrates the watched claim fields from the store. It runs when
// the update sentinel is passed or when the held claims carry no username
// (tokens minted before profile completion). The watched set is replaced as
// one whole value; two concurrent refreshes each produce a complete snapshot,
// never a mix of old and new fields. If the subject row is gone the held
// claims are returned unchanged.
func (s *tokenService) Refresh(ctx context.Context, claims Claims, trigger string) (Claims, error) {
	if trigger != RefreshTriggerUpdate && claims.Username != "" {
		return claims, nil
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return claims, nil
	}

	proj, err := s.accounts.FindAuthProjection(ctx, id)
	if err != nil {
		s.log.Error("Failed to refresh claims",
			zap.Error(err),
			zap.String("account_id", claims.Subject),
		)
		return claims, err
	}
	if proj == nil {
		// Account deleted mid-session: keep serving the held snapshot.
		s.log.Warn("Refresh found no account, keeping held claims",
			zap.String("account_id", claims.Subject),
		)
		return claims, nil
	}

	next := claims
	next.Role = string(proj.Role)
	next.AvatarURL = strValue(proj.AvatarURL)
	next.Username = strValue(proj.Username)
	next.MobileNumber = strValue(proj.Phone)
	next.IsEmailVerified = proj.EmailVerifiedAt != nil
	next.IsMobileVerified = proj.MobileVerifiedAt != nil
	next.CompanyName = strValue(proj.CompanyName)
	next.IsAgent = proj.Role == entity.RoleAgent

	return next, nil
}

func (s *tokenService) Sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *tokenService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
