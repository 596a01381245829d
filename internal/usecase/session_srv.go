package usecase

import (
	"context"

	"property-portal/internal/data/entity"
	"property-portal/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionView is the public identity object produced per request. Only fixed
// primitives leave the engine; verification timestamps surface as booleans.
type SessionView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	Image            string `json:"image"`
	Username         string `json:"username"`
	MobileNumber     string `json:"mobileNumber"`
	IsEmailVerified  bool   `json:"isEmailVerified"`
	IsMobileVerified bool   `json:"isMobileVerified"`
	IsAgent          bool   `json:"isAgent"`
	CompanyName      string `json:"companyName"`
	ImageLink        string `json:"imageLink"`
}

type SessionService interface {
	Project(ctx context.Context, claims *Claims, shell *SessionView) (*SessionView, error)
}

type sessionService struct {
	accounts repository.AccountRepository
	log      *zap.Logger
}

func NewSessionService(accounts repository.AccountRepository, log *zap.Logger) SessionService {
	return &sessionService{
		accounts: accounts,
		log:      log,
	}
}

// Project merges token claims with a fresh store read. The merge is an
// explicit per-field coalesce, not a generic object merge: claims and store
// use different field names (mobileNumber vs phone) and different
// representations (derived booleans vs raw timestamps). For every field the
// claims-carried value wins when present; the store projection fills the
// gaps. Calling Project twice with unchanged inputs yields value-equal views.
func (s *sessionService) Project(ctx context.Context, claims *Claims, shell *SessionView) (*SessionView, error) {
	// No subject means no projection: callers rely on getting the identical
	// shell back to detect this.
	if claims == nil || claims.Subject == "" {
		return shell, nil
	}

	proj := &entity.AuthProjection{}
	if id, err := uuid.Parse(claims.Subject); err == nil {
		stored, err := s.accounts.FindAuthProjection(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			proj = stored
		}
	}

	role := coalesce(claims.Role, string(proj.Role))

	view := &SessionView{
		ID:    claims.Subject,
		Email: shell.Email,
		Name:  shell.Name,

		Role:         role,
		Username:     coalesce(claims.Username, strValue(proj.Username)),
		MobileNumber: coalesce(claims.MobileNumber, strValue(proj.Phone)),
		CompanyName:  coalesce(claims.CompanyName, strValue(proj.CompanyName)),

		// A stale false in the claims defers to the store's timestamp; a true
		// minted at login stands even if the row has since changed.
		IsEmailVerified:  claims.IsEmailVerified || proj.EmailVerifiedAt != nil,
		IsMobileVerified: claims.IsMobileVerified || proj.MobileVerifiedAt != nil,

		IsAgent: entity.AccountRole(role) == entity.RoleAgent,
	}

	avatar := coalesce(claims.AvatarURL, strValue(proj.AvatarURL))
	view.Image = avatar
	view.ImageLink = avatar

	return view, nil
}

func coalesce(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
