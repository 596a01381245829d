package entity

import "time"

type AccountRole string

const (
	RoleUser  AccountRole = "USER"
	RoleAgent AccountRole = "AGENT"
	RoleAdmin AccountRole = "ADMIN"
)

// VerificationChannel selects which verified-at timestamp an OTP login stamps.
type VerificationChannel string

const (
	ChannelEmail  VerificationChannel = "email"
	ChannelMobile VerificationChannel = "mobile"
)

// Account is the identity row. Email, phone and username are each optional;
// which ones are set depends on how the account was registered.
type Account struct {
	Base
	Email            *string     `db:"email"`
	Phone            *string     `db:"phone"`
	Username         *string     `db:"username"`
	PasswordHash     *string     `db:"password"`
	Role             AccountRole `db:"role"`
	CompanyName      *string     `db:"company_name"`
	AvatarURL        *string     `db:"avatar_url"`
	EmailVerifiedAt  *time.Time  `db:"email_verified_at"`
	MobileVerifiedAt *time.Time  `db:"mobile_verified_at"`
}

// AuthProjection is the fixed column set re-read on token refresh and during
// session projection. It is deliberately narrower than Account.
type AuthProjection struct {
	Role             AccountRole `db:"role"`
	AvatarURL        *string     `db:"avatar_url"`
	Username         *string     `db:"username"`
	Phone            *string     `db:"phone"`
	EmailVerifiedAt  *time.Time  `db:"email_verified_at"`
	MobileVerifiedAt *time.Time  `db:"mobile_verified_at"`
	CompanyName      *string     `db:"company_name"`
}

func (a *Account) IsAgent() bool {
	return a.Role == RoleAgent
}
