package response

import "time"

// AuthResponse is returned from login and refresh: the signed token plus the
// identity snapshot it carries.
type AuthResponse struct {
	AccountID        string    `json:"account_id"`
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expires_at"`
	Role             string    `json:"role"`
	Username         string    `json:"username,omitempty"`
	MobileNumber     string    `json:"mobileNumber,omitempty"`
	IsEmailVerified  bool      `json:"isEmailVerified"`
	IsMobileVerified bool      `json:"isMobileVerified"`
	IsAgent          bool      `json:"isAgent"`
	CompanyName      string    `json:"companyName,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
}
