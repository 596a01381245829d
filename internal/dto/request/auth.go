package request

// LoginRequest carries one identifier and at most one secret. Password and
// OTP are optional on purpose: a missing secret is a credential rejection,
// not a validation error, so identifier probing cannot tell the two apart.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password,omitempty"`
	OTP        string `json:"otp,omitempty" validate:"omitempty,numeric"`
	LoginType  string `json:"loginType" validate:"required,oneof=password otp"`
}

type RefreshRequest struct {
	Trigger string `json:"trigger,omitempty" validate:"omitempty,oneof=update"`
}
