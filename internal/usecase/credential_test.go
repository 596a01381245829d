package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"property-portal/internal/data/entity"
	"property-portal/pkg/gateway"
	"property-portal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newVerifier(t *testing.T, repo *fakeAccountRepo, otp *fakeOTPVerifier, cfg utils.OTPConfig) *CredentialVerifier {
	t.Helper()
	log := zap.NewNop()
	resolver := NewIdentifierResolver(repo)
	tracker := NewVerificationTracker(repo, log)
	return NewCredentialVerifier(resolver, tracker, otp, cfg, log)
}

func passwordAccount(t *testing.T, username, password string) *entity.Account {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &entity.Account{
		Base:         entity.Base{ID: uuid.New()},
		Username:     str(username),
		PasswordHash: &hash,
		Role:         entity.RoleUser,
	}
}

func TestVerifyPassword(t *testing.T) {
	acc := passwordAccount(t, "testuser", "s3cretpw")
	noHash := &entity.Account{Base: entity.Base{ID: uuid.New()}, Username: str("otponly"), Role: entity.RoleUser}

	tests := []struct {
		name string
		cred PasswordCredential
		want bool
	}{
		{"correct password", PasswordCredential{"testuser", "s3cretpw"}, true},
		{"wrong password", PasswordCredential{"testuser", "wrongpw"}, false},
		{"unknown identifier", PasswordCredential{"ghost", "s3cretpw"}, false},
		{"account without password hash", PasswordCredential{"otponly", "s3cretpw"}, false},
		{"empty identifier", PasswordCredential{"", "s3cretpw"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAccountRepo()
			repo.add(acc)
			repo.add(noHash)
			v := newVerifier(t, repo, &fakeOTPVerifier{}, utils.OTPConfig{Length: 6})

			got, err := v.Verify(context.Background(), tt.cred)
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			if tt.want && got == nil {
				t.Fatal("Verify = nil, want account")
			}
			if !tt.want && got != nil {
				t.Fatalf("Verify = %v, want nil", got)
			}
		})
	}
}

// No password supplied means an immediate nil without touching the store or
// attempting a hash compare.
func TestVerifyPasswordMissingSecret(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.add(passwordAccount(t, "testuser", "s3cretpw"))
	v := newVerifier(t, repo, &fakeOTPVerifier{}, utils.OTPConfig{Length: 6})

	got, err := v.Verify(context.Background(), PasswordCredential{Identifier: "+911234567890"})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Verify = %v, want nil", got)
	}
	if repo.lookups != 0 {
		t.Fatalf("expected no store lookups, got %d", repo.lookups)
	}
}

func TestVerifyPasswordStoreFailurePropagates(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.failWith = errors.New("store unreachable")
	v := newVerifier(t, repo, &fakeOTPVerifier{}, utils.OTPConfig{Length: 6})

	_, err := v.Verify(context.Background(), PasswordCredential{"testuser", "s3cretpw"})
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestVerifyOTPFallbackEmailChannel(t *testing.T) {
	repo := newFakeAccountRepo()
	acc := &entity.Account{Base: entity.Base{ID: uuid.New()}, Email: str("user@x.com"), Role: entity.RoleUser}
	repo.add(acc)
	otp := &fakeOTPVerifier{}
	v := newVerifier(t, repo, otp, utils.OTPConfig{Length: 6, FallbackCode: "123456"})

	before := time.Now()
	got, err := v.Verify(context.Background(), OTPCredential{"user@x.com", "123456"})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got == nil {
		t.Fatal("Verify = nil, want account")
	}
	if otp.calls != 0 {
		t.Fatalf("fallback code must bypass the gateway, got %d calls", otp.calls)
	}

	if acc.EmailVerifiedAt == nil {
		t.Fatal("emailVerifiedAt not stamped")
	}
	if acc.EmailVerifiedAt.Before(before) {
		t.Fatalf("stamp %v predates call time %v", acc.EmailVerifiedAt, before)
	}
	if acc.MobileVerifiedAt != nil {
		t.Fatal("mobileVerifiedAt must stay untouched")
	}
}

func TestVerifyOTPFallbackMobileChannel(t *testing.T) {
	repo := newFakeAccountRepo()
	acc := &entity.Account{Base: entity.Base{ID: uuid.New()}, Phone: str("+911234567890"), Role: entity.RoleUser}
	repo.add(acc)
	v := newVerifier(t, repo, &fakeOTPVerifier{}, utils.OTPConfig{Length: 6, FallbackCode: "123456"})

	got, err := v.Verify(context.Background(), OTPCredential{"+911234567890", "123456"})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got == nil {
		t.Fatal("Verify = nil, want account")
	}

	if acc.MobileVerifiedAt == nil {
		t.Fatal("mobileVerifiedAt not stamped")
	}
	if acc.EmailVerifiedAt != nil {
		t.Fatal("emailVerifiedAt must stay untouched")
	}
}

func TestVerifyOTPGateway(t *testing.T) {
	phone := "+911234567890"

	tests := []struct {
		name    string
		result  *gateway.VerifyResult
		err     error
		want    bool
		wantErr bool
	}{
		{"gateway confirms identifier", &gateway.VerifyResult{Success: true, Identifier: phone, Channel: "mobile"}, nil, true, false},
		{"gateway rejects code", &gateway.VerifyResult{Success: false}, nil, false, false},
		{"gateway confirms different identifier", &gateway.VerifyResult{Success: true, Identifier: "+919999999999"}, nil, false, false},
		{"gateway transport failure", nil, errors.New("gateway timeout"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAccountRepo()
			acc := &entity.Account{Base: entity.Base{ID: uuid.New()}, Phone: str(phone), Role: entity.RoleUser}
			repo.add(acc)
			otp := &fakeOTPVerifier{result: tt.result, err: tt.err}
			// No fallback configured: every code goes through the gateway.
			v := newVerifier(t, repo, otp, utils.OTPConfig{Length: 6})

			got, err := v.Verify(context.Background(), OTPCredential{phone, "654321"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected transport error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify returned error: %v", err)
			}
			if tt.want != (got != nil) {
				t.Fatalf("Verify = %v, want success=%v", got, tt.want)
			}
			if otp.calls != 1 {
				t.Fatalf("gateway must be called exactly once, got %d", otp.calls)
			}
			if tt.want && acc.MobileVerifiedAt == nil {
				t.Fatal("mobileVerifiedAt not stamped on gateway success")
			}
		})
	}
}

func TestVerifyOTPRejections(t *testing.T) {
	phone := "+911234567890"

	tests := []struct {
		name string
		cred OTPCredential
	}{
		{"unknown account", OTPCredential{"+910000000000", "123456"}},
		{"short code", OTPCredential{phone, "123"}},
		{"non-numeric code", OTPCredential{phone, "12a456"}},
		{"empty identifier", OTPCredential{"", "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAccountRepo()
			repo.add(&entity.Account{Base: entity.Base{ID: uuid.New()}, Phone: str(phone), Role: entity.RoleUser})
			otp := &fakeOTPVerifier{result: &gateway.VerifyResult{Success: true, Identifier: tt.cred.Identifier}}
			v := newVerifier(t, repo, otp, utils.OTPConfig{Length: 6, FallbackCode: "123456"})

			got, err := v.Verify(context.Background(), tt.cred)
			if err != nil {
				t.Fatalf("rejection must not be an error, got %v", err)
			}
			if got != nil {
				t.Fatalf("Verify = %v, want nil", got)
			}
			if len(repo.verifications) != 0 {
				t.Fatal("no verification stamp expected on rejection")
			}
		})
	}
}

// OTP login never creates an account, and a missing account never reaches the
// gateway.
func TestVerifyOTPUnknownAccountSkipsGateway(t *testing.T) {
	repo := newFakeAccountRepo()
	otp := &fakeOTPVerifier{result: &gateway.VerifyResult{Success: true, Identifier: "+911234567890"}}
	v := newVerifier(t, repo, otp, utils.OTPConfig{Length: 6})

	got, err := v.Verify(context.Background(), OTPCredential{"+911234567890", "654321"})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Verify = %v, want nil", got)
	}
	if otp.calls != 0 {
		t.Fatalf("gateway must not be called for unknown accounts, got %d", otp.calls)
	}
}

// The lookup succeeds but the stamp write fails: the failure must surface as
// a transport error, not get swallowed into a rejection.
func TestVerifyOTPStampFailurePropagates(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.add(&entity.Account{Base: entity.Base{ID: uuid.New()}, Email: str("user@x.com"), Role: entity.RoleUser})
	stamper := &stampFailRepo{fakeAccountRepo: repo}

	log := zap.NewNop()
	v := NewCredentialVerifier(
		NewIdentifierResolver(stamper),
		NewVerificationTracker(stamper, log),
		&fakeOTPVerifier{},
		utils.OTPConfig{Length: 6, FallbackCode: "123456"},
		log,
	)

	_, err := v.Verify(context.Background(), OTPCredential{"user@x.com", "123456"})
	if err == nil {
		t.Fatal("expected transport error from verification stamp")
	}
}

type stampFailRepo struct {
	*fakeAccountRepo
}

func (s *stampFailRepo) UpdateVerification(ctx context.Context, id uuid.UUID, channel entity.VerificationChannel, verifiedAt time.Time) error {
	return errors.New("store unreachable")
}
