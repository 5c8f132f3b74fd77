package core

import "context"

// Account is the identity-provider view of a user. The core pipeline only
// ever consumes the UID (and the Verified flag at the API boundary);
// credential management lives entirely with the provider.
type Account struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Verified    bool   `json:"verified"`
}

// Session is a provider-issued authentication session.
type Session struct {
	Account
	IDToken      string `json:"-"`
	RefreshToken string `json:"-"`
}

// IdentityService is the external identity collaborator (credential
// issuance, password reset and email verification are delegated to it).
// Calls block with a bounded timeout and a single retry on transient
// failure; failures surface as ExternalServiceError.
type IdentityService interface {
	SignUp(ctx context.Context, email, password, displayName string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SendVerification(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Lookup(ctx context.Context, idToken string) (Account, error)
}
