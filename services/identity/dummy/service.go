// Package dummyid is an in-memory core.IdentityService for DEV & tests.
package dummyid

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

const serviceName = "identity"

var errEmailTaken = errors.New("an account with this email already exists")

type account struct {
	core.Account
	password string
}

type service struct {
	mu       sync.RWMutex
	accounts map[string]*account // key: email
	tokens   map[string]string   // idToken -> email
	refresh  map[string]string   // refreshToken -> email
}

var _ core.IdentityService = (*service)(nil)

func NewService() core.IdentityService {
	return &service{
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
		refresh:  make(map[string]string),
	}
}

func (svc *service) SignUp(ctx context.Context, email, password, displayName string) (core.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email = core.CleanString(email, true)
	if _, exists := svc.accounts[email]; exists {
		return core.Session{}, core.NewValidationError(errEmailTaken)
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	acct := &account{
		Account:  core.Account{UID: uuid.New().String(), Email: email, DisplayName: displayName},
		password: password,
	}
	svc.accounts[email] = acct
	return svc.newSession(acct), nil
}

func (svc *service) SignIn(ctx context.Context, email, password string) (core.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	acct, ok := svc.accounts[core.CleanString(email, true)]
	if !ok || acct.password != password {
		return core.Session{}, core.ErrAuthenticationFailed
	}
	return svc.newSession(acct), nil
}

func (svc *service) SendVerification(ctx context.Context, idToken string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email, ok := svc.tokens[idToken]
	if !ok {
		return core.ErrAuthenticationFailed
	}
	svc.accounts[email].Verified = true // auto-verify: there is no inbox
	return nil
}

func (svc *service) SendPasswordReset(ctx context.Context, email string) error {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	if _, ok := svc.accounts[core.CleanString(email, true)]; !ok {
		return core.NewExternalServiceError(serviceName, errors.New("EMAIL_NOT_FOUND"))
	}
	return nil
}

func (svc *service) Refresh(ctx context.Context, refreshToken string) (core.Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	email, ok := svc.refresh[refreshToken]
	if !ok {
		return core.Session{}, core.ErrAuthenticationFailed
	}
	return svc.newSession(svc.accounts[email]), nil
}

func (svc *service) Lookup(ctx context.Context, idToken string) (core.Account, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	email, ok := svc.tokens[idToken]
	if !ok {
		return core.Account{}, core.ErrAuthenticationFailed
	}
	return svc.accounts[email].Account, nil
}

func (svc *service) newSession(acct *account) core.Session {
	idToken, refreshToken := uuid.New().String(), uuid.New().String()
	svc.tokens[idToken] = acct.Email
	svc.refresh[refreshToken] = acct.Email
	return core.Session{Account: acct.Account, IDToken: idToken, RefreshToken: refreshToken}
}
