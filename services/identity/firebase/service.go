// Package firebaseid implements core.IdentityService against the Google
// Identity Toolkit REST API (Firebase Auth). All credential management —
// issuance, password reset, email verification — happens on the provider
// side; this client only relays calls.
package firebaseid

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

const serviceName = "identity"

var errEmailTaken = errors.New("an account with this email already exists")

type service struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

var _ core.IdentityService = (*service)(nil)

func NewService(conf *core.Config) core.IdentityService {
	return &service{
		client:  &http.Client{Timeout: conf.Identity.Timeout},
		baseURL: strings.TrimRight(conf.Identity.BaseURL, "/"),
		apiKey:  conf.Identity.APIKey,
	}
}

func (svc *service) SignUp(ctx context.Context, email, password, displayName string) (core.Session, error) {
	var res struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
	}
	payload := map[string]interface{}{"email": email, "password": password, "returnSecureToken": true}
	if err := svc.post(ctx, "accounts:signUp", payload, &res); err != nil {
		if providerCode(err, "EMAIL_EXISTS") {
			return core.Session{}, core.NewValidationError(errEmailTaken)
		}
		return core.Session{}, err
	}

	if displayName != "" {
		update := map[string]interface{}{"idToken": res.IDToken, "displayName": displayName, "returnSecureToken": true}
		if err := svc.post(ctx, "accounts:update", update, &struct{}{}); err != nil {
			return core.Session{}, err
		}
	}
	// new accounts start unverified; the provider mails the link
	if err := svc.SendVerification(ctx, res.IDToken); err != nil {
		return core.Session{}, err
	}

	sess := core.Session{IDToken: res.IDToken, RefreshToken: res.RefreshToken}
	sess.UID = res.LocalID
	sess.Email = res.Email
	sess.DisplayName = displayName
	return sess, nil
}

func (svc *service) SignIn(ctx context.Context, email, password string) (core.Session, error) {
	var res struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
	}
	payload := map[string]interface{}{"email": email, "password": password, "returnSecureToken": true}
	if err := svc.post(ctx, "accounts:signInWithPassword", payload, &res); err != nil {
		if providerCode(err, "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED") {
			return core.Session{}, core.ErrAuthenticationFailed
		}
		return core.Session{}, err
	}

	acct, err := svc.Lookup(ctx, res.IDToken)
	if err != nil {
		return core.Session{}, err
	}
	return core.Session{Account: acct, IDToken: res.IDToken, RefreshToken: res.RefreshToken}, nil
}

func (svc *service) SendVerification(ctx context.Context, idToken string) error {
	payload := map[string]interface{}{"requestType": "VERIFY_EMAIL", "idToken": idToken}
	return svc.post(ctx, "accounts:sendOobCode", payload, &struct{}{})
}

func (svc *service) SendPasswordReset(ctx context.Context, email string) error {
	payload := map[string]interface{}{"requestType": "PASSWORD_RESET", "email": email}
	return svc.post(ctx, "accounts:sendOobCode", payload, &struct{}{})
}

func (svc *service) Refresh(ctx context.Context, refreshToken string) (core.Session, error) {
	// the token endpoint lives on securetoken; the toolkit hosts both in
	// the emulator, so only the path differs here
	var res struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	payload := map[string]interface{}{"grant_type": "refresh_token", "refresh_token": refreshToken}
	if err := svc.post(ctx, "token", payload, &res); err != nil {
		if providerCode(err, "INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED", "USER_DISABLED") {
			return core.Session{}, core.ErrAuthenticationFailed
		}
		return core.Session{}, err
	}

	acct, err := svc.Lookup(ctx, res.IDToken)
	if err != nil {
		return core.Session{}, err
	}
	return core.Session{Account: acct, IDToken: res.IDToken, RefreshToken: res.RefreshToken}, nil
}

func (svc *service) Lookup(ctx context.Context, idToken string) (core.Account, error) {
	var res struct {
		Users []struct {
			LocalID       string `json:"localId"`
			Email         string `json:"email"`
			DisplayName   string `json:"displayName"`
			EmailVerified bool   `json:"emailVerified"`
		} `json:"users"`
	}
	if err := svc.post(ctx, "accounts:lookup", map[string]interface{}{"idToken": idToken}, &res); err != nil {
		return core.Account{}, err
	}
	if len(res.Users) == 0 {
		return core.Account{}, core.NewExternalServiceError(serviceName, errors.New("account not found"))
	}
	u := res.Users[0]
	name := u.DisplayName
	if name == "" && u.Email != "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	return core.Account{UID: u.LocalID, Email: u.Email, DisplayName: name, Verified: u.EmailVerified}, nil
}

// post sends one JSON call with a single retry on transient failure
// (network error or 5xx/429), per the bounded-retry policy for external
// collaborators.
func (svc *service) post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding identity payload")
	}
	url := fmt.Sprintf("%s/%s?key=%s", svc.baseURL, endpoint, svc.apiKey)

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		retry, err := svc.do(ctx, url, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return core.NewExternalServiceError(serviceName, lastErr)
}

func (svc *service) do(ctx context.Context, url string, body []byte, out interface{}) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return true, err // network error: transient
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var detail struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&detail)
		transient := res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests
		return transient, &providerError{status: res.StatusCode, message: detail.Error.Message}
	}
	return false, json.NewDecoder(res.Body).Decode(out)
}

// providerError is a non-transient rejection from the provider; message
// carries the toolkit error code (e.g. "EMAIL_NOT_FOUND").
type providerError struct {
	status  int
	message string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("identity provider returned %d: %s", e.status, e.message)
}

func providerCode(err error, codes ...string) bool {
	var pErr *providerError
	if !stderrors.As(err, &pErr) {
		return false
	}
	for _, code := range codes {
		if strings.HasPrefix(pErr.message, code) {
			return true
		}
	}
	return false
}
