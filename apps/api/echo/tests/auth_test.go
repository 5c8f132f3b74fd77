package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

type loginResponse struct {
	Token         string `json:"token"`
	ProviderToken string `json:"provider_token"`
	Account       struct {
		UID      string `json:"uid"`
		Email    string `json:"email"`
		Name     string `json:"display_name"`
		Verified bool   `json:"verified"`
	} `json:"account"`
}

func signupBody(name, email, password string) []byte {
	b, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	return b
}

func loginBody(email, password string) []byte {
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	return b
}

func Test_authApi_signup(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/signup", signupBody("T", "t@test.cd", "secret1"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var res loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.Token == "" || res.ProviderToken == "" {
		t.Error("expected both tokens in response")
	}
	if res.Account.Email != "t@test.cd" || res.Account.Name != "T" {
		t.Errorf("account = %+v", res.Account)
	}

	// signup auto-requests verification; the dummy provider verifies on the spot
	acct, err := identitySvc.Lookup(context.Background(), res.ProviderToken)
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if !acct.Verified {
		t.Error("account not verified after signup verification mail")
	}

	// duplicate email
	req, rec = newRequest(http.MethodPost, "/v1/auth/signup", signupBody("T", "t@test.cd", "secret1"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup code = %d, want 400", rec.Code)
	}
}

func Test_authApi_signupValidation(t *testing.T) {
	app := setup(t)

	tests := []httpTest{
		{name: "name required", body: signupBody("", "t@test.cd", "secret1")},
		{name: "email required", body: signupBody("T", "", "secret1")},
		{name: "email invalid", body: signupBody("T", "lol", "secret1")},
		{name: "password too short", body: signupBody("T", "t@test.cd", "lol")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/signup", tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_authApi_login(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/signup", signupBody("T", "t@test.cd", "secret1"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: %s", rec.Body.String())
	}

	tests := []httpTest{
		{
			name: "ok", body: loginBody("t@test.cd", "secret1"), wantCode: http.StatusOK,
		},
		{
			name: "email is case-insensitive", body: loginBody("T@Test.CD", "secret1"), wantCode: http.StatusOK,
		},
		{
			name: "wrong password", body: loginBody("t@test.cd", "lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown email", body: loginBody("who@test.cd", "secret1"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var res loginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if res.Token == "" {
					t.Error("expected a session token")
				}
			} else if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_authApi_resetPassword(t *testing.T) {
	app := setup(t)

	// the response never hints whether the account exists
	body, _ := json.Marshal(map[string]string{"email": "who@test.cd"})
	req, rec := newRequest(http.MethodPost, "/v1/auth/password-reset", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", verifiedToken(t))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.Token == "" {
		t.Error("expected a refreshed token")
	}
}

func Test_authApi_retrieveAccount(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/v1/auth/account")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/auth/account", verifiedToken(t))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res struct {
		UID      string `json:"uid"`
		Email    string `json:"email"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.UID != "acct1" || res.Email != "t@test.cd" || !res.Verified {
		t.Errorf("account = %+v", res)
	}
}
