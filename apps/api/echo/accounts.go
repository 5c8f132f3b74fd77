package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

type authApi struct {
	identity core.IdentityService
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, identity core.IdentityService) {
	api := authApi{identity: identity}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login` & `/password-reset`
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.POST("/token-refresh", api.refreshToken)
	tg.POST("/verify-email", api.verifyEmail)
	tg.GET("/account", api.retrieveAccount)
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data SignupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.identity.SignUp(ctx.Request().Context(), data.Email, data.Password, data.Name)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}

	// best effort; the client can request a resend via /verify-email
	if vErr := api.identity.SendVerification(ctx.Request().Context(), sess.IDToken); vErr != nil {
		ctx.Logger().Errorf("%+v", errors.Wrap(vErr, "sending verification email"))
	}

	token, err := GenerateToken(GetAccountClaims(sess.Account))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, LoginResponse{
		Token:         token,
		ProviderToken: sess.IDToken,
		Account:       sess.Account,
	})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.identity.SignIn(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == core.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "signing in")
	}

	token, err := GenerateToken(GetAccountClaims(sess.Account))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:         token,
		ProviderToken: sess.IDToken,
		Account:       sess.Account,
	})
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.identity.SendPasswordReset(ctx.Request().Context(), data.Email); err != nil {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (api *authApi) verifyEmail(ctx echo.Context) error {
	var data VerifyEmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifyEmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.identity.SendVerification(ctx.Request().Context(), data.ProviderToken); err != nil {
		if errors.Cause(err) == core.ErrAuthenticationFailed {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "sending verification email")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Verification email sent."})
}

func (api *authApi) retrieveAccount(ctx echo.Context) error {
	acct, err := contextAccount(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}
	return ctx.JSON(http.StatusOK, acct)
}

type (
	SignupRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token         string       `json:"token"`
		ProviderToken string       `json:"provider_token,omitempty"`
		Account       core.Account `json:"account"`
	}

	TokenResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	VerifyEmailRequest struct {
		ProviderToken string `json:"provider_token" validate:"required"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (sr *SignupRequest) Validate() error {
	sr.Name = core.CleanString(sr.Name)
	sr.Email = core.CleanString(sr.Email, true /* lower */)
	return core.Validate.Struct(sr)
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

func (vr *VerifyEmailRequest) Validate() error {
	vr.ProviderToken = core.CleanString(vr.ProviderToken)
	return core.Validate.Struct(vr)
}
