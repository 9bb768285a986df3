package controllers

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/angelmondragon/lockerbox-backend/api/middleware"
	"github.com/angelmondragon/lockerbox-backend/api/responses"
	"github.com/angelmondragon/lockerbox-backend/api/validators"
	"github.com/angelmondragon/lockerbox-backend/internal/auth"
	"github.com/angelmondragon/lockerbox-backend/internal/users"
	pkgAuth "github.com/angelmondragon/lockerbox-backend/pkg/auth"
	"github.com/angelmondragon/lockerbox-backend/pkg/auth/session"
	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/lockerbox-backend/pkg/errors"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

// tokenHeader mirrors the issued access token so machine clients can skip the body.
const tokenHeader = middleware.TokenHeader

type sessionTokenRotator interface {
	Rotate(ctx context.Context, oldAccessID string, userID uint, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthLogin exchanges email and password for an access and refresh token pair.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set(tokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates the account and signs it in (201).
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}
		var body users.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.Header().Set(tokenHeader, result.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogout drops the refresh session bound to the bearer token's jti. Expired
// tokens are accepted.
func AuthLogout(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := sessionClaims(r, manager, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := manager.Revoke(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}
		responses.WriteNoContent(w)
	}
}

// AuthRefresh trades a refresh token plus the (possibly expired) bearer token
// for a new pair. The old session is consumed.
func AuthRefresh(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := sessionClaims(r, manager, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accessID, refreshToken, err := manager.Rotate(r.Context(), claims.ID, claims.UserID, body.RefreshToken)
		switch {
		case stderrors.Is(err, session.ErrInvalidRefreshToken):
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token"))
			return
		case err != nil:
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session"))
			return
		}

		accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			UserID: claims.UserID,
			Email:  claims.Email,
			JTI:    accessID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt"))
			return
		}

		w.Header().Set(tokenHeader, accessToken)
		responses.WriteSuccess(w, refreshResponse{AccessToken: accessToken, RefreshToken: refreshToken})
	}
}

func sessionClaims(r *http.Request, manager sessionTokenRotator, cfg config.JWTConfig) (*pkgAuth.AccessTokenClaims, error) {
	if manager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable")
	}
	token := middleware.BearerToken(r)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims, nil
}
