package services

import (
	"context"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// TokenSvcFacade issues operator bearer tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken signs a bearer token carrying the user's id and email.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade runs the Google sign-in code flow.
type GoogleOAuthHandlerSvcFacade interface {
	// LoginURL returns the consent URL and the CSRF state bound to it.
	LoginURL(ctx context.Context) (url string, state string, err error)

	// ResolveProfile exchanges an authorization code and returns the
	// operator's Google profile. When Google returns an ID token, the
	// profile is read from its verified claims.
	ResolveProfile(ctx context.Context, code string) (*domain.GoogleUserInfo, error)
}
