package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/SscSPs/hr_admin_app/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// tokenService issues operator bearer tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, user.Email, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// googleOAuthHandlerService runs the Google code flow for operators.
type googleOAuthHandlerService struct {
	BaseService
	clientID     string
	oauth2Config *oauth2.Config
	validate     func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		BaseService: BaseService{component: "google_oauth"},
		clientID:    cfg.GoogleClientID,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		validate: idtoken.Validate,
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

func (s *googleOAuthHandlerService) LoginURL(ctx context.Context) (string, string, error) {
	state, err := utils.NewOAuthState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return s.oauth2Config.AuthCodeURL(state), state, nil
}

// ResolveProfile returns *apperrors.AppError for failures the caller can
// report as is: a rejected code (400), an invalid ID token (401) and an
// unreachable Google (504).
func (s *googleOAuthHandlerService) ResolveProfile(ctx context.Context, code string) (*domain.GoogleUserInfo, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured")
	}
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && (rerr.ErrorCode == "invalid_grant" || (rerr.Response != nil && rerr.Response.StatusCode == http.StatusBadRequest)) {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid or expired authorization code.", err)
		}
		return nil, apperrors.NewAppError(http.StatusGatewayTimeout, "Failed to communicate with Google OAuth service.", err)
	}

	if raw, ok := token.Extra("id_token").(string); ok && raw != "" {
		payload, err := s.validate(ctx, raw, s.clientID)
		if err != nil {
			s.LogWarn(ctx, "Google ID token rejected", slog.String("error", err.Error()))
			return nil, apperrors.NewAppError(http.StatusUnauthorized, "Invalid Google ID token", err)
		}
		return profileFromClaims(payload), nil
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusGatewayTimeout, "Failed to fetch Google profile", err)
	}
	return info, nil
}

// profileFromClaims reads the standard OpenID claims of a verified token.
func profileFromClaims(p *idtoken.Payload) *domain.GoogleUserInfo {
	claim := func(k string) string {
		v, _ := p.Claims[k].(string)
		return v
	}
	verified, _ := p.Claims["email_verified"].(bool)
	return &domain.GoogleUserInfo{
		ID:            p.Subject,
		Email:         strings.ToLower(claim("email")),
		VerifiedEmail: verified,
		Name:          claim("name"),
		Picture:       claim("picture"),
	}
}

func (s *googleOAuthHandlerService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var userInfo domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info from google: %w", err)
	}
	return &userInfo, nil
}
