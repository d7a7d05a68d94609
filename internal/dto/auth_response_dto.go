package dto

import "time"

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleLoginURLResponse carries the consent URL and the CSRF state bound to it.
type GoogleLoginURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// GoogleCodeExchangeRequest is posted by the frontend after Google redirects back.
type GoogleCodeExchangeRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state"`
}
