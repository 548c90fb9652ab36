package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a token to one wizard session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// StartResponse is returned when a new session is opened
type StartResponse struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	Session   *SessionView `json:"session"`
}
