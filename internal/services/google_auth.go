package services

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrInvalidGoogleToken = errors.New("invalid Google ID token")

// GoogleIdentity is the subset of a verified Google ID token we use.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier validates Google ID tokens against the configured OAuth
// client ID.
type GoogleVerifier struct {
	Audience string
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{Audience: strings.TrimSpace(audience)}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	if v == nil || v.Audience == "" {
		return nil, ErrInvalidGoogleToken
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		return nil, ErrInvalidGoogleToken
	}

	payload, err := idtoken.Validate(ctx, tok, v.Audience)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}

	return &GoogleIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
