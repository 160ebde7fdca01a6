package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOTPEmail(t *testing.T) {
	var captured sendGridMailSendRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	mailer := NewSendGridMailer("sg-key", "noreply@topic.app")
	mailer.Endpoint = server.URL

	require.NoError(t, mailer.SendOTPEmail(context.Background(), "student@campus.edu", "123456"))

	assert.Equal(t, "Bearer sg-key", authHeader)
	assert.Equal(t, "noreply@topic.app", captured.From.Email)
	require.Len(t, captured.Personalizations, 1)
	require.Len(t, captured.Personalizations[0].To, 1)
	assert.Equal(t, "student@campus.edu", captured.Personalizations[0].To[0].Email)
	require.Len(t, captured.Content, 1)
	assert.Contains(t, captured.Content[0].Value, "123456")
}

func TestSendOTPEmailErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	mailer := NewSendGridMailer("bad-key", "noreply@topic.app")
	mailer.Endpoint = server.URL

	err := mailer.SendOTPEmail(context.Background(), "student@campus.edu", "123456")
	assert.Error(t, err)
}

func TestSendOTPEmailMissingKey(t *testing.T) {
	mailer := NewSendGridMailer("", "noreply@topic.app")
	err := mailer.SendOTPEmail(context.Background(), "student@campus.edu", "123456")
	assert.Error(t, err)
}
