package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mailer delivers outbound mail. The only current use is OTP codes.
type Mailer interface {
	SendOTPEmail(ctx context.Context, toEmail, code string) error
}

type SendGridMailer struct {
	APIKey     string
	FromEmail  string
	HTTPClient *http.Client
	Endpoint   string
}

func NewSendGridMailer(apiKey string, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		APIKey:    strings.TrimSpace(apiKey),
		FromEmail: strings.TrimSpace(fromEmail),
		Endpoint:  "https://api.sendgrid.com/v3/mail/send",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendGridEmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To      []sendGridEmailAddress `json:"to"`
	Subject string                 `json:"subject"`
}

type sendGridMailSendRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmailAddress      `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

func (m *SendGridMailer) SendOTPEmail(ctx context.Context, toEmail, code string) error {
	if m.APIKey == "" {
		return fmt.Errorf("sendgrid: missing API key")
	}

	body := sendGridMailSendRequest{
		Personalizations: []sendGridPersonalization{
			{
				To:      []sendGridEmailAddress{{Email: toEmail}},
				Subject: "Your verification code",
			},
		},
		From: sendGridEmailAddress{Email: m.FromEmail, Name: "Topic"},
		Content: []sendGridContent{
			{
				Type:  "text/plain",
				Value: fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}
