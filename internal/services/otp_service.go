package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	appcache "github.com/gauravkatara53/Topic-Backend/internal/cache"
)

const otpTTL = 10 * time.Minute

// OTPService issues and verifies short-lived email verification codes.
// Codes live in the cache under otp:<email> and are single-use.
type OTPService struct {
	cache  appcache.Cache
	mailer Mailer
}

func NewOTPService(cache appcache.Cache, mailer Mailer) *OTPService {
	return &OTPService{cache: cache, mailer: mailer}
}

func otpKey(email string) string {
	return "otp:" + strings.ToLower(strings.TrimSpace(email))
}

// Send generates a fresh 6-digit code, stores it and emails it. A new
// Send replaces any previous unexpired code for the same address.
func (s *OTPService) Send(ctx context.Context, email string) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	if err := s.cache.Set(ctx, otpKey(email), code, otpTTL); err != nil {
		return err
	}

	if err := s.mailer.SendOTPEmail(ctx, email, code); err != nil {
		// Drop the stored code so a failed delivery cannot be verified.
		if delErr := s.cache.Delete(ctx, otpKey(email)); delErr != nil {
			log.Printf("[OTP] failed to clear code for %s: %v", email, delErr)
		}
		return err
	}
	return nil
}

// Verify checks the submitted code and consumes it on success.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	var stored string
	found, err := s.cache.Get(ctx, otpKey(email), &stored)
	if err != nil {
		return err
	}
	if !found || stored != strings.TrimSpace(code) {
		return ErrInvalidOTP
	}

	if err := s.cache.Delete(ctx, otpKey(email)); err != nil {
		log.Printf("[OTP] failed to consume code for %s: %v", email, err)
	}
	return nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
