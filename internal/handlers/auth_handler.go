package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

type AuthHandler struct {
	userService    services.UserService
	googleVerifier *services.GoogleVerifier
	otpService     *services.OTPService
	jwtSecret      string
	jwtExpiration  time.Duration
}

func NewAuthHandler(userService services.UserService, googleVerifier *services.GoogleVerifier, otpService *services.OTPService, jwtSecret string, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		googleVerifier: googleVerifier,
		otpService:     otpService,
		jwtSecret:      jwtSecret,
		jwtExpiration:  jwtExpiration,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Email already registered"))
			return
		}
		log.Printf("[Register] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create user"))
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(models.AuthResponse{
		Token: token,
		User:  *user,
	}))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if err == services.ErrUserNotFound || err == services.ErrInvalidPassword {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid email or password"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token: token,
		User:  *user,
	}))
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.googleVerifier == nil {
		writeJSON(w, http.StatusNotImplemented, models.NewErrorResponse("Google sign-in is not configured"))
		return
	}

	var req models.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	identity, err := h.googleVerifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid Google token"))
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(r.Context(), identity.Email, identity.Name, identity.Subject)
	if err != nil {
		log.Printf("[GoogleLogin] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	token, err := h.generateToken(user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to generate token"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.AuthResponse{
		Token: token,
		User:  *user,
	}))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	if h.otpService == nil {
		writeJSON(w, http.StatusNotImplemented, models.NewErrorResponse("Email verification is not configured"))
		return
	}

	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if err := h.otpService.Send(r.Context(), req.Email); err != nil {
		log.Printf("[SendOTP] Failed for %s: %v", req.Email, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send verification code"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "Verification code sent"))
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	if h.otpService == nil {
		writeJSON(w, http.StatusNotImplemented, models.NewErrorResponse("Email verification is not configured"))
		return
	}

	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if err := h.otpService.Verify(r.Context(), req.Email, req.Code); err != nil {
		if err == services.ErrInvalidOTP {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid or expired verification code"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to verify code"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessageResponse(nil, "Email verified"))
}

func (h *AuthHandler) generateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.jwtExpiration).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
