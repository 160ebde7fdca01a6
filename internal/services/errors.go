package services

import "errors"

// Listing lifecycle errors. Handlers map these onto the HTTP surface:
// invalid input -> 400, not found -> 404, conflict -> 409, invalid state -> 422.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrListingConflict = errors.New("listing is already reserved or sold")
	ErrSelfReservation = errors.New("seller cannot reserve their own listing")
	ErrAlreadySold     = errors.New("listing already sold")
	ErrNoReservation   = errors.New("listing has no reservation")
	ErrNoImages        = errors.New("at least one image is required")
	ErrSellerNotFound  = errors.New("seller not found")
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidOTP      = errors.New("invalid or expired code")
)

var (
	ErrNoteNotFound  = errors.New("note not found")
	ErrPaperNotFound = errors.New("question paper not found")
	ErrNewsNotFound  = errors.New("news post not found")
)
