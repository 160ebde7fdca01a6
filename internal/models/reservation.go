package models

import (
	"time"
)

// Reservation is one buyer's 24h hold on one listing. Many reservations
// may exist historically per listing; only the listing carries the live hold.
// Reservations are never deleted — the sweeper flips IsExpired instead.
type Reservation struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	BuyerID    string    `json:"buyer_id"`
	ReservedAt time.Time `json:"reserved_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsExpired  bool      `json:"is_expired"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsActive reports whether the hold is still live.
func (r *Reservation) IsActive(now time.Time) bool {
	return !r.IsExpired && now.Before(r.ExpiresAt)
}
