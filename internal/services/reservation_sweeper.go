package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gauravkatara53/Topic-Backend/internal/cache"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

// ReservationSweeper periodically reverts listings whose holds have lapsed.
// It runs on a fixed schedule; there is no event-driven trigger.
type ReservationSweeper struct {
	listings ListingService
	caches   cache.ListingInvalidator
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewReservationSweeper(listings ListingService, caches cache.ListingInvalidator, interval time.Duration) *ReservationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReservationSweeper{
		listings: listings,
		caches:   caches,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *ReservationSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Printf("[Sweeper] started, interval=%v", s.interval)

		for {
			select {
			case <-ticker.C:
				if _, err := s.SweepOnce(context.Background()); err != nil {
					log.Printf("[Sweeper] run failed: %v", err)
				}
			case <-s.stopCh:
				log.Printf("[Sweeper] stopping")
				return
			}
		}
	}()
}

func (s *ReservationSweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// SweepOnce processes every lapsed reservation and returns how many were
// expired. Each reservation has its own failure boundary so one bad record
// cannot abort the rest of the run. Idempotent: a second run over the same
// state is a no-op.
func (s *ReservationSweeper) SweepOnce(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	expired, err := s.listings.ExpiredReservations(ctx, now)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, reservation := range expired {
		if err := s.sweepOne(ctx, reservation); err != nil {
			log.Printf("[Sweeper] reservation %s: %v", reservation.ID, err)
			continue
		}
		swept++
	}

	// One invalidation per run, not per item.
	if swept > 0 {
		if err := s.caches.InvalidateSearches(ctx); err != nil {
			log.Printf("[Sweeper] cache invalidation failed: %v", err)
		}
	}
	return swept, nil
}

func (s *ReservationSweeper) sweepOne(ctx context.Context, reservation *models.Reservation) error {
	listing, err := s.listings.GetByID(ctx, reservation.ListingID)
	if err == ErrListingNotFound {
		// Orphaned reservation; mark it expired so we stop revisiting it.
		return s.listings.MarkReservationExpired(ctx, reservation.ID)
	}
	if err != nil {
		return err
	}

	// A sale takes precedence over expiry even when detected late.
	if listing.Status == models.StatusSold {
		return s.listings.MarkReservationExpired(ctx, reservation.ID)
	}

	// Release first: if it fails the reservation stays live and the next
	// run retries, instead of stranding the listing in reserved.
	released, err := s.listings.ReleaseListing(ctx, reservation.ListingID)
	if err != nil {
		return err
	}
	if released {
		log.Printf("[Sweeper] reservation expired for listing %s", reservation.ListingID)
	}
	return s.listings.MarkReservationExpired(ctx, reservation.ID)
}
