package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/storage"
)

// ListingService owns the marketplace listing lifecycle: creation, seller
// edits, reservation, sale and the reservation/transaction bookkeeping that
// accompanies each transition. It is the sole writer of Listing.Status.
type ListingService interface {
	Create(ctx context.Context, sellerID string, req *models.CreateListingRequest) (*models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Update(ctx context.Context, listingID, sellerID string, req *models.UpdateListingRequest) (*models.Listing, error)
	Reserve(ctx context.Context, listingID, buyerID string) (*models.Listing, error)
	MarkSold(ctx context.Context, sellerID, listingID string, req *models.MarkSoldRequest) (*models.Transaction, error)
	List(ctx context.Context, q *models.ListingQuery) ([]*models.Listing, error)
	ListForBuyer(ctx context.Context, userID string, q *models.ListingQuery, page, limit int) (*models.ListingPage, error)
	ListTransactions(ctx context.Context, userID string, page, limit int) (*models.TransactionPage, error)
	AddImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error)
	RemoveImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error)

	// Sweeper support.
	ExpiredReservations(ctx context.Context, now time.Time) ([]*models.Reservation, error)
	MarkReservationExpired(ctx context.Context, reservationID string) error
	ReleaseListing(ctx context.Context, listingID string) (bool, error)
}

// reservationTTL is how long a buyer's hold stays live.
const reservationTTL = 24 * time.Hour

// MemoryListingService is the in-memory ListingService used in tests and
// cache-less local runs. Optionally persists through a JSONStore.
type MemoryListingService struct {
	mu           sync.RWMutex
	listings     map[string]*models.Listing
	reservations map[string]*models.Reservation
	transactions map[string]*models.Transaction
	users        UserService
	store        *storage.JSONStore
}

type listingSnapshot struct {
	Listings     map[string]*models.Listing     `json:"listings"`
	Reservations map[string]*models.Reservation `json:"reservations"`
	Transactions map[string]*models.Transaction `json:"transactions"`
}

func NewMemoryListingService(users UserService, store *storage.JSONStore) *MemoryListingService {
	s := &MemoryListingService{
		listings:     make(map[string]*models.Listing),
		reservations: make(map[string]*models.Reservation),
		transactions: make(map[string]*models.Transaction),
		users:        users,
		store:        store,
	}
	if store != nil {
		var snap listingSnapshot
		if err := store.Load(&snap); err == nil {
			if snap.Listings != nil {
				s.listings = snap.Listings
			}
			if snap.Reservations != nil {
				s.reservations = snap.Reservations
			}
			if snap.Transactions != nil {
				s.transactions = snap.Transactions
			}
		}
	}
	return s
}

// persist is best-effort; callers hold the write lock.
func (s *MemoryListingService) persist() {
	if s.store == nil {
		return
	}
	_ = s.store.Save(listingSnapshot{
		Listings:     s.listings,
		Reservations: s.reservations,
		Transactions: s.transactions,
	})
}

func (s *MemoryListingService) Create(ctx context.Context, sellerID string, req *models.CreateListingRequest) (*models.Listing, error) {
	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}

	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, ErrSellerNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:             uuid.New().String(),
		SellerID:       sellerID,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Condition:      req.Condition,
		Category:       req.Category,
		Location:       req.Location,
		Images:         append([]string{}, req.Images...),
		UpiID:          req.UpiID,
		AllowCash:      req.AllowCash,
		ContactName:    seller.Name,
		ContactEmail:   seller.Email,
		ContactNumber:  seller.Number,
		WhatsappNumber: req.WhatsappNumber,
		Status:         models.StatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.listings[listing.ID] = listing
	s.persist()
	return copyListing(listing), nil
}

func (s *MemoryListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, exists := s.listings[id]
	if !exists {
		return nil, ErrListingNotFound
	}
	return copyListing(listing), nil
}

func (s *MemoryListingService) Update(ctx context.Context, listingID, sellerID string, req *models.UpdateListingRequest) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, exists := s.listings[listingID]
	if !exists || listing.SellerID != sellerID {
		return nil, ErrListingNotFound
	}

	applyListingUpdate(listing, req)
	listing.UpdatedAt = time.Now().UTC()
	s.persist()
	return copyListing(listing), nil
}

func (s *MemoryListingService) Reserve(ctx context.Context, listingID, buyerID string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	listing, exists := s.listings[listingID]
	if !exists {
		return nil, ErrListingConflict
	}
	if listing.SellerID == buyerID {
		return nil, ErrSelfReservation
	}
	if !reservable(listing, now) {
		return nil, ErrListingConflict
	}

	expiresAt := now.Add(reservationTTL)
	listing.Status = models.StatusReserved
	listing.ReservedBy = &buyerID
	listing.ReservedAt = &now
	listing.ReservationExpiresAt = &expiresAt
	listing.UpdatedAt = now

	reservation := &models.Reservation{
		ID:         uuid.New().String(),
		ListingID:  listingID,
		BuyerID:    buyerID,
		ReservedAt: now,
		ExpiresAt:  expiresAt,
		IsExpired:  false,
		CreatedAt:  now,
	}
	s.reservations[reservation.ID] = reservation
	s.persist()

	return copyListing(listing), nil
}

func (s *MemoryListingService) MarkSold(ctx context.Context, sellerID, listingID string, req *models.MarkSoldRequest) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, exists := s.listings[listingID]
	if !exists || listing.SellerID != sellerID {
		return nil, ErrListingNotFound
	}
	if listing.Status == models.StatusSold {
		return nil, ErrAlreadySold
	}
	if listing.ReservedBy == nil {
		return nil, ErrNoReservation
	}

	now := time.Now().UTC()
	buyerID := *listing.ReservedBy

	listing.Status = models.StatusSold
	listing.FinalPrice = &req.FinalSellingPrice
	listing.SoldAt = &now
	listing.UpdatedAt = now

	txn := &models.Transaction{
		ID:                uuid.New().String(),
		ListingID:         listingID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		FinalSellingPrice: req.FinalSellingPrice,
		PaymentMethod:     req.PaymentMethod,
		TransactionID:     upiTransactionID(req),
		SoldAt:            now,
		CreatedAt:         now,
	}
	s.transactions[txn.ID] = txn
	s.persist()

	return copyTransaction(txn), nil
}

func (s *MemoryListingService) List(ctx context.Context, q *models.ListingQuery) ([]*models.Listing, error) {
	if q == nil {
		q = &models.ListingQuery{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*models.Listing
	for _, listing := range s.listings {
		if matchesQuery(listing, q) {
			results = append(results, copyListing(listing))
		}
	}
	sortListings(results, q.Sort)
	if results == nil {
		results = []*models.Listing{}
	}
	return results, nil
}

func (s *MemoryListingService) ListForBuyer(ctx context.Context, userID string, q *models.ListingQuery, page, limit int) (*models.ListingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, limit = normalizePage(page, limit)

	var matched []*models.Listing
	for _, listing := range s.listings {
		if listing.ReservedBy == nil || *listing.ReservedBy != userID {
			continue
		}
		if matchesQuery(listing, q) {
			matched = append(matched, copyListing(listing))
		}
	}
	sortListings(matched, q.Sort)

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return &models.ListingPage{
		Listings:   matched[start:end],
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *MemoryListingService) ListTransactions(ctx context.Context, userID string, page, limit int) (*models.TransactionPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, limit = normalizePage(page, limit)

	var matched []*models.TransactionView
	for _, txn := range s.transactions {
		if txn.BuyerID != userID && txn.SellerID != userID {
			continue
		}
		matched = append(matched, &models.TransactionView{
			Transaction: *copyTransaction(txn),
			Credit:      txn.SellerID == userID,
			Debit:       txn.BuyerID == userID,
		})
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SoldAt.After(matched[j].SoldAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return &models.TransactionPage{
		Transactions: matched[start:end],
		TotalCount:   total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages(total, limit),
	}, nil
}

func (s *MemoryListingService) AddImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, exists := s.listings[listingID]
	if !exists {
		return nil, ErrListingNotFound
	}
	listing.Images = append(listing.Images, imageURL)
	listing.UpdatedAt = time.Now().UTC()
	s.persist()
	return copyListing(listing), nil
}

func (s *MemoryListingService) RemoveImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, exists := s.listings[listingID]
	if !exists {
		return nil, ErrListingNotFound
	}

	kept := listing.Images[:0]
	for _, url := range listing.Images {
		if url != imageURL {
			kept = append(kept, url)
		}
	}
	listing.Images = kept
	listing.UpdatedAt = time.Now().UTC()
	s.persist()
	return copyListing(listing), nil
}

func (s *MemoryListingService) ExpiredReservations(ctx context.Context, now time.Time) ([]*models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []*models.Reservation
	for _, r := range s.reservations {
		if !r.IsExpired && r.ExpiresAt.Before(now) {
			c := *r
			expired = append(expired, &c)
		}
	}
	return expired, nil
}

func (s *MemoryListingService) MarkReservationExpired(ctx context.Context, reservationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.reservations[reservationID]
	if !exists {
		return nil
	}
	r.IsExpired = true
	s.persist()
	return nil
}

// ReleaseListing reverts a reserved listing to available, clearing the hold
// fields. It is a no-op on sold (or otherwise non-reserved) listings; the
// bool reports whether a release happened.
func (s *MemoryListingService) ReleaseListing(ctx context.Context, listingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, exists := s.listings[listingID]
	if !exists || listing.Status != models.StatusReserved {
		return false, nil
	}

	listing.Status = models.StatusAvailable
	listing.ReservedBy = nil
	listing.ReservedAt = nil
	listing.ReservationExpiresAt = nil
	listing.UpdatedAt = time.Now().UTC()
	s.persist()
	return true, nil
}

/// reservable reports whether a listing can take a new hold: not sold or
// inactive, and any existing hold already past its expiry.
func reservable(listing *models.Listing, now time.Time) bool {
	if listing.Status != models.StatusAvailable && listing.Status != models.StatusReserved {
		return false
	}
	if listing.ReservedBy == nil {
		return true
	}
	return listing.ReservationExpiresAt != nil && listing.ReservationExpiresAt.Before(now)
}

// upiTransactionID returns the transaction reference to persist: only UPI
// sales carry one, cash is forced to nil regardless of input.
func upiTransactionID(req *models.MarkSoldRequest) *string {
	if req.PaymentMethod == models.PaymentUPI && req.TransactionID != "" {
		id := req.TransactionID
		return &id
	}
	return nil
}

func applyListingUpdate(listing *models.Listing, req *models.UpdateListingRequest) {
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Condition != nil {
		listing.Condition = *req.Condition
	}
	if req.Category != nil {
		listing.Category = *req.Category
	}
	if req.Location != nil {
		listing.Location = *req.Location
	}
	if req.UpiID != nil {
		listing.UpiID = *req.UpiID
	}
	if req.AllowCash != nil {
		listing.AllowCash = *req.AllowCash
	}
	if req.WhatsappNumber != nil {
		listing.WhatsappNumber = *req.WhatsappNumber
	}
	if req.Status != nil {
		listing.Status = *req.Status
	}
}

func matchesQuery(listing *models.Listing, q *models.ListingQuery) bool {
	if q == nil {
		return true
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(listing.Title), needle) &&
			!strings.Contains(strings.ToLower(listing.Description), needle) {
			return false
		}
	}
	if q.Category != "" && listing.Category != q.Category {
		return false
	}
	if q.Condition != "" && listing.Condition != q.Condition {
		return false
	}
	if q.Location != "" && !strings.Contains(strings.ToLower(listing.Location), strings.ToLower(q.Location)) {
		return false
	}
	if q.Status != "" && listing.Status != q.Status {
		return false
	}
	if q.SellerID != "" && listing.SellerID != q.SellerID {
		return false
	}
	if q.MinPrice != nil && listing.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && listing.Price > *q.MaxPrice {
		return false
	}
	return true
}

func sortListings(listings []*models.Listing, sortKey string) {
	switch sortKey {
	case "price_asc":
		sort.Slice(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	case "price_desc":
		sort.Slice(listings, func(i, j int) bool { return listings[i].Price > listings[j].Price })
	default: // latest
		sort.Slice(listings, func(i, j int) bool { return listings[i].CreatedAt.After(listings[j].CreatedAt) })
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

func copyListing(l *models.Listing) *models.Listing {
	c := *l
	c.Images = append([]string{}, l.Images...)
	return &c
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	c := *t
	return &c
}
