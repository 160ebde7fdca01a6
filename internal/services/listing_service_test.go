package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

func newTestListingService(t *testing.T) (*MemoryListingService, *models.User, *models.User) {
	t.Helper()

	users := NewMemoryUserService(nil)
	seller, err := users.Register(context.Background(), &models.RegisterRequest{
		Email:    "seller@campus.edu",
		Password: "secret1",
		Name:     "Seller",
		Number:   "9999999999",
	})
	require.NoError(t, err)

	buyer, err := users.Register(context.Background(), &models.RegisterRequest{
		Email:    "buyer@campus.edu",
		Password: "secret2",
		Name:     "Buyer",
	})
	require.NoError(t, err)

	return NewMemoryListingService(users, nil), seller, buyer
}

func testCreateRequest() *models.CreateListingRequest {
	return &models.CreateListingRequest{
		Title:     "Data Structures textbook",
		Price:     250,
		Condition: "used",
		Category:  "books",
		Location:  "Hostel C",
		Images:    []string{"https://example.com/book.jpg"},
		UpiID:     "seller@upi",
		AllowCash: true,
	}
}

func TestCreateListing(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusAvailable, listing.Status)
	assert.Equal(t, seller.ID, listing.SellerID)
	assert.Nil(t, listing.ReservedBy)
	assert.Nil(t, listing.FinalPrice)
	assert.Nil(t, listing.SoldAt)

	// Seller contact snapshot is copied onto the listing.
	assert.Equal(t, "Seller", listing.ContactName)
	assert.Equal(t, "seller@campus.edu", listing.ContactEmail)
	assert.Equal(t, "9999999999", listing.ContactNumber)
}

func TestCreateListingRequiresImages(t *testing.T) {
	svc, seller, _ := newTestListingService(t)

	req := testCreateRequest()
	req.Images = nil
	_, err := svc.Create(context.Background(), seller.ID, req)
	assert.ErrorIs(t, err, ErrNoImages)
}

func TestCreateListingUnknownSeller(t *testing.T) {
	svc, _, _ := newTestListingService(t)

	_, err := svc.Create(context.Background(), "missing-user", testCreateRequest())
	assert.ErrorIs(t, err, ErrSellerNotFound)
}

func TestReserveListing(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	reserved, err := svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusReserved, reserved.Status)
	require.NotNil(t, reserved.ReservedBy)
	assert.Equal(t, buyer.ID, *reserved.ReservedBy)
	require.NotNil(t, reserved.ReservationExpiresAt)
	assert.WithinDuration(t, time.Now().Add(reservationTTL), *reserved.ReservationExpiresAt, time.Minute)
}

func TestReserveOwnListing(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, listing.ID, seller.ID)
	assert.ErrorIs(t, err, ErrSelfReservation)
}

func TestReserveAlreadyReserved(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, listing.ID, "another-buyer")
	assert.ErrorIs(t, err, ErrListingConflict)
}

func TestReserveAfterHoldLapsed(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	// Backdate the hold past its expiry. An expired hold must not block a
	// new buyer even before the sweeper has run.
	past := time.Now().UTC().Add(-time.Hour)
	svc.mu.Lock()
	svc.listings[listing.ID].ReservationExpiresAt = &past
	svc.mu.Unlock()

	reserved, err := svc.Reserve(ctx, listing.ID, "second-buyer")
	require.NoError(t, err)
	require.NotNil(t, reserved.ReservedBy)
	assert.Equal(t, "second-buyer", *reserved.ReservedBy)
}

func TestReserveMissingListing(t *testing.T) {
	svc, _, buyer := newTestListingService(t)

	_, err := svc.Reserve(context.Background(), "no-such-listing", buyer.ID)
	assert.ErrorIs(t, err, ErrListingConflict)
}

func TestMarkSold(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	txn, err := svc.MarkSold(ctx, seller.ID, listing.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 200,
		PaymentMethod:     models.PaymentUPI,
		TransactionID:     "upi-ref-123",
	})
	require.NoError(t, err)

	assert.Equal(t, buyer.ID, txn.BuyerID)
	assert.Equal(t, seller.ID, txn.SellerID)
	assert.Equal(t, 200.0, txn.FinalSellingPrice)
	require.NotNil(t, txn.TransactionID)
	assert.Equal(t, "upi-ref-123", *txn.TransactionID)

	sold, err := svc.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSold, sold.Status)
	require.NotNil(t, sold.FinalPrice)
	assert.Equal(t, 200.0, *sold.FinalPrice)
	assert.NotNil(t, sold.SoldAt)
}

func TestMarkSoldCashHasNoTransactionID(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	// A cash sale drops any transaction reference the client sends.
	txn, err := svc.MarkSold(ctx, seller.ID, listing.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 180,
		PaymentMethod:     models.PaymentCash,
		TransactionID:     "should-be-ignored",
	})
	require.NoError(t, err)
	assert.Nil(t, txn.TransactionID)
}

func TestMarkSoldWithoutReservation(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	_, err = svc.MarkSold(ctx, seller.ID, listing.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 200,
		PaymentMethod:     models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrNoReservation)
}

func TestMarkSoldTwice(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	req := &models.MarkSoldRequest{FinalSellingPrice: 200, PaymentMethod: models.PaymentCash}
	_, err = svc.MarkSold(ctx, seller.ID, listing.ID, req)
	require.NoError(t, err)

	_, err = svc.MarkSold(ctx, seller.ID, listing.ID, req)
	assert.ErrorIs(t, err, ErrAlreadySold)
}

func TestMarkSoldWrongSeller(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)

	_, err = svc.MarkSold(ctx, buyer.ID, listing.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 200,
		PaymentMethod:     models.PaymentCash,
	})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestUpdateListing(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	newTitle := "Algorithms textbook"
	newPrice := 300.0
	updated, err := svc.Update(ctx, listing.ID, seller.ID, &models.UpdateListingRequest{
		Title: &newTitle,
		Price: &newPrice,
	})
	require.NoError(t, err)

	assert.Equal(t, "Algorithms textbook", updated.Title)
	assert.Equal(t, 300.0, updated.Price)
	// Untouched fields survive a partial update.
	assert.Equal(t, "used", updated.Condition)
	assert.Equal(t, "books", updated.Category)
}

func TestUpdateListingOwnerScoped(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	title := "hijacked"
	_, err = svc.Update(ctx, listing.ID, buyer.ID, &models.UpdateListingRequest{Title: &title})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListFiltersAndSort(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	cheap := testCreateRequest()
	cheap.Title = "Cheap calculator"
	cheap.Category = "electronics"
	cheap.Price = 100
	_, err := svc.Create(ctx, seller.ID, cheap)
	require.NoError(t, err)

	pricey := testCreateRequest()
	pricey.Title = "Gaming laptop"
	pricey.Category = "electronics"
	pricey.Price = 30000
	_, err = svc.Create(ctx, seller.ID, pricey)
	require.NoError(t, err)

	book := testCreateRequest()
	_, err = svc.Create(ctx, seller.ID, book)
	require.NoError(t, err)

	electronics, err := svc.List(ctx, &models.ListingQuery{Category: "electronics", Sort: "price_asc"})
	require.NoError(t, err)
	require.Len(t, electronics, 2)
	assert.Equal(t, "Cheap calculator", electronics[0].Title)
	assert.Equal(t, "Gaming laptop", electronics[1].Title)

	maxPrice := 500.0
	affordable, err := svc.List(ctx, &models.ListingQuery{MaxPrice: &maxPrice})
	require.NoError(t, err)
	assert.Len(t, affordable, 2)

	matches, err := svc.List(ctx, &models.ListingQuery{Search: "laptop"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Gaming laptop", matches[0].Title)
}

func TestListNilQuery(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListForBuyer(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	second, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, first.ID, buyer.ID)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, second.ID, buyer.ID)
	require.NoError(t, err)

	// The buyer view covers reserved listings and, after a sale, purchases.
	_, err = svc.MarkSold(ctx, seller.ID, second.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 150,
		PaymentMethod:     models.PaymentCash,
	})
	require.NoError(t, err)

	page, err := svc.ListForBuyer(ctx, buyer.ID, &models.ListingQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Len(t, page.Listings, 2)

	paged, err := svc.ListForBuyer(ctx, buyer.ID, &models.ListingQuery{}, 2, 1)
	require.NoError(t, err)
	assert.Len(t, paged.Listings, 1)
	assert.Equal(t, 2, paged.TotalPages)
}

func TestListTransactions(t *testing.T) {
	svc, seller, buyer := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, listing.ID, buyer.ID)
	require.NoError(t, err)
	_, err = svc.MarkSold(ctx, seller.ID, listing.ID, &models.MarkSoldRequest{
		FinalSellingPrice: 150,
		PaymentMethod:     models.PaymentCash,
	})
	require.NoError(t, err)

	sellerPage, err := svc.ListTransactions(ctx, seller.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, sellerPage.Transactions, 1)
	assert.True(t, sellerPage.Transactions[0].Credit)
	assert.False(t, sellerPage.Transactions[0].Debit)

	buyerPage, err := svc.ListTransactions(ctx, buyer.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, buyerPage.Transactions, 1)
	assert.False(t, buyerPage.Transactions[0].Credit)
	assert.True(t, buyerPage.Transactions[0].Debit)

	otherPage, err := svc.ListTransactions(ctx, "stranger", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, otherPage.Transactions)
}

func TestAddRemoveImage(t *testing.T) {
	svc, seller, _ := newTestListingService(t)
	ctx := context.Background()

	listing, err := svc.Create(ctx, seller.ID, testCreateRequest())
	require.NoError(t, err)

	updated, err := svc.AddImage(ctx, listing.ID, "https://example.com/extra.jpg")
	require.NoError(t, err)
	assert.Len(t, updated.Images, 2)

	updated, err = svc.RemoveImage(ctx, listing.ID, "https://example.com/extra.jpg")
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
}
