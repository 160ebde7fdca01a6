package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

// listingFixture wires a listing handler over in-memory services with a
// switchable authenticated user.
type listingFixture struct {
	router *chi.Mux
	svc    services.ListingService
	seller *models.User
	buyer  *models.User

	// authAs is the user ID stamped onto requests, empty means anonymous.
	authAs string
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()

	users := services.NewMemoryUserService(nil)
	seller, err := users.Register(context.Background(), &models.RegisterRequest{
		Email: "seller@campus.edu", Password: "secret1", Name: "Seller",
	})
	require.NoError(t, err)
	buyer, err := users.Register(context.Background(), &models.RegisterRequest{
		Email: "buyer@campus.edu", Password: "secret2", Name: "Buyer",
	})
	require.NoError(t, err)

	f := &listingFixture{
		svc:    services.NewMemoryListingService(users, nil),
		seller: seller,
		buyer:  buyer,
	}

	h := NewListingHandler(f.svc)

	r := chi.NewRouter()
	r.Get("/listings", h.ListListings)
	r.Get("/listings/{listingId}", h.GetListing)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), middleware.UserIDKey, f.authAs)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Post("/listings", h.CreateListing)
		r.Put("/listings/{listingId}", h.UpdateListing)
		r.Post("/listings/{listingId}/reserve", h.ReserveListing)
		r.Post("/listings/{listingId}/sold", h.MarkSold)
	})
	f.router = r

	return f
}

func (f *listingFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *listingFixture) createListing(t *testing.T) *models.Listing {
	t.Helper()

	listing, err := f.svc.Create(context.Background(), f.seller.ID, &models.CreateListingRequest{
		Title:     "Study table",
		Price:     700,
		Condition: "used",
		Category:  "furniture",
		Images:    []string{"https://example.com/table.jpg"},
	})
	require.NoError(t, err)
	return listing
}

func createListingBody() map[string]interface{} {
	return map[string]interface{}{
		"title":     "Study table",
		"price":     700,
		"condition": "used",
		"category":  "furniture",
		"images":    []string{"https://example.com/table.jpg"},
	}
}

func TestCreateListingEndpoint(t *testing.T) {
	f := newListingFixture(t)
	f.authAs = f.seller.ID

	rec := f.do(t, http.MethodPost, "/listings", createListingBody())
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateListingEndpointUnauthorized(t *testing.T) {
	f := newListingFixture(t)
	f.authAs = ""

	rec := f.do(t, http.MethodPost, "/listings", createListingBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateListingEndpointValidation(t *testing.T) {
	f := newListingFixture(t)
	f.authAs = f.seller.ID

	body := createListingBody()
	body["images"] = []string{}
	rec := f.do(t, http.MethodPost, "/listings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Errors)
}

func TestGetListingEndpointNotFound(t *testing.T) {
	f := newListingFixture(t)

	rec := f.do(t, http.MethodGet, "/listings/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReserveEndpoint(t *testing.T) {
	f := newListingFixture(t)
	listing := f.createListing(t)

	f.authAs = f.buyer.ID
	rec := f.do(t, http.MethodPost, "/listings/"+listing.ID+"/reserve", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second buyer hits a conflict while the hold is live.
	f.authAs = "someone-else"
	rec = f.do(t, http.MethodPost, "/listings/"+listing.ID+"/reserve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReserveOwnListingEndpoint(t *testing.T) {
	f := newListingFixture(t)
	listing := f.createListing(t)

	f.authAs = f.seller.ID
	rec := f.do(t, http.MethodPost, "/listings/"+listing.ID+"/reserve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMarkSoldEndpoint(t *testing.T) {
	f := newListingFixture(t)
	listing := f.createListing(t)

	_, err := f.svc.Reserve(context.Background(), listing.ID, f.buyer.ID)
	require.NoError(t, err)

	f.authAs = f.seller.ID
	rec := f.do(t, http.MethodPost, "/listings/"+listing.ID+"/sold", map[string]interface{}{
		"final_selling_price": 650,
		"payment_method":      "cash",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Selling again conflicts.
	rec = f.do(t, http.MethodPost, "/listings/"+listing.ID+"/sold", map[string]interface{}{
		"final_selling_price": 650,
		"payment_method":      "cash",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMarkSoldEndpointWithoutReservation(t *testing.T) {
	f := newListingFixture(t)
	listing := f.createListing(t)

	f.authAs = f.seller.ID
	rec := f.do(t, http.MethodPost, "/listings/"+listing.ID+"/sold", map[string]interface{}{
		"final_selling_price": 650,
		"payment_method":      "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListListingsEndpoint(t *testing.T) {
	f := newListingFixture(t)
	f.createListing(t)
	f.createListing(t)

	rec := f.do(t, http.MethodGet, "/listings?category=furniture", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    []*models.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
