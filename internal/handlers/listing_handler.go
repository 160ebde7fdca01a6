package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

type ListingHandler struct {
	listingService services.ListingService
}

func NewListingHandler(listingService services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		log.Printf("[CreateListing] Validation errors: %v", errors)
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	listing, err := h.listingService.Create(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrNoImages {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("At least one image is required"))
			return
		}
		if err == services.ErrSellerNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Seller not found"))
			return
		}
		log.Printf("[CreateListing] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create listing"))
		return
	}

	log.Printf("[CreateListing] Listing created: %s by %s", listing.ID, userID)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(listing))
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")

	listing, err := h.listingService.GetByID(r.Context(), listingID)
	if err != nil {
		if err == services.ErrListingNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Listing not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get listing"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listing))
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID := chi.URLParam(r, "listingId")

	var req models.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	listing, err := h.listingService.Update(r.Context(), listingID, userID, &req)
	if err != nil {
		if err == services.ErrListingNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Listing not found"))
			return
		}
		log.Printf("[UpdateListing] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update listing"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listing))
}

func (h *ListingHandler) ReserveListing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID := chi.URLParam(r, "listingId")

	listing, err := h.listingService.Reserve(r.Context(), listingID, userID)
	if err != nil {
		if err == services.ErrSelfReservation {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("You cannot reserve your own listing"))
			return
		}
		if err == services.ErrListingConflict {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Listing is not available for reservation"))
			return
		}
		log.Printf("[ReserveListing] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to reserve listing"))
		return
	}

	log.Printf("[ReserveListing] Listing %s reserved by %s", listingID, userID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listing))
}

func (h *ListingHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	listingID := chi.URLParam(r, "listingId")

	var req models.MarkSoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	txn, err := h.listingService.MarkSold(r.Context(), userID, listingID, &req)
	if err != nil {
		if err == services.ErrListingNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Listing not found"))
			return
		}
		if err == services.ErrAlreadySold {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Listing is already sold"))
			return
		}
		if err == services.ErrNoReservation {
			writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Listing has no buyer reservation"))
			return
		}
		log.Printf("[MarkSold] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to mark listing sold"))
		return
	}

	log.Printf("[MarkSold] Listing %s sold to %s for %.2f", listingID, txn.BuyerID, txn.FinalSellingPrice)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(txn))
}

func (h *ListingHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	q := listingQueryFromRequest(r)

	listings, err := h.listingService.List(r.Context(), q)
	if err != nil {
		log.Printf("[ListListings] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list listings"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listings))
}

func (h *ListingHandler) ListMyListings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	q := listingQueryFromRequest(r)
	q.SellerID = userID

	listings, err := h.listingService.List(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list listings"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listings))
}

func (h *ListingHandler) ListMyPurchases(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	q := listingQueryFromRequest(r)
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.listingService.ListForBuyer(r.Context(), userID, q, page, limit)
	if err != nil {
		log.Printf("[ListMyPurchases] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list purchases"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

func (h *ListingHandler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.listingService.ListTransactions(r.Context(), userID, page, limit)
	if err != nil {
		log.Printf("[ListMyTransactions] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list transactions"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

type listingImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

func (h *ListingHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")

	var req listingImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Image URL is required"))
		return
	}

	listing, err := h.listingService.AddImage(r.Context(), listingID, req.ImageURL)
	if err != nil {
		if err == services.ErrListingNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Listing not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add image"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listing))
}

func (h *ListingHandler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingId")

	var req listingImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Image URL is required"))
		return
	}

	listing, err := h.listingService.RemoveImage(r.Context(), listingID, req.ImageURL)
	if err != nil {
		if err == services.ErrListingNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Listing not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove image"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(listing))
}

func listingQueryFromRequest(r *http.Request) *models.ListingQuery {
	query := r.URL.Query()
	return &models.ListingQuery{
		Search:    strings.TrimSpace(query.Get("search")),
		Category:  strings.TrimSpace(query.Get("category")),
		Condition: strings.TrimSpace(query.Get("condition")),
		Location:  strings.TrimSpace(query.Get("location")),
		Status:    strings.TrimSpace(query.Get("status")),
		MinPrice:  queryFloatPtr(r, "minPrice"),
		MaxPrice:  queryFloatPtr(r, "maxPrice"),
		Sort:      strings.TrimSpace(query.Get("sort")),
	}
}
