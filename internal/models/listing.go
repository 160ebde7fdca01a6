package models

import (
	"time"
)

// Listing statuses. A listing is never hard-deleted by the lifecycle;
// it moves to "inactive" or "sold" instead.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
	StatusInactive  = "inactive"
)

const (
	PaymentUPI  = "upi"
	PaymentCash = "cash"
)

type Listing struct {
	ID          string   `json:"id"`
	SellerID    string   `json:"seller_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Condition   string   `json:"condition"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
	UpiID       string   `json:"upi_id,omitempty"`
	AllowCash   bool     `json:"allow_cash"`

	// Contact snapshot copied from the seller record at creation time.
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactNumber  string `json:"contact_number,omitempty"`
	WhatsappNumber string `json:"whatsapp_number,omitempty"`

	// Lifecycle. ReservedBy is set iff Status == reserved;
	// FinalPrice and SoldAt are set iff Status == sold.
	Status               string     `json:"status"`
	ReservedBy           *string    `json:"reserved_by,omitempty"`
	ReservedAt           *time.Time `json:"reserved_at,omitempty"`
	ReservationExpiresAt *time.Time `json:"reservation_expires_at,omitempty"`
	FinalPrice           *float64   `json:"final_price,omitempty"`
	SoldAt               *time.Time `json:"sold_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateListingRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Condition      string   `json:"condition"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	Images         []string `json:"images"`
	UpiID          string   `json:"upi_id"`
	AllowCash      bool     `json:"allow_cash"`
	WhatsappNumber string   `json:"whatsapp_number"`
}

// UpdateListingRequest carries the seller-editable fields. Nil means
// "leave unchanged"; everything else on a listing is immutable via this path.
type UpdateListingRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	Condition      *string  `json:"condition"`
	Category       *string  `json:"category"`
	Location       *string  `json:"location"`
	UpiID          *string  `json:"upi_id"`
	AllowCash      *bool    `json:"allow_cash"`
	WhatsappNumber *string  `json:"whatsapp_number"`
	Status         *string  `json:"status"`
}

type MarkSoldRequest struct {
	FinalSellingPrice float64 `json:"final_selling_price"`
	PaymentMethod     string  `json:"payment_method"`
	TransactionID     string  `json:"transaction_id"`
}

// ListingQuery is the buyer/seller browse filter set. Sort is one of
// price_asc, price_desc, latest (default).
type ListingQuery struct {
	Search    string   `json:"search"`
	Category  string   `json:"category"`
	Condition string   `json:"condition"`
	Location  string   `json:"location"`
	MinPrice  *float64 `json:"min_price"`
	MaxPrice  *float64 `json:"max_price"`
	Status    string   `json:"status"`
	SellerID  string   `json:"seller_id"`
	Sort      string   `json:"sort"`
}

// ListingPage is the paginated buyer view of listings.
type ListingPage struct {
	Listings   []*Listing `json:"listings"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

var ListingConditions = []string{
	"new",
	"like-new",
	"used",
	"heavily-used",
}

var ListingCategories = []string{
	"books",
	"electronics",
	"hostel",
	"furniture",
	"fashion",
	"stationery",
	"sports",
	"cycles",
	"misc",
	"other",
}

func validCondition(c string) bool {
	for _, v := range ListingConditions {
		if v == c {
			return true
		}
	}
	return false
}

func validCategory(c string) bool {
	for _, v := range ListingCategories {
		if v == c {
			return true
		}
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold, StatusInactive:
		return true
	}
	return false
}

func (r *CreateListingRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title == "" {
		errors["title"] = "Title is required"
	}
	if len(r.Title) > 100 {
		errors["title"] = "Title cannot exceed 100 characters"
	}
	if len(r.Description) > 2000 {
		errors["description"] = "Description too long"
	}
	if r.Price < 0 {
		errors["price"] = "Price must be a positive number"
	}
	if len(r.Images) == 0 {
		errors["images"] = "At least one image is required"
	}
	if !validCondition(r.Condition) {
		errors["condition"] = "Condition is required"
	}
	if !validCategory(r.Category) {
		errors["category"] = "Category is required"
	}
	if len(r.Location) > 255 {
		errors["location"] = "Location too long"
	}
	if len(r.UpiID) > 50 {
		errors["upi_id"] = "UPI ID too long"
	}

	return errors
}

func (r *UpdateListingRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil && (*r.Title == "" || len(*r.Title) > 100) {
		errors["title"] = "Title must be 1-100 characters"
	}
	if r.Price != nil && *r.Price < 0 {
		errors["price"] = "Price must be a positive number"
	}
	if r.Condition != nil && !validCondition(*r.Condition) {
		errors["condition"] = "Invalid condition"
	}
	if r.Category != nil && !validCategory(*r.Category) {
		errors["category"] = "Invalid category"
	}
	if r.Status != nil && !validStatus(*r.Status) {
		errors["status"] = "Invalid status"
	}

	return errors
}

func (r *MarkSoldRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.FinalSellingPrice < 0 {
		errors["final_selling_price"] = "Final selling price must be a positive number"
	}
	if r.PaymentMethod != PaymentUPI && r.PaymentMethod != PaymentCash {
		errors["payment_method"] = "Payment method must be upi or cash"
	}
	if r.PaymentMethod == PaymentUPI && r.TransactionID == "" {
		errors["transaction_id"] = "Transaction ID is required for UPI payments"
	}
	if len(r.TransactionID) > 100 {
		errors["transaction_id"] = "Transaction ID too long"
	}

	return errors
}
