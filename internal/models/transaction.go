package models

import (
	"time"
)

// Transaction is the immutable record of a completed sale, created exactly
// once per listing at the moment of sale. TransactionID is only meaningful
// for UPI payments and is forced empty for cash.
type Transaction struct {
	ID                string    `json:"id"`
	ListingID         string    `json:"listing_id"`
	BuyerID           string    `json:"buyer_id"`
	SellerID          string    `json:"seller_id"`
	FinalSellingPrice float64   `json:"final_selling_price"`
	PaymentMethod     string    `json:"payment_method"`
	TransactionID     *string   `json:"transaction_id"`
	SoldAt            time.Time `json:"sold_at"`
	CreatedAt         time.Time `json:"created_at"`
}

// TransactionView annotates a transaction with the requesting user's side.
type TransactionView struct {
	Transaction
	Credit bool `json:"credit"`
	Debit  bool `json:"debit"`
}

type TransactionPage struct {
	Transactions []*TransactionView `json:"transactions"`
	TotalCount   int64              `json:"total_count"`
	Page         int                `json:"page"`
	Limit        int                `json:"limit"`
	TotalPages   int                `json:"total_pages"`
}
