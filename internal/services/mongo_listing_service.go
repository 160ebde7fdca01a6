package services

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appcache "github.com/gauravkatara53/Topic-Backend/internal/cache"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
)

type MongoListingService struct {
	client           *mongo.Client
	db               *mongo.Database
	listingsColl     *mongo.Collection
	reservationsColl *mongo.Collection
	transactionsColl *mongo.Collection
	usersColl        *mongo.Collection
	caches           *appcache.ListingCaches
}

type mongoListingDoc struct {
	ID             string   `bson:"_id"`
	SellerID       string   `bson:"seller_id"`
	Title          string   `bson:"title"`
	Description    string   `bson:"description"`
	Price          float64  `bson:"price"`
	Condition      string   `bson:"condition"`
	Category       string   `bson:"category"`
	Location       string   `bson:"location,omitempty"`
	Images         []string `bson:"images"`
	UpiID          string   `bson:"upi_id,omitempty"`
	AllowCash      bool     `bson:"allow_cash"`
	ContactName    string   `bson:"contact_name,omitempty"`
	ContactEmail   string   `bson:"contact_email,omitempty"`
	ContactNumber  string   `bson:"contact_number,omitempty"`
	WhatsappNumber string   `bson:"whatsapp_number,omitempty"`

	Status               string     `bson:"status"`
	ReservedBy           *string    `bson:"reserved_by,omitempty"`
	ReservedAt           *time.Time `bson:"reserved_at,omitempty"`
	ReservationExpiresAt *time.Time `bson:"reservation_expires_at,omitempty"`
	FinalPrice           *float64   `bson:"final_price,omitempty"`
	SoldAt               *time.Time `bson:"sold_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoReservationDoc struct {
	ID         string    `bson:"_id"`
	ListingID  string    `bson:"listing_id"`
	BuyerID    string    `bson:"buyer_id"`
	ReservedAt time.Time `bson:"reserved_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
	IsExpired  bool      `bson:"is_expired"`
	CreatedAt  time.Time `bson:"created_at"`
}

type mongoTransactionDoc struct {
	ID                string    `bson:"_id"`
	ListingID         string    `bson:"listing_id"`
	BuyerID           string    `bson:"buyer_id"`
	SellerID          string    `bson:"seller_id"`
	FinalSellingPrice float64   `bson:"final_selling_price"`
	PaymentMethod     string    `bson:"payment_method"`
	TransactionID     *string   `bson:"transaction_id"`
	SoldAt            time.Time `bson:"sold_at"`
	CreatedAt         time.Time `bson:"created_at"`
}

func NewMongoListingService(ctx context.Context, mongoURI, dbName string, caches *appcache.ListingCaches) (*MongoListingService, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)

	svc := &MongoListingService{
		client:           client,
		db:               db,
		listingsColl:     db.Collection("listings"),
		reservationsColl: db.Collection("reservations"),
		transactionsColl: db.Collection("transactions"),
		usersColl:        db.Collection("users"),
		caches:           caches,
	}

	// Best-effort indexes.
	_, _ = svc.listingsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "reserved_by", Value: 1}}},
	})
	_, _ = svc.reservationsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}, {Key: "is_expired", Value: 1}}},
	})
	_, _ = svc.transactionsColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer_id", Value: 1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "sold_at", Value: -1}}},
	})

	log.Printf("MongoDB connected (listings): db=%s", dbName)
	return svc, nil
}

func (s *MongoListingService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func listingDocToModel(d mongoListingDoc) *models.Listing {
	imgs := d.Images
	if imgs == nil {
		imgs = []string{}
	}
	return &models.Listing{
		ID:                   d.ID,
		SellerID:             d.SellerID,
		Title:                d.Title,
		Description:          d.Description,
		Price:                d.Price,
		Condition:            d.Condition,
		Category:             d.Category,
		Location:             d.Location,
		Images:               imgs,
		UpiID:                d.UpiID,
		AllowCash:            d.AllowCash,
		ContactName:          d.ContactName,
		ContactEmail:         d.ContactEmail,
		ContactNumber:        d.ContactNumber,
		WhatsappNumber:       d.WhatsappNumber,
		Status:               d.Status,
		ReservedBy:           d.ReservedBy,
		ReservedAt:           d.ReservedAt,
		ReservationExpiresAt: d.ReservationExpiresAt,
		FinalPrice:           d.FinalPrice,
		SoldAt:               d.SoldAt,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func reservationDocToModel(d mongoReservationDoc) *models.Reservation {
	return &models.Reservation{
		ID:         d.ID,
		ListingID:  d.ListingID,
		BuyerID:    d.BuyerID,
		ReservedAt: d.ReservedAt,
		ExpiresAt:  d.ExpiresAt,
		IsExpired:  d.IsExpired,
		CreatedAt:  d.CreatedAt,
	}
}

func transactionDocToModel(d mongoTransactionDoc) *models.Transaction {
	return &models.Transaction{
		ID:                d.ID,
		ListingID:         d.ListingID,
		BuyerID:           d.BuyerID,
		SellerID:          d.SellerID,
		FinalSellingPrice: d.FinalSellingPrice,
		PaymentMethod:     d.PaymentMethod,
		TransactionID:     d.TransactionID,
		SoldAt:            d.SoldAt,
		CreatedAt:         d.CreatedAt,
	}
}

func (s *MongoListingService) Create(ctx context.Context, sellerID string, req *models.CreateListingRequest) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}

	// Contact details are snapshotted at creation time, not live-linked.
	var seller struct {
		Name   string `bson:"name"`
		Email  string `bson:"email"`
		Number string `bson:"number"`
	}
	if err := s.usersColl.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&seller); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	doc := mongoListingDoc{
		ID:             uuid.New().String(),
		SellerID:       sellerID,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Condition:      req.Condition,
		Category:       req.Category,
		Location:       req.Location,
		Images:         req.Images,
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

	if _, err := s.listingsColl.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	s.invalidateSearches(ctx)
	return listingDocToModel(doc), nil
}

func (s *MongoListingService) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc mongoListingDoc
	if err := s.listingsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return listingDocToModel(doc), nil
}

func (s *MongoListingService) Update(ctx context.Context, listingID, sellerID string, req *models.UpdateListingRequest) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Condition != nil {
		set["condition"] = *req.Condition
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.UpiID != nil {
		set["upi_id"] = *req.UpiID
	}
	if req.AllowCash != nil {
		set["allow_cash"] = *req.AllowCash
	}
	if req.WhatsappNumber != nil {
		set["whatsapp_number"] = *req.WhatsappNumber
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}

	res := s.listingsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": listingID, "seller_id": sellerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoListingDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	s.invalidateSearches(ctx)
	return listingDocToModel(updated), nil
}

// Reserve places a buyer's 24h hold. The status transition is a single
// conditional update: the filter re-checks the precondition (not sold, no
// live hold) so two concurrent reserves cannot both win.
func (s *MongoListingService) Reserve(ctx context.Context, listingID, buyerID string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()

	var current mongoListingDoc
	if err := s.listingsColl.FindOne(ctx, bson.M{"_id": listingID}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingConflict
		}
		return nil, err
	}
	if current.SellerID == buyerID {
		return nil, ErrSelfReservation
	}

	expiresAt := now.Add(reservationTTL)
	res := s.listingsColl.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":    listingID,
			"status": bson.M{"$in": []string{models.StatusAvailable, models.StatusReserved}},
			"$or": []bson.M{
				{"reserved_by": nil},
				{"reservation_expires_at": bson.M{"$lt": now}},
			},
		},
		bson.M{"$set": bson.M{
			"status":                 models.StatusReserved,
			"reserved_by":            buyerID,
			"reserved_at":            now,
			"reservation_expires_at": expiresAt,
			"updated_at":             now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoListingDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost the race or the hold is still live.
			return nil, ErrListingConflict
		}
		return nil, err
	}

	resDoc := mongoReservationDoc{
		ID:         uuid.New().String(),
		ListingID:  listingID,
		BuyerID:    buyerID,
		ReservedAt: now,
		ExpiresAt:  expiresAt,
		IsExpired:  false,
		CreatedAt:  now,
	}
	if _, err := s.reservationsColl.InsertOne(ctx, resDoc); err != nil {
		return nil, err
	}

	s.invalidateSearches(ctx)
	s.invalidateBuyerView(ctx, buyerID)
	return listingDocToModel(updated), nil
}

// MarkSold finalizes a sale. Like Reserve, the transition is a conditional
// update keyed on the expected current state; the pre-read only picks the
// right error for the caller.
func (s *MongoListingService) MarkSold(ctx context.Context, sellerID, listingID string, req *models.MarkSoldRequest) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var current mongoListingDoc
	if err := s.listingsColl.FindOne(ctx, bson.M{"_id": listingID, "seller_id": sellerID}).Decode(&current); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if current.Status == models.StatusSold {
		return nil, ErrAlreadySold
	}
	if current.ReservedBy == nil {
		// Sales are gated behind a reservation; reaching this state is an
		// integrity fault, not a user error.
		return nil, ErrNoReservation
	}

	now := time.Now().UTC()
	res := s.listingsColl.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":         listingID,
			"seller_id":   sellerID,
			"status":      bson.M{"$ne": models.StatusSold},
			"reserved_by": bson.M{"$ne": nil},
		},
		bson.M{"$set": bson.M{
			"status":      models.StatusSold,
			"final_price": req.FinalSellingPrice,
			"sold_at":     now,
			"updated_at":  now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoListingDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Sold out from under us between read and write.
			return nil, ErrAlreadySold
		}
		return nil, err
	}

	txnDoc := mongoTransactionDoc{
		ID:                uuid.New().String(),
		ListingID:         listingID,
		BuyerID:           *updated.ReservedBy,
		SellerID:          sellerID,
		FinalSellingPrice: req.FinalSellingPrice,
		PaymentMethod:     req.PaymentMethod,
		TransactionID:     upiTransactionID(req),
		SoldAt:            now,
		CreatedAt:         now,
	}
	if _, err := s.transactionsColl.InsertOne(ctx, txnDoc); err != nil {
		return nil, err
	}

	s.invalidateSearches(ctx)
	s.invalidateBuyerView(ctx, *updated.ReservedBy)
	s.invalidateTransactions(ctx, *updated.ReservedBy)
	s.invalidateTransactions(ctx, sellerID)
	return transactionDocToModel(txnDoc), nil
}

func (s *MongoListingService) List(ctx context.Context, q *models.ListingQuery) ([]*models.Listing, error) {
	if q == nil {
		q = &models.ListingQuery{}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := listingQueryFilter(q)
	cacheKey := s.caches.SearchKey(struct {
		Q    *models.ListingQuery `json:"q"`
		Sort string               `json:"sort"`
	}{q, q.Sort})

	var cached []*models.Listing
	if s.caches.GetSearch(ctx, cacheKey, &cached) {
		return cached, nil
	}

	cur, err := s.listingsColl.Find(ctx, filter, options.Find().SetSort(listingSortOption(q.Sort)))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.Listing, 0)
	for cur.Next(ctx) {
		var d mongoListingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		results = append(results, listingDocToModel(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	s.caches.SetSearch(ctx, cacheKey, results)
	return results, nil
}

func (s *MongoListingService) ListForBuyer(ctx context.Context, userID string, q *models.ListingQuery, page, limit int) (*models.ListingPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, limit = normalizePage(page, limit)

	filter := listingQueryFilter(q)
	filter["reserved_by"] = userID

	cacheKey := s.caches.BuyerViewKey(userID, filter, page, limit)
	var cached models.ListingPage
	if s.caches.GetSearch(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	total, err := s.listingsColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	cur, err := s.listingsColl.Find(
		ctx,
		filter,
		options.Find().
			SetSort(listingSortOption(q.Sort)).
			SetSkip(int64((page-1)*limit)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	listings := make([]*models.Listing, 0)
	for cur.Next(ctx) {
		var d mongoListingDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		listings = append(listings, listingDocToModel(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	result := &models.ListingPage{
		Listings:   listings,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}
	s.caches.SetSearch(ctx, cacheKey, result)
	return result, nil
}

func (s *MongoListingService) ListTransactions(ctx context.Context, userID string, page, limit int) (*models.TransactionPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, limit = normalizePage(page, limit)

	cacheKey := s.caches.TransactionsKey(userID, page, limit)
	var cached models.TransactionPage
	if s.caches.GetSearch(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	filter := bson.M{"$or": []bson.M{{"buyer_id": userID}, {"seller_id": userID}}}

	total, err := s.transactionsColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	cur, err := s.transactionsColl.Find(
		ctx,
		filter,
		options.Find().
			SetSort(bson.D{{Key: "sold_at", Value: -1}}).
			SetSkip(int64((page-1)*limit)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	views := make([]*models.TransactionView, 0)
	for cur.Next(ctx) {
		var d mongoTransactionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		views = append(views, &models.TransactionView{
			Transaction: *transactionDocToModel(d),
			Credit:      d.SellerID == userID,
			Debit:       d.BuyerID == userID,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	result := &models.TransactionPage{
		Transactions: views,
		TotalCount:   total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages(total, limit),
	}
	s.caches.SetSearch(ctx, cacheKey, result)
	return result, nil
}

func (s *MongoListingService) AddImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res := s.listingsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": listingID},
		bson.M{
			"$push": bson.M{"images": imageURL},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoListingDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	s.invalidateSearches(ctx)
	return listingDocToModel(updated), nil
}

func (s *MongoListingService) RemoveImage(ctx context.Context, listingID, imageURL string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res := s.listingsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": listingID},
		bson.M{
			"$pull": bson.M{"images": imageURL},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoListingDoc
	if err := res.Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	s.invalidateSearches(ctx)
	return listingDocToModel(updated), nil
}

func (s *MongoListingService) ExpiredReservations(ctx context.Context, now time.Time) ([]*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.reservationsColl.Find(ctx, bson.M{
		"expires_at": bson.M{"$lt": now},
		"is_expired": false,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	expired := make([]*models.Reservation, 0)
	for cur.Next(ctx) {
		var d mongoReservationDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		expired = append(expired, reservationDocToModel(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return expired, nil
}

func (s *MongoListingService) MarkReservationExpired(ctx context.Context, reservationID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.reservationsColl.UpdateOne(
		ctx,
		bson.M{"_id": reservationID},
		bson.M{"$set": bson.M{"is_expired": true}},
	)
	return err
}

// ReleaseListing reverts a reserved listing to available. The filter is
// conditional on status == reserved, so a sale that landed after the
// reservation expired takes precedence.
func (s *MongoListingService) ReleaseListing(ctx context.Context, listingID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.listingsColl.UpdateOne(
		ctx,
		bson.M{"_id": listingID, "status": models.StatusReserved},
		bson.M{
			"$set": bson.M{
				"status":     models.StatusAvailable,
				"updated_at": time.Now().UTC(),
			},
			"$unset": bson.M{
				"reserved_by":            "",
				"reserved_at":            "",
				"reservation_expires_at": "",
			},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// InvalidateSearches exposes the search-cache invalidation for the sweeper,
// which batches one invalidation per run.
func (s *MongoListingService) InvalidateSearches(ctx context.Context) error {
	return s.caches.InvalidateSearches(ctx)
}

func (s *MongoListingService) invalidateSearches(ctx context.Context) {
	if err := s.caches.InvalidateSearches(ctx); err != nil {
		log.Printf("[ListingService] search cache invalidation failed: %v", err)
	}
}

func (s *MongoListingService) invalidateBuyerView(ctx context.Context, userID string) {
	if err := s.caches.InvalidateBuyerView(ctx, userID); err != nil {
		log.Printf("[ListingService] buyer view cache invalidation failed: %v", err)
	}
}

func (s *MongoListingService) invalidateTransactions(ctx context.Context, userID string) {
	if err := s.caches.InvalidateTransactions(ctx, userID); err != nil {
		log.Printf("[ListingService] transactions cache invalidation failed: %v", err)
	}
}

func listingQueryFilter(q *models.ListingQuery) bson.M {
	filter := bson.M{}
	if q == nil {
		return filter
	}
	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q.Search, "$options": "i"}},
			{"description": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Condition != "" {
		filter["condition"] = q.Condition
	}
	if q.Location != "" {
		filter["location"] = bson.M{"$regex": q.Location, "$options": "i"}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.SellerID != "" {
		filter["seller_id"] = q.SellerID
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

func listingSortOption(sortKey string) bson.D {
	switch sortKey {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}
