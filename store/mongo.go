package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dcode-github/rental_booking_system/models"
)

const (
	propertiesCollection = "properties"
	bookingsCollection   = "bookings"
)

// MongoStore keeps properties and bookings in two MongoDB collections.
//
// InsertBooking and DeleteProperty run in multi-document transactions, so the
// deployment must be a replica set (a single-node one is enough).
type MongoStore struct {
	client     *mongo.Client
	properties *mongo.Collection
	bookings   *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:     client,
		properties: db.Collection(propertiesCollection),
		bookings:   db.Collection(bookingsCollection),
	}
}

// EnsureSchema creates the indexes the catalog and booking queries rely on.
// Creating an index that already exists is a no-op.
func (s *MongoStore) EnsureSchema(ctx context.Context) error {
	_, err := s.properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create property indexes: %w", err)
	}

	_, err = s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "status", Value: 1}, {Key: "checkIn", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return err
	}
	log.Println("MongoDB connection closed")
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) CreateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}

	if _, err := s.properties.InsertOne(ctx, p); err != nil {
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return p, nil
}

func (s *MongoStore) findProperty(ctx context.Context, filter bson.M) (models.Property, error) {
	var p models.Property
	if err := s.properties.FindOne(ctx, filter).Decode(&p); err != nil {
		return models.Property{}, notFound(err)
	}
	return p, nil
}

func (s *MongoStore) GetProperty(ctx context.Context, id string) (models.Property, error) {
	return s.findProperty(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetPublishedProperty(ctx context.Context, id string) (models.Property, error) {
	return s.findProperty(ctx, bson.M{"_id": id, "status": models.PropertyPublished})
}

func (s *MongoStore) findProperties(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Property, error) {
	cursor, err := s.properties.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// PublishedFilter builds the catalog query for f.
func PublishedFilter(f models.PropertyFilter) bson.M {
	filter := bson.M{"status": models.PropertyPublished}
	if f.Location != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}}
	}
	if f.PropertyType != "" {
		filter["propertyType"] = f.PropertyType
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if f.Guests > 0 {
		filter["maxGuests"] = bson.M{"$gte": f.Guests}
	}
	return filter
}

func (s *MongoStore) ListPublishedProperties(ctx context.Context, f models.PropertyFilter) ([]models.Property, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	properties, err := s.findProperties(ctx, PublishedFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list published properties: %w", err)
	}
	return properties, nil
}

func (s *MongoStore) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	properties, err := s.findProperties(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list properties of owner %s: %w", ownerID, err)
	}
	return properties, nil
}

func (s *MongoStore) updateOwnedProperty(ctx context.Context, id, ownerID string, set bson.M) (models.Property, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Property
	err := s.properties.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "ownerId": ownerID},
		bson.M{"$set": set},
		opts,
	).Decode(&p)
	if err != nil {
		return models.Property{}, notFound(err)
	}
	return p, nil
}

// UpdateProperty replaces the editable fields of an owner's property. An
// empty Status leaves the current status unchanged.
func (s *MongoStore) UpdateProperty(ctx context.Context, p models.Property) (models.Property, error) {
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	set := bson.M{
		"title":        p.Title,
		"description":  p.Description,
		"price":        p.Price,
		"location":     p.Location,
		"images":       p.Images,
		"maxGuests":    p.MaxGuests,
		"bedrooms":     p.Bedrooms,
		"bathrooms":    p.Bathrooms,
		"propertyType": p.PropertyType,
		"amenities":    p.Amenities,
	}
	if p.Status != "" {
		set["status"] = p.Status
	}
	updated, err := s.updateOwnedProperty(ctx, p.ID, p.OwnerID, set)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Property{}, fmt.Errorf("update property %s: %w", p.ID, err)
	}
	return updated, err
}

func (s *MongoStore) UpdatePropertyStatus(ctx context.Context, id, ownerID string, status models.PropertyStatus) (models.Property, error) {
	updated, err := s.updateOwnedProperty(ctx, id, ownerID, bson.M{"status": status})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.Property{}, fmt.Errorf("update status of property %s: %w", id, err)
	}
	return updated, err
}

// DeleteProperty removes an owner's property together with its bookings.
func (s *MongoStore) DeleteProperty(ctx context.Context, id, ownerID string) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := s.properties.DeleteOne(sessCtx, bson.M{"_id": id, "ownerId": ownerID})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		if _, err := s.bookings.DeleteMany(sessCtx, bson.M{"propertyId": id}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return err
}

func activeStatuses() bson.M {
	return bson.M{"$in": models.ActiveBookingStatuses}
}

// OverlapFilter matches active bookings of propertyID that overlap [in, out).
func OverlapFilter(propertyID string, in, out time.Time) bson.M {
	return bson.M{
		"propertyId": propertyID,
		"status":     activeStatuses(),
		"checkIn":    bson.M{"$lt": out},
		"checkOut":   bson.M{"$gt": in},
	}
}

func (s *MongoStore) ListActiveBookings(ctx context.Context, propertyID string) ([]models.DateRange, error) {
	opts := options.Find().
		SetProjection(bson.M{"checkIn": 1, "checkOut": 1}).
		SetSort(bson.D{{Key: "checkIn", Value: 1}})

	cursor, err := s.bookings.Find(ctx, bson.M{"propertyId": propertyID, "status": activeStatuses()}, opts)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var ranges []models.DateRange
	if err := cursor.All(ctx, &ranges); err != nil {
		return nil, fmt.Errorf("decode active bookings: %w", err)
	}
	return ranges, nil
}

// InsertBooking writes b in a transaction that first bumps the property's
// bookingSeq. Two concurrent admissions for the same property therefore
// write-conflict, and the driver retries the loser, which then sees the
// winner's booking in the overlap count.
func (s *MongoStore) InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	if b.ID == "" {
		b.ID = primitive.NewObjectID().Hex()
	}

	session, err := s.client.StartSession()
	if err != nil {
		return models.Booking{}, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		err := s.properties.FindOneAndUpdate(sessCtx,
			bson.M{"_id": b.PropertyID, "status": models.PropertyPublished},
			bson.M{"$inc": bson.M{"bookingSeq": 1}},
		).Err()
		if err != nil {
			return nil, notFound(err)
		}

		if b.Status.Active() {
			n, err := s.bookings.CountDocuments(sessCtx, OverlapFilter(b.PropertyID, b.CheckIn, b.CheckOut))
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, ErrConstraintViolation
			}
		}

		return s.bookings.InsertOne(sessCtx, b)
	})
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConstraintViolation):
		return models.Booking{}, err
	case err != nil:
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return b, nil
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	if err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Booking{}, notFound(err)
	}
	return b, nil
}

func (s *MongoStore) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Booking
	err := s.bookings.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
		opts,
	).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}
	return b, nil
}

// OwnerBookingsPipeline joins bookings with their property and keeps those
// on properties owned by ownerID, newest first.
func OwnerBookingsPipeline(ownerID string) mongo.Pipeline {
	return mongo.Pipeline{
		{
			{Key: "$lookup", Value: bson.M{
				"from":         propertiesCollection,
				"localField":   "propertyId",
				"foreignField": "_id",
				"as":           "property",
			}},
		},
		{
			{Key: "$unwind", Value: "$property"},
		},
		{
			{Key: "$match", Value: bson.M{"property.ownerId": ownerID}},
		},
		{
			{Key: "$project", Value: bson.M{
				"property.images":      0,
				"property.description": 0,
				"property.amenities":   0,
			}},
		},
		{
			{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}},
		},
	}
}

func (s *MongoStore) ListBookingsByOwner(ctx context.Context, ownerID string) ([]models.OwnerBooking, error) {
	cursor, err := s.bookings.Aggregate(ctx, OwnerBookingsPipeline(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list bookings of owner %s: %w", ownerID, err)
	}
	defer cursor.Close(ctx)

	out := []models.OwnerBooking{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings of owner %s: %w", ownerID, err)
	}
	return out, nil
}
