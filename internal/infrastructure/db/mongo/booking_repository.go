package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookline/booking-system/internal/core/domain"
	"github.com/bookline/booking-system/internal/core/ports"
)

const (
	collectionBookings = "bookings"
	collectionUsers    = "users"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type bookingDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user"`
	Slot      string    `bson:"slot"`
	CreatedAt time.Time `bson:"created_at"`
}

// bookingRow is the read shape. Slot is decoded as a raw BSON value because
// historical revisions persisted it either as a string or as a sub-document.
type bookingRow struct {
	ID        string        `bson:"_id"`
	UserID    string        `bson:"user"`
	Slot      bson.RawValue `bson:"slot"`
	CreatedAt time.Time     `bson:"created_at"`
	Owner     struct {
		ID    string `bson:"_id"`
		Name  string `bson:"name"`
		Email string `bson:"email"`
	} `bson:"owner"`
}

// legacySlotDoc is the sub-document shape older revisions wrote for slots.
type legacySlotDoc struct {
	Date string `bson:"date,omitempty"`
	Time string `bson:"time,omitempty"`
	ID   string `bson:"id,omitempty"`
}

// Reserve inserts the booking. The unique index on slot makes the existence
// check and the insert a single atomic conditional write: of N concurrent
// inserts for the same canonical key, exactly one succeeds and the rest get
// a duplicate-key error, surfaced as domain.ErrSlotTaken.
func (r *BookingRepository) Reserve(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingDoc{
		ID:        b.ID,
		UserID:    b.UserID,
		Slot:      string(b.Slot),
		CreatedAt: b.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*ports.StoredBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrBookingNotFound
	}
	return &rows[0], nil
}

// Delete removes a booking by id. A missing id is not an error: the desired
// end state already holds.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]ports.StoredBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.aggregate(ctx, bson.M{"user": userID})
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]ports.StoredBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.aggregate(ctx, nil)
}

// aggregate reads bookings with the owner reference resolved against the
// users collection, ordered by creation time descending.
func (r *BookingRepository) aggregate(ctx context.Context, match bson.M) ([]ports.StoredBooking, error) {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var out []ports.StoredBooking
	for cursor.Next(ctx) {
		var row bookingRow
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		out = append(out, ports.StoredBooking{
			ID:         row.ID,
			Slot:       decodeStoredSlot(row.Slot),
			OwnerID:    row.UserID,
			OwnerName:  row.Owner.Name,
			OwnerEmail: row.Owner.Email,
			CreatedAt:  row.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

// decodeStoredSlot maps whatever shape the slot field was persisted in onto
// the codec's StoredSlot. Normalization itself stays in the domain codec.
func decodeStoredSlot(rv bson.RawValue) domain.StoredSlot {
	switch rv.Type {
	case bson.TypeString:
		return domain.StoredSlot{Value: rv.StringValue()}
	case bson.TypeEmbeddedDocument:
		var legacy legacySlotDoc
		if err := rv.Unmarshal(&legacy); err != nil {
			return domain.StoredSlot{Document: true}
		}
		return domain.StoredSlot{
			Document:  true,
			Date:      legacy.Date,
			TimeOfDay: legacy.Time,
			ID:        legacy.ID,
		}
	default:
		return domain.StoredSlot{Document: true}
	}
}

// EnsureIndexes creates the bookings indexes. The unique index on slot is the
// primitive the whole double-booking guarantee rests on.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slot", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}
