package bookingRepo

import (
	"context"
	"errors"
	"time"

	"petbnb/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new booking record and returns its ID.
func (r *mongoBookingRepo) Create(ctx context.Context, booking models.Booking) (string, error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return "", err
	}
	return booking.ID, nil
}

// GetByID returns a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByOwnerID fetches all bookings made by an owner.
func (r *mongoBookingRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// MarkPaid records a confirmed payment on a booking.
func (r *mongoBookingRepo) MarkPaid(ctx context.Context, id, paymentIntentID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"status":            models.BookingConfirmed,
			"payment_status":    models.BookingPaymentPaid,
			"payment_intent_id": paymentIntentID,
			"updated_at":        time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("booking not found")
	}
	return nil
}

// Cancel moves a booking to cancelled with a reason. Only pending, unpaid
// bookings can be cancelled this way.
func (r *mongoBookingRepo) Cancel(ctx context.Context, id, reason string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"id":             id,
			"status":         models.BookingPending,
			"payment_status": models.BookingPaymentPending,
		},
		bson.M{"$set": bson.M{
			"status":        models.BookingCancelled,
			"cancel_reason": reason,
			"updated_at":    time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("booking not found or no longer cancellable")
	}
	return nil
}
