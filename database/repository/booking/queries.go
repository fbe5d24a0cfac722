package bookingRepo

import (
	"context"
	"time"

	"petbnb/models"

	"go.mongodb.org/mongo-driver/bson"
)

// activeStatuses are the statuses that occupy a caregiver's calendar.
var activeStatuses = []models.BookingStatus{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingInProgress,
}

// HasOverlapping reports whether an active booking for the same offering
// overlaps [start, end).
func (r *mongoBookingRepo) HasOverlapping(ctx context.Context, serviceID string, start, end time.Time) (bool, error) {
	filter := bson.M{
		"service_id": serviceID,
		"status":     bson.M{"$in": activeStatuses},
		"start_at":   bson.M{"$lt": end},
		"end_at":     bson.M{"$gt": start},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListStalePending returns pending, unpaid bookings created before the cutoff.
// These are the orphans of the pending-without-payment window.
func (r *mongoBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, bson.M{
		"status":         models.BookingPending,
		"payment_status": models.BookingPaymentPending,
		"created_at":     bson.M{"$lt": cutoff},
	})
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
