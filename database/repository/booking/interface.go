package bookingRepo

import (
	"context"
	"time"

	"petbnb/database"
	"petbnb/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository defines data access for booking records.
type BookingRepository interface {
	Create(ctx context.Context, booking models.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]models.Booking, error)
	// HasOverlapping reports whether an active booking for the same offering
	// overlaps the given time range.
	HasOverlapping(ctx context.Context, serviceID string, start, end time.Time) (bool, error)
	MarkPaid(ctx context.Context, id, paymentIntentID string) error
	Cancel(ctx context.Context, id, reason string) error
	// ListStalePending returns pending, unpaid bookings created before the cutoff.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo returns a new BookingRepository instance using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}
