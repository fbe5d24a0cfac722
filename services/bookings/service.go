package bookings

import (
	"context"
	"fmt"
	"time"

	bookingRepo "petbnb/database/repository/booking"
	offeringRepo "petbnb/database/repository/offering"
	"petbnb/models"

	"go.uber.org/zap"
)

// Service creates and maintains booking records. It is the "Booking Service"
// collaborator of the checkout flow: creation rejects scheduling conflicts,
// cancellation is an explicit status transition, never a delete.
type Service struct {
	Repo      bookingRepo.BookingRepository
	Offerings offeringRepo.OfferingRepository
	Logger    *zap.Logger
}

func NewService(repo bookingRepo.BookingRepository, offerings offeringRepo.OfferingRepository, logger *zap.Logger) *Service {
	return &Service{Repo: repo, Offerings: offerings, Logger: logger}
}

// CreateBooking creates a booking record in the pending state. A scheduling
// conflict with an active booking for the same offering is a validation
// rejection surfaced verbatim.
func (s *Service) CreateBooking(ctx context.Context, req models.BookingRequest) (string, error) {
	offering, err := s.Offerings.GetByID(ctx, req.ServiceID)
	if err != nil {
		return "", fmt.Errorf("unknown service offering %s: %w", req.ServiceID, err)
	}

	overlapping, err := s.Repo.HasOverlapping(ctx, req.ServiceID, req.StartAt, req.EndAt)
	if err != nil {
		return "", fmt.Errorf("failed to check caregiver availability: %w", err)
	}
	if overlapping {
		return "", fmt.Errorf("the caregiver is already booked between %s and %s",
			req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))
	}

	booking := models.Booking{
		OwnerID:             req.OwnerID,
		CaregiverID:         offering.CaregiverID,
		ServiceID:           req.ServiceID,
		PetIDs:              req.PetIDs,
		StartAt:             req.StartAt,
		EndAt:               req.EndAt,
		TotalCents:          req.TotalCents,
		Currency:            req.Currency,
		SpecialRequirements: req.SpecialRequirements,
		Status:              models.BookingPending,
		PaymentStatus:       models.BookingPaymentPending,
	}
	id, err := s.Repo.Create(ctx, booking)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}
	s.Logger.Info("booking record created",
		zap.String("booking_id", id),
		zap.String("service_id", req.ServiceID))
	return id, nil
}

// GetBooking returns a booking by ID.
func (s *Service) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, bookingID)
}

// MarkPaid records a confirmed payment on the booking and confirms it.
func (s *Service) MarkPaid(ctx context.Context, bookingID, paymentIntentID string) error {
	return s.Repo.MarkPaid(ctx, bookingID, paymentIntentID)
}

// CancelBooking cancels a pending, unpaid booking with an explicit reason.
func (s *Service) CancelBooking(ctx context.Context, bookingID, reason string) error {
	if err := s.Repo.Cancel(ctx, bookingID, reason); err != nil {
		return err
	}
	s.Logger.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("reason", reason))
	return nil
}

// ExpireStalePending cancels pending, unpaid bookings older than maxAge. It is
// the backstop for the pending-without-payment window; the queued per-booking
// expiry task handles the common case.
func (s *Service) ExpireStalePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	stale, err := s.Repo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale pending bookings: %w", err)
	}

	expired := 0
	for _, booking := range stale {
		if err := s.Repo.Cancel(ctx, booking.ID, "payment not completed in time"); err != nil {
			s.Logger.Warn("failed to expire pending booking",
				zap.String("booking_id", booking.ID),
				zap.Error(err))
			continue
		}
		expired++
	}
	if expired > 0 {
		s.Logger.Info("expired stale pending bookings", zap.Int("count", expired))
	}
	return expired, nil
}
