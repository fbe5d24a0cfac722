package checkout

import (
	"context"
	"fmt"
	"time"

	"petbnb/models"

	"go.uber.org/zap"
)

// DefaultCheckoutService implements CheckoutService. Each call loads the
// session from the store, applies one machine operation and writes the session
// back; the session is the single owner of its draft, so there is no
// cross-session contention.
type DefaultCheckoutService struct {
	Pets         PetDirectory
	Catalog      ServiceCatalog
	Store        SessionStore
	Orchestrator *Orchestrator
	Validator    *Validator
	Logger       *zap.Logger
}

func NewCheckoutService(pets PetDirectory, catalog ServiceCatalog, store SessionStore, orchestrator *Orchestrator, logger *zap.Logger) *DefaultCheckoutService {
	return &DefaultCheckoutService{
		Pets:         pets,
		Catalog:      catalog,
		Store:        store,
		Orchestrator: orchestrator,
		Validator:    NewValidator(),
		Logger:       logger,
	}
}

// StartSession opens a wizard for the given offering and returns it together
// with the owner's pets for the selection step.
func (s *DefaultCheckoutService) StartSession(ctx context.Context, ownerID, serviceID string) (*Session, []models.Pet, error) {
	offering, err := s.Catalog.GetOffering(ctx, serviceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load service offering: %w", err)
	}
	pets, err := s.Pets.ListPets(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pets: %w", err)
	}

	session := NewSession(ownerID, *offering)
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, nil, err
	}
	s.Logger.Info("checkout session started",
		zap.String("session_id", session.SessionID),
		zap.String("service_id", serviceID))
	return session, pets, nil
}

// GetSession loads a session, enforcing ownership.
func (s *DefaultCheckoutService) GetSession(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *DefaultCheckoutService) SelectPet(ctx context.Context, ownerID, sessionID, petID string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.SelectPet(petID)
	})
}

func (s *DefaultCheckoutService) DeselectPet(ctx context.Context, ownerID, sessionID, petID string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.DeselectPet(petID)
	})
}

func (s *DefaultCheckoutService) SetSchedule(ctx context.Context, ownerID, sessionID string, start, end time.Time) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.SetSchedule(start, end)
	})
}

func (s *DefaultCheckoutService) SetSpecialRequirements(ctx context.Context, ownerID, sessionID, text string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.SetSpecialRequirements(text)
	})
}

func (s *DefaultCheckoutService) Advance(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.Advance()
	})
}

func (s *DefaultCheckoutService) Back(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.Back()
	})
}

// Reopen returns a failed session to the review step so the whole submission
// can be retried without re-entering pets and dates.
func (s *DefaultCheckoutService) Reopen(ctx context.Context, ownerID, sessionID string) (*Session, error) {
	return s.mutate(ctx, ownerID, sessionID, func(m *Machine) error {
		return m.Reopen()
	})
}

// Submit freezes the draft and drives it through the orchestrator. The session
// is persisted in Submitting before any external call so a second submit
// arriving mid-flight is rejected.
func (s *DefaultCheckoutService) Submit(ctx context.Context, ownerID, sessionID, paymentMethod string) (*Session, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	machine := NewMachine(session, s.Validator)

	frozen, err := machine.BeginSubmit()
	if err != nil {
		if _, ok := err.(*ValidationError); ok {
			// Validation failures leave the machine in place; keep the recorded
			// reason visible on the stored session.
			if saveErr := s.Store.Save(ctx, session); saveErr != nil {
				return nil, saveErr
			}
		}
		return session, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	submission := s.Orchestrator.Submit(ctx, ownerID, frozen, session.Offering, paymentMethod)
	machine.CompleteSubmit(submission)

	return s.finishSubmission(ctx, session)
}

// ResumePayment re-runs only the payment leg for a failed submission that left
// a pending booking behind.
func (s *DefaultCheckoutService) ResumePayment(ctx context.Context, ownerID, sessionID, paymentMethod string) (*Session, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	machine := NewMachine(session, s.Validator)

	bookingID, err := machine.BeginResume()
	if err != nil {
		return session, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}

	submission := s.Orchestrator.ResumePayment(ctx, bookingID, paymentMethod)
	machine.CompleteSubmit(submission)

	return s.finishSubmission(ctx, session)
}

// CancelSession discards the wizard. Nothing was persisted externally before
// Submitting, so discarding the session is the whole cleanup; a pending booking
// left by a failed submission is handled by the expiry worker, not here.
func (s *DefaultCheckoutService) CancelSession(ctx context.Context, ownerID, sessionID string) error {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return err
	}
	if session.State == StateSubmitting {
		return ErrSubmitInProgress
	}
	return s.Store.Delete(ctx, sessionID)
}

func (s *DefaultCheckoutService) mutate(ctx context.Context, ownerID, sessionID string, op func(*Machine) error) (*Session, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	machine := NewMachine(session, s.Validator)
	if err := op(machine); err != nil {
		if _, ok := err.(*ValidationError); ok {
			if saveErr := s.Store.Save(ctx, session); saveErr != nil {
				return nil, saveErr
			}
		}
		return session, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// finishSubmission persists the terminal outcome. Completed sessions are
// removed from the store; failed ones stay resumable until their TTL runs out.
func (s *DefaultCheckoutService) finishSubmission(ctx context.Context, session *Session) (*Session, error) {
	if session.State == StateCompleted {
		if err := s.Store.Delete(ctx, session.SessionID); err != nil {
			s.Logger.Warn("failed to delete completed checkout session",
				zap.String("session_id", session.SessionID),
				zap.Error(err))
		}
		return session, nil
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
