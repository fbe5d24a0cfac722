package checkout

import (
	"fmt"
	"time"

	"petbnb/models"

	"github.com/google/uuid"
)

// State is a step of the checkout wizard or a terminal outcome.
type State string

const (
	StateSelectingPets      State = "selecting_pets"
	StateSchedulingDates    State = "scheduling_dates"
	StateReviewingAndPaying State = "reviewing_and_paying"
	StateSubmitting         State = "submitting"
	StateCompleted          State = "completed"
	StateFailed             State = "failed"
)

// validTransitions defines the state machine for the checkout wizard. A failed
// submission may be reopened at the review step so the user can retry without
// re-entering pets and dates.
var validTransitions = map[State][]State{
	StateSelectingPets:      {StateSchedulingDates},
	StateSchedulingDates:    {StateSelectingPets, StateReviewingAndPaying},
	StateReviewingAndPaying: {StateSchedulingDates, StateSubmitting},
	StateSubmitting:         {StateCompleted, StateFailed},
	StateCompleted:          {},
	StateFailed:             {StateReviewingAndPaying, StateSubmitting},
}

// forwardOrder maps each editing step to the next one.
var forwardOrder = map[State]State{
	StateSelectingPets:   StateSchedulingDates,
	StateSchedulingDates: StateReviewingAndPaying,
}

// backwardOrder maps each step to the previous one.
var backwardOrder = map[State]State{
	StateSchedulingDates:    StateSelectingPets,
	StateReviewingAndPaying: StateSchedulingDates,
}

// CanTransitionTo returns true if a transition from this state to the target is allowed.
func (s State) CanTransitionTo(target State) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this state.
func (s State) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// editable reports whether the draft may still be mutated in this state.
func (s State) editable() bool {
	switch s {
	case StateSelectingPets, StateSchedulingDates, StateReviewingAndPaying:
		return true
	}
	return false
}

// Session holds one user's checkout wizard between HTTP calls. The draft is
// owned exclusively by the session's machine for the lifetime of the checkout.
type Session struct {
	SessionID     string                    `json:"session_id"`
	OwnerID       string                    `json:"owner_id"`
	Offering      models.ServiceOffering    `json:"offering"`
	State         State                     `json:"state"`
	Draft         models.BookingDraft       `json:"draft"`
	Submission    *models.BookingSubmission `json:"submission,omitempty"`
	LastStepError string                    `json:"last_step_error,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// NewSession opens a fresh wizard for the given offering.
func NewSession(ownerID string, offering models.ServiceOffering) *Session {
	now := time.Now()
	return &Session{
		SessionID: uuid.New().String(),
		OwnerID:   ownerID,
		Offering:  offering,
		State:     StateSelectingPets,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Machine applies wizard operations to a session, gating transitions on the
// validator and keeping the price breakdown consistent with the draft.
type Machine struct {
	session   *Session
	validator *Validator
}

func NewMachine(session *Session, validator *Validator) *Machine {
	return &Machine{session: session, validator: validator}
}

// SelectPet adds a pet to the draft. Selecting beyond the offering's capacity is
// rejected here, at the mutation site, so an over-capacity draft can never exist.
func (m *Machine) SelectPet(petID string) error {
	if !m.session.State.editable() {
		return ErrDraftLocked
	}
	if m.session.Draft.HasPet(petID) {
		return nil
	}
	if len(m.session.Draft.SelectedPetIDs) >= m.session.Offering.MaxPets {
		return &ValidationError{
			Step:   StateSelectingPets,
			Reason: fmt.Sprintf("this service allows at most %d pets", m.session.Offering.MaxPets),
		}
	}
	m.session.Draft.SelectedPetIDs = append(m.session.Draft.SelectedPetIDs, petID)
	m.recomputePrice()
	return nil
}

// DeselectPet removes a pet from the draft.
func (m *Machine) DeselectPet(petID string) error {
	if !m.session.State.editable() {
		return ErrDraftLocked
	}
	ids := m.session.Draft.SelectedPetIDs
	for i, id := range ids {
		if id == petID {
			m.session.Draft.SelectedPetIDs = append(ids[:i], ids[i+1:]...)
			m.recomputePrice()
			return nil
		}
	}
	return nil
}

// SetSchedule sets the draft's time range and recomputes the price.
func (m *Machine) SetSchedule(start, end time.Time) error {
	if !m.session.State.editable() {
		return ErrDraftLocked
	}
	m.session.Draft.StartAt = start
	m.session.Draft.EndAt = end
	m.recomputePrice()
	return nil
}

// SetSpecialRequirements sets the free-text care instructions.
func (m *Machine) SetSpecialRequirements(text string) error {
	if !m.session.State.editable() {
		return ErrDraftLocked
	}
	m.session.Draft.SpecialRequirements = text
	return nil
}

// Advance moves the wizard one step forward, gated on the current step's
// validation. On failure the machine stays in place and the reason is recorded
// on the session.
func (m *Machine) Advance() error {
	next, ok := forwardOrder[m.session.State]
	if !ok {
		if m.session.State == StateReviewingAndPaying {
			return &ValidationError{Step: m.session.State, Reason: "submit the booking to continue"}
		}
		return ErrDraftLocked
	}
	if err := m.validator.ValidateStep(m.session.State, &m.session.Draft, m.session.Offering); err != nil {
		m.session.LastStepError = err.Error()
		return err
	}
	// Entering review re-checks the pet step as well; the scheduling check above
	// already ran against a fresh wall clock.
	if next == StateReviewingAndPaying {
		if err := m.validator.ValidateStep(StateSelectingPets, &m.session.Draft, m.session.Offering); err != nil {
			m.session.LastStepError = err.Error()
			return err
		}
	}
	m.session.LastStepError = ""
	m.transition(next)
	return nil
}

// Back moves the wizard one step backward. Draft fields persist across
// navigation; nothing is discarded.
func (m *Machine) Back() error {
	if !m.session.State.editable() {
		return ErrDraftLocked
	}
	prev, ok := backwardOrder[m.session.State]
	if !ok {
		return nil
	}
	m.transition(prev)
	return nil
}

// BeginSubmit validates the review step, freezes the draft and moves the
// machine to Submitting. The returned snapshot is a deep copy: later session
// mutations cannot reach it.
func (m *Machine) BeginSubmit() (models.BookingDraft, error) {
	if m.session.State == StateSubmitting {
		return models.BookingDraft{}, ErrSubmitInProgress
	}
	if m.session.State != StateReviewingAndPaying {
		return models.BookingDraft{}, &ValidationError{
			Step:   m.session.State,
			Reason: "submission is only possible from the review step",
		}
	}
	if err := m.validator.ValidateStep(StateReviewingAndPaying, &m.session.Draft, m.session.Offering); err != nil {
		m.session.LastStepError = err.Error()
		return models.BookingDraft{}, err
	}
	m.session.LastStepError = ""
	m.transition(StateSubmitting)
	return m.session.Draft.Clone(), nil
}

// CompleteSubmit records the submission outcome and moves the machine to its
// terminal state.
func (m *Machine) CompleteSubmit(sub *models.BookingSubmission) {
	m.session.Submission = sub
	if sub.State == models.SubmissionCompleted {
		m.transition(StateCompleted)
	} else {
		m.transition(StateFailed)
	}
}

// BeginResume moves a failed session with a pending booking back to Submitting
// for a payment-only retry. The draft is not re-validated: the booking record
// already exists and only the payment leg is re-run.
func (m *Machine) BeginResume() (string, error) {
	if m.session.State == StateSubmitting {
		return "", ErrSubmitInProgress
	}
	if m.session.State != StateFailed || m.session.Submission == nil || m.session.Submission.BookingID == "" {
		return "", &ValidationError{
			Step:   m.session.State,
			Reason: "no pending booking to resume payment for",
		}
	}
	bookingID := m.session.Submission.BookingID
	m.transition(StateSubmitting)
	return bookingID, nil
}

// Reopen returns a failed session to the review step for another attempt.
func (m *Machine) Reopen() error {
	if !m.session.State.CanTransitionTo(StateReviewingAndPaying) || m.session.State != StateFailed {
		return ErrDraftLocked
	}
	m.transition(StateReviewingAndPaying)
	return nil
}

func (m *Machine) transition(to State) {
	m.session.State = to
	m.session.UpdatedAt = time.Now()
}

// recomputePrice rebuilds the breakdown from the current draft before any
// caller can observe the mutated session. Incomplete inputs clear the price
// rather than leaving a stale one.
func (m *Machine) recomputePrice() {
	d := &m.session.Draft
	price, err := ComputePrice(m.session.Offering, len(d.SelectedPetIDs), d.StartAt, d.EndAt)
	if err != nil {
		d.Price = nil
		return
	}
	d.Price = &price
}
