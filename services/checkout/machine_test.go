package checkout

import (
	"testing"
	"time"

	"petbnb/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T, offering models.ServiceOffering) (*Machine, *Session) {
	t.Helper()
	session := NewSession("owner-1", offering)
	return NewMachine(session, fixedValidator()), session
}

func scheduleFrom(clock time.Time) (time.Time, time.Time) {
	start := clock.Add(2 * time.Hour)
	return start, start.Add(24 * time.Hour)
}

func TestMachineInitialState(t *testing.T) {
	_, session := newTestMachine(t, boardingOffering(5000))
	assert.Equal(t, StateSelectingPets, session.State)
	assert.Empty(t, session.Draft.SelectedPetIDs)
	assert.Nil(t, session.Draft.Price)
}

func TestSelectPetEnforcesCapacityAtMutation(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000)) // max 3 pets

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.SelectPet("p2"))
	require.NoError(t, m.SelectPet("p3"))

	err := m.SelectPet("p4")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, session.Draft.SelectedPetIDs, 3, "selection must never exceed capacity")

	// Selecting an already-selected pet is a no-op, not a duplicate.
	require.NoError(t, m.SelectPet("p1"))
	assert.Len(t, session.Draft.SelectedPetIDs, 3)
}

func TestMutationsRecomputePrice(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	assert.Nil(t, session.Draft.Price, "no schedule yet, no price")

	require.NoError(t, m.SetSchedule(start, end))
	require.NotNil(t, session.Draft.Price)
	assertAmount(t, "57.50", session.Draft.Price.Total)

	require.NoError(t, m.SelectPet("p2"))
	require.NotNil(t, session.Draft.Price)
	assertAmount(t, "86.25", session.Draft.Price.Total) // 50 + 25, +15% fee

	require.NoError(t, m.DeselectPet("p2"))
	assertAmount(t, "57.50", session.Draft.Price.Total)
}

func TestAdvanceBlockedByValidation(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))

	err := m.Advance()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StateSelectingPets, session.State, "machine stays in place on failure")
	assert.NotEmpty(t, session.LastStepError)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	assert.Equal(t, StateSchedulingDates, session.State)
	assert.Empty(t, session.LastStepError)
}

func TestAdvanceRejectsInvertedSchedule(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, _ := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, start.Add(-time.Hour)))

	err := m.Advance()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StateSchedulingDates, session.State)
}

func TestBackNavigationKeepsDraft(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	require.Equal(t, StateReviewingAndPaying, session.State)

	require.NoError(t, m.Back())
	require.Equal(t, StateSchedulingDates, session.State)
	require.NoError(t, m.Back())
	require.Equal(t, StateSelectingPets, session.State)

	assert.Equal(t, []string{"p1"}, session.Draft.SelectedPetIDs)
	assert.Equal(t, start, session.Draft.StartAt)
	require.NotNil(t, session.Draft.Price)
}

func TestReenteringReviewReflectsNewInputs(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	assertAmount(t, "57.50", session.Draft.Price.Total)

	// Navigate back, add pets, come forward again.
	require.NoError(t, m.Back())
	require.NoError(t, m.Back())
	require.NoError(t, m.SelectPet("p2"))
	require.NoError(t, m.SelectPet("p3"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.Advance())

	require.Equal(t, StateReviewingAndPaying, session.State)
	// Recomputed from the new inputs, never a stale cached value.
	assertAmount(t, "115.00", session.Draft.Price.Total)
}

func TestBeginSubmitFreezesSnapshot(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())

	frozen, err := m.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, session.State)

	// The snapshot is a deep copy: session-side changes cannot reach it.
	session.Draft.SelectedPetIDs[0] = "mutated"
	session.Draft.Price.Total = session.Draft.Price.Total.Neg()
	assert.Equal(t, []string{"p1"}, frozen.SelectedPetIDs)
	assertAmount(t, "57.50", frozen.Price.Total)

	// A second submit while one is outstanding is rejected.
	_, err = m.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	// So are draft mutations and backward navigation.
	assert.ErrorIs(t, m.SelectPet("p9"), ErrDraftLocked)
	assert.ErrorIs(t, m.Back(), ErrDraftLocked)
}

func TestBeginSubmitOnlyFromReview(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))

	_, err := m.BeginSubmit()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StateSelectingPets, session.State)
}

func TestCompleteSubmitTerminalStates(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	_, err := m.BeginSubmit()
	require.NoError(t, err)

	m.CompleteSubmit(&models.BookingSubmission{
		BookingID:       "b-1",
		PaymentIntentID: "pi-1",
		State:           models.SubmissionCompleted,
	})
	assert.Equal(t, StateCompleted, session.State)
	assert.True(t, session.State.IsTerminal())
}

func TestFailedSubmissionResumesPaymentOnly(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	_, err := m.BeginSubmit()
	require.NoError(t, err)

	m.CompleteSubmit(&models.BookingSubmission{
		BookingID:     "b-1",
		State:         models.SubmissionFailed,
		FailureReason: string(ReasonPaymentDeclined),
	})
	require.Equal(t, StateFailed, session.State)

	bookingID, err := m.BeginResume()
	require.NoError(t, err)
	assert.Equal(t, "b-1", bookingID)
	assert.Equal(t, StateSubmitting, session.State)
}

func TestResumeRequiresPendingBooking(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	_, err := m.BeginSubmit()
	require.NoError(t, err)

	// Booking creation itself failed: nothing to resume.
	m.CompleteSubmit(&models.BookingSubmission{
		State:         models.SubmissionFailed,
		FailureReason: string(ReasonBookingCreationFailed),
	})
	require.Equal(t, StateFailed, session.State)

	_, err = m.BeginResume()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// The failed session can instead reopen at review for a full retry.
	require.NoError(t, m.Reopen())
	assert.Equal(t, StateReviewingAndPaying, session.State)
}

func TestStateTransitionTable(t *testing.T) {
	assert.True(t, StateSelectingPets.CanTransitionTo(StateSchedulingDates))
	assert.False(t, StateSelectingPets.CanTransitionTo(StateReviewingAndPaying))
	assert.True(t, StateSubmitting.CanTransitionTo(StateFailed))
	assert.False(t, StateCompleted.CanTransitionTo(StateSelectingPets))
	assert.True(t, StateCompleted.IsTerminal())
	assert.False(t, StateFailed.IsTerminal(), "failed sessions can be reopened")
}

func TestBackLockedOutsideEditingSteps(t *testing.T) {
	m, session := newTestMachine(t, boardingOffering(5000))
	start, end := scheduleFrom(testClock)

	require.NoError(t, m.SelectPet("p1"))
	require.NoError(t, m.Advance())
	require.NoError(t, m.SetSchedule(start, end))
	require.NoError(t, m.Advance())
	_, err := m.BeginSubmit()
	require.NoError(t, err)

	assert.ErrorIs(t, m.Back(), ErrDraftLocked)

	m.CompleteSubmit(&models.BookingSubmission{
		State:         models.SubmissionFailed,
		FailureReason: string(ReasonPaymentDeclined),
	})
	require.Equal(t, StateFailed, session.State)

	// A failed session exits via Reopen or BeginResume, never navigation.
	assert.ErrorIs(t, m.Back(), ErrDraftLocked)
	assert.Equal(t, StateFailed, session.State)
}
