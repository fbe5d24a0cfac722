package checkout

import (
	"fmt"
	"time"

	"petbnb/models"

	"github.com/shopspring/decimal"
)

// Validator checks draft completeness and consistency at step boundaries.
// Validation is synchronous, has no side effects, and is re-run on every
// forward-transition attempt; results are never cached across mutations.
type Validator struct {
	// Now is the wall clock used for the not-in-the-past check. It is called
	// fresh on every validation.
	Now func() time.Time
}

func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

// ValidateStep applies the rules of the given wizard step to the draft.
// It returns nil or a *ValidationError describing what the user must correct.
func (v *Validator) ValidateStep(step State, draft *models.BookingDraft, offering models.ServiceOffering) error {
	switch step {
	case StateSelectingPets:
		return v.validatePets(draft, offering)
	case StateSchedulingDates:
		return v.validateSchedule(draft)
	case StateReviewingAndPaying:
		// Defensive re-check: the draft must not have regressed while the user
		// navigated backward and forward again.
		if err := v.validatePets(draft, offering); err != nil {
			return err
		}
		if err := v.validateSchedule(draft); err != nil {
			return err
		}
		if draft.Price == nil || !draft.Price.Total.GreaterThan(decimal.Zero) {
			return &ValidationError{Step: step, Reason: "price total must be greater than zero"}
		}
		return nil
	default:
		return &ValidationError{Step: step, Reason: fmt.Sprintf("step %s has no validation rules", step)}
	}
}

func (v *Validator) validatePets(draft *models.BookingDraft, offering models.ServiceOffering) error {
	if len(draft.SelectedPetIDs) == 0 {
		return &ValidationError{Step: StateSelectingPets, Reason: "select at least one pet"}
	}
	if len(draft.SelectedPetIDs) > offering.MaxPets {
		return &ValidationError{
			Step:   StateSelectingPets,
			Reason: fmt.Sprintf("at most %d pets can be selected for this service", offering.MaxPets),
		}
	}
	return nil
}

func (v *Validator) validateSchedule(draft *models.BookingDraft) error {
	if draft.StartAt.IsZero() || draft.EndAt.IsZero() {
		return &ValidationError{Step: StateSchedulingDates, Reason: "start and end date/time are required"}
	}
	if !draft.EndAt.After(draft.StartAt) {
		return &ValidationError{Step: StateSchedulingDates, Reason: "end date/time must be after start date/time"}
	}
	if draft.StartAt.Before(v.Now()) {
		return &ValidationError{Step: StateSchedulingDates, Reason: "start date/time cannot be in the past"}
	}
	return nil
}
