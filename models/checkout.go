package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBreakdown is the itemized price computed for a booking draft. It is derived
// data: recomputed whole whenever the inputs change, never patched field by field.
type PriceBreakdown struct {
	BaseAmount           decimal.Decimal `json:"base_amount"`
	AdditionalPetsAmount decimal.Decimal `json:"additional_pets_amount"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	PlatformFee          decimal.Decimal `json:"platform_fee"`
	Total                decimal.Decimal `json:"total"`
}

// BookingDraft is the in-progress, user-editable booking. It is owned exclusively
// by one checkout session; the price breakdown always reflects the current pets
// and dates.
type BookingDraft struct {
	SelectedPetIDs      []string        `json:"selected_pet_ids"`
	StartAt             time.Time       `json:"start_at"`
	EndAt               time.Time       `json:"end_at"`
	SpecialRequirements string          `json:"special_requirements,omitempty"`
	Price               *PriceBreakdown `json:"price,omitempty"`
}

// HasPet reports whether the given pet is already selected.
func (d *BookingDraft) HasPet(petID string) bool {
	for _, id := range d.SelectedPetIDs {
		if id == petID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the draft. Used to freeze a snapshot at submit time.
func (d *BookingDraft) Clone() BookingDraft {
	out := *d
	out.SelectedPetIDs = append([]string(nil), d.SelectedPetIDs...)
	if d.Price != nil {
		price := *d.Price
		out.Price = &price
	}
	return out
}
