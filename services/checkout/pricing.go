package checkout

import (
	"time"

	"petbnb/models"

	"github.com/shopspring/decimal"
)

var (
	// Each additional pet beyond the first is charged half the base price.
	additionalPetRate = decimal.RequireFromString("0.5")
	// The marketplace retains 15% of the subtotal.
	platformFeeRate = decimal.RequireFromString("0.15")
)

// ComputePrice turns an offering, a pet count and a time range into an itemized
// price breakdown. Boarding is billed per started day, every other service type
// per started hour. Derived amounts are rounded to cents half away from zero at
// the point they are computed, so Subtotal and Total are exact sums of their
// components.
//
// The function is pure: identical inputs always produce an identical breakdown.
func ComputePrice(offering models.ServiceOffering, selectedPetCount int, start, end time.Time) (models.PriceBreakdown, error) {
	if selectedPetCount <= 0 {
		return models.PriceBreakdown{}, NewInvalidInputError("at least one pet must be selected")
	}
	if start.IsZero() || end.IsZero() {
		return models.PriceBreakdown{}, NewInvalidInputError("start and end times are required")
	}
	if !end.After(start) {
		return models.PriceBreakdown{}, NewInvalidInputError("end time must be after start time")
	}

	elapsed := end.Sub(start)
	hours := int64(elapsed / time.Hour)
	if elapsed%time.Hour != 0 {
		hours++
	}

	basePrice := offering.BasePrice()
	var baseAmount decimal.Decimal
	if offering.ServiceType == models.ServiceBoarding {
		days := (hours + 23) / 24
		baseAmount = basePrice.Mul(decimal.NewFromInt(days))
	} else {
		baseAmount = basePrice.Mul(decimal.NewFromInt(hours))
	}

	additionalPets := int64(selectedPetCount - 1)
	additionalPetsAmount := basePrice.
		Mul(additionalPetRate).
		Mul(decimal.NewFromInt(additionalPets)).
		Round(2)

	subtotal := baseAmount.Add(additionalPetsAmount)
	platformFee := subtotal.Mul(platformFeeRate).Round(2)
	total := subtotal.Add(platformFee)

	return models.PriceBreakdown{
		BaseAmount:           baseAmount,
		AdditionalPetsAmount: additionalPetsAmount,
		Subtotal:             subtotal,
		PlatformFee:          platformFee,
		Total:                total,
	}, nil
}

// AmountCents converts a two-decimal amount to currency minor units.
func AmountCents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}
