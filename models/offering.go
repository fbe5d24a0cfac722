package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType identifies the kind of pet-care service an offering provides.
type ServiceType string

const (
	ServiceBoarding  ServiceType = "boarding"
	ServiceWalking   ServiceType = "walking"
	ServiceGrooming  ServiceType = "grooming"
	ServiceDaycare   ServiceType = "daycare"
	ServiceSitting   ServiceType = "sitting"
	ServiceTransport ServiceType = "transport"
	ServiceCustom    ServiceType = "custom"
)

// IsValid returns true if the service type is a recognized value.
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceBoarding, ServiceWalking, ServiceGrooming, ServiceDaycare,
		ServiceSitting, ServiceTransport, ServiceCustom:
		return true
	}
	return false
}

// ServiceOffering is a bookable service definition published by a caregiver.
// Offerings are immutable from the checkout flow's point of view.
type ServiceOffering struct {
	ID          string      `bson:"id" json:"id"`
	CaregiverID string      `bson:"caregiver_id" json:"caregiver_id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	ServiceType ServiceType `bson:"service_type" json:"service_type"`
	// BasePriceCents is the price per billing unit (per day for boarding, per hour
	// otherwise) in currency minor units.
	BasePriceCents int64  `bson:"base_price_cents" json:"base_price_cents"`
	Currency       string `bson:"currency" json:"currency"` // ISO 4217, e.g. "usd"
	MaxPets        int    `bson:"max_pets" json:"max_pets"`
	// DurationMinutes is set only for fixed-duration service types (e.g., grooming).
	DurationMinutes *int      `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// BasePrice returns the per-unit price as an exact decimal amount.
func (o ServiceOffering) BasePrice() decimal.Decimal {
	return decimal.New(o.BasePriceCents, -2)
}
