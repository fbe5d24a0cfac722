package models

import "time"

// Pet represents a pet on an owner's profile.
type Pet struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	Name      string    `bson:"name" json:"name"`
	Breed     string    `bson:"breed" json:"breed"`
	Age       int       `bson:"age" json:"age"`                 // Age in years
	WeightKg  float64   `bson:"weight_kg" json:"weight_kg"`     // Weight in kilograms
	Gender    string    `bson:"gender" json:"gender"`           // e.g., "male", "female"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
