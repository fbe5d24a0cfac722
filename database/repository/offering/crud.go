package offeringRepo

import (
	"context"
	"fmt"
	"time"

	"petbnb/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new offering and returns its ID. Offerings are immutable
// once published; price changes are modelled as new offerings.
func (r *mongoOfferingRepo) Create(ctx context.Context, offering models.ServiceOffering) (string, error) {
	if !offering.ServiceType.IsValid() {
		return "", fmt.Errorf("unknown service type: %s", offering.ServiceType)
	}
	if offering.MaxPets < 1 {
		return "", fmt.Errorf("max pets must be at least 1")
	}
	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	offering.CreatedAt = time.Now()
	offering.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, offering); err != nil {
		return "", err
	}
	return offering.ID, nil
}

// GetByID returns an offering by its ID.
func (r *mongoOfferingRepo) GetByID(ctx context.Context, id string) (*models.ServiceOffering, error) {
	var offering models.ServiceOffering
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&offering); err != nil {
		return nil, err
	}
	return &offering, nil
}

// GetByCaregiverID fetches all offerings published by a caregiver.
func (r *mongoOfferingRepo) GetByCaregiverID(ctx context.Context, caregiverID string) ([]models.ServiceOffering, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"caregiver_id": caregiverID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offerings []models.ServiceOffering
	if err := cursor.All(ctx, &offerings); err != nil {
		return nil, err
	}
	return offerings, nil
}
