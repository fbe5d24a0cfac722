package offeringRepo

import (
	"context"

	"petbnb/database"
	"petbnb/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OfferingRepository defines data access for caregiver service offerings.
type OfferingRepository interface {
	Create(ctx context.Context, offering models.ServiceOffering) (string, error)
	GetByID(ctx context.Context, id string) (*models.ServiceOffering, error)
	GetByCaregiverID(ctx context.Context, caregiverID string) ([]models.ServiceOffering, error)
}

type mongoOfferingRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferingRepo returns a new OfferingRepository instance using MongoDB.
func NewMongoOfferingRepo() OfferingRepository {
	return &mongoOfferingRepo{
		coll: database.DB().Collection("service_offerings"),
	}
}
