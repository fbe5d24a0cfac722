package petRepo

import (
	"context"

	"petbnb/database"
	"petbnb/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PetRepository defines data access for pets on owner profiles.
type PetRepository interface {
	Create(ctx context.Context, pet models.Pet) (string, error)
	GetByID(ctx context.Context, id string) (*models.Pet, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]models.Pet, error)
	DeleteByID(ctx context.Context, id string) error
}

type mongoPetRepo struct {
	coll *mongo.Collection
}

// NewMongoPetRepo returns a new PetRepository instance using MongoDB.
func NewMongoPetRepo() PetRepository {
	return &mongoPetRepo{
		coll: database.DB().Collection("pets"),
	}
}
