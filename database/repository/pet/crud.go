package petRepo

import (
	"context"
	"errors"
	"time"

	"petbnb/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new pet and returns its ID.
func (r *mongoPetRepo) Create(ctx context.Context, pet models.Pet) (string, error) {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, pet); err != nil {
		return "", err
	}
	return pet.ID, nil
}

// GetByID returns a pet by its ID.
func (r *mongoPetRepo) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// GetByOwnerID fetches all pets belonging to an owner.
func (r *mongoPetRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]models.Pet, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err := cursor.All(ctx, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// DeleteByID removes a pet by ID.
func (r *mongoPetRepo) DeleteByID(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errors.New("pet not found")
	}
	return nil
}
