package pets

import (
	"context"
	"fmt"

	petRepo "petbnb/database/repository/pet"
	"petbnb/models"
)

// Directory exposes an owner's pets to the checkout flow. Read-only.
type Directory struct {
	Repo petRepo.PetRepository
}

func NewDirectory(repo petRepo.PetRepository) *Directory {
	return &Directory{Repo: repo}
}

// ListPets returns all pets on the owner's profile.
func (d *Directory) ListPets(ctx context.Context, ownerID string) ([]models.Pet, error) {
	pets, err := d.Repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets for owner %s: %w", ownerID, err)
	}
	return pets, nil
}
