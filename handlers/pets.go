package handlers

import (
	"net/http"

	"petbnb/middleware"
	"petbnb/services/pets"
	"petbnb/utils"

	"github.com/gin-gonic/gin"
)

// PetsHandler lists the pets on the authenticated owner's profile.
type PetsHandler struct {
	Directory *pets.Directory
}

func NewPetsHandler(directory *pets.Directory) *PetsHandler {
	return &PetsHandler{Directory: directory}
}

// ListPets returns the owner's pets.
func (h *PetsHandler) ListPets(c *gin.Context) {
	list, err := h.Directory.ListPets(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list pets", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": list})
}
