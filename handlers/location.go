package handlers

import (
	"errors"
	"net/http"

	locationRepo "carhive/database/repository/location"
	"carhive/models"
	"carhive/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// LocationHandler exposes pickup/drop-off location management. Locations are
// plain reference data, so the handler talks to the repository directly.
type LocationHandler struct {
	repo locationRepo.LocationRepository
}

func NewLocationHandler(repo locationRepo.LocationRepository) *LocationHandler {
	return &LocationHandler{repo: repo}
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var input models.Location
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if len(input.Values) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "at least one localized name is required")
		return
	}

	id, err := h.repo.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, utils.PersistenceError{Op: "location create", Err: err})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *LocationHandler) GetLocation(c *gin.Context) {
	loc, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, utils.PersistenceError{Op: "location read", Err: err})
		return
	}
	if loc == nil {
		utils.RespondError(c, utils.NotFoundError{Resource: "location", ID: c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *LocationHandler) ListLocations(c *gin.Context) {
	locations, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		utils.RespondError(c, utils.PersistenceError{Op: "location list", Err: err})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var input models.Location
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.ID = c.Param("id")

	if err := h.repo.Update(c.Request.Context(), input); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondError(c, utils.NotFoundError{Resource: "location", ID: input.ID})
			return
		}
		utils.RespondError(c, utils.PersistenceError{Op: "location update", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.repo.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondError(c, utils.NotFoundError{Resource: "location", ID: c.Param("id")})
			return
		}
		utils.RespondError(c, utils.PersistenceError{Op: "location delete", Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
