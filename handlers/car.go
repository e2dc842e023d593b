package handlers

import (
	"net/http"

	"carhive/models"
	"carhive/services/car"
	"carhive/utils"

	"github.com/gin-gonic/gin"
)

// CarHandler exposes fleet management over HTTP.
type CarHandler struct {
	svc car.CarService
}

func NewCarHandler(svc car.CarService) *CarHandler {
	return &CarHandler{svc: svc}
}

func (h *CarHandler) CreateCar(c *gin.Context) {
	var input models.Car
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.SupplierID = c.GetString("userID")

	created, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CarHandler) UpdateCar(c *gin.Context) {
	var input models.Car
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	input.ID = c.Param("id")

	updated, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CarHandler) GetCar(c *gin.Context) {
	found, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *CarHandler) GetSupplierCars(c *gin.Context) {
	cars, err := h.svc.GetBySupplier(c.Request.Context(), c.Param("supplierId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (h *CarHandler) DeleteCar(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
