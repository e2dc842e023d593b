package handlers

import (
	"net/http"
	"strconv"
	"time"

	bookingRepo "carhive/database/repository/booking"
	"carhive/models"
	"carhive/services/booking"
	"carhive/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateBooking creates a booking from a draft.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// UpdateBookingStatus moves one booking to a new status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var input struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// BulkUpdateBookingStatus moves a set of bookings to a new status.
func (h *BookingHandler) BulkUpdateBookingStatus(c *gin.Context) {
	var input struct {
		IDs    []string             `json:"ids"`
		Status models.BookingStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	changed, err := h.svc.BulkUpdateStatus(c.Request.Context(), input.IDs, input.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// RequestCancellation records the customer's one-time cancellation request.
func (h *BookingHandler) RequestCancellation(c *gin.Context) {
	accepted, err := h.svc.RequestCancellation(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

// DeleteBookings removes bookings and their linked additional drivers.
func (h *BookingHandler) DeleteBookings(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), input.IDs)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type searchRequest struct {
	SupplierIDs       []string               `json:"supplierIds"`
	Statuses          []models.BookingStatus `json:"statuses"`
	DriverID          string                 `json:"driverId"`
	CarID             string                 `json:"carId"`
	PickupLocationID  string                 `json:"pickupLocationId"`
	DropOffLocationID string                 `json:"dropOffLocationId"`
	From              *time.Time             `json:"from"`
	To                *time.Time             `json:"to"`
	Keyword           string                 `json:"keyword"`
	Language          string                 `json:"language"`
}

// SearchBookings runs the filtered, paginated listing query. Page numbers
// are 1-indexed path parameters.
func (h *BookingHandler) SearchBookings(c *gin.Context) {
	page, err := strconv.ParseInt(c.Param("page"), 10, 64)
	if err != nil || page < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "page must be a positive integer")
		return
	}
	pageSize, err := strconv.ParseInt(c.Param("size"), 10, 64)
	if err != nil || pageSize < 1 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "size must be a positive integer")
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	filter := bookingRepo.SearchFilter{
		SupplierIDs:       req.SupplierIDs,
		Statuses:          req.Statuses,
		DriverID:          req.DriverID,
		CarID:             req.CarID,
		PickupLocationID:  req.PickupLocationID,
		DropOffLocationID: req.DropOffLocationID,
		From:              req.From,
		To:                req.To,
		Keyword:           req.Keyword,
		Language:          req.Language,
	}

	result, err := h.svc.Search(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
