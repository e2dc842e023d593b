package handlers

import (
	"net/http"

	"carhive/services/user"
	"carhive/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes account management over HTTP.
type UserHandler struct {
	svc user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterUser creates a driver or supplier account.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// AuthenticateUser verifies credentials and returns a signed token.
func (h *UserHandler) AuthenticateUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, token, err := h.svc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		// Do not disclose whether the account exists.
		utils.JSONError(c, http.StatusUnauthorized, "authentication failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// GetUser returns a user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateFCMToken registers the caller's push token.
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	var input struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.svc.UpdateFCMToken(c.Request.Context(), c.GetString("userID"), input.Token); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
