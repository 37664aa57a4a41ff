package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// UserHandler handles account and balance HTTP requests.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func callerID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get("userId")
	oid, _ := id.(primitive.ObjectID)
	return oid
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type depositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Deposit handles POST /users/me/deposit
func (h *UserHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Deposit(c.Request.Context(), callerID(c), req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deposit amount must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deposit: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Transactions handles GET /users/me/transactions
func (h *UserHandler) Transactions(c *gin.Context) {
	txs, err := h.userService.Transactions(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GetAllUsers handles GET /admin/users
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByID handles GET /admin/users/:id
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GrantAdmin handles POST /admin/users/:id/grant-admin
func (h *UserHandler) GrantAdmin(c *gin.Context) {
	h.setRole(c, true)
}

// RevokeAdmin handles POST /admin/users/:id/revoke-admin
func (h *UserHandler) RevokeAdmin(c *gin.Context) {
	h.setRole(c, false)
}

func (h *UserHandler) setRole(c *gin.Context, grant bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var user interface{}
	if grant {
		user, err = h.userService.GrantAdmin(c.Request.Context(), id, callerID(c))
	} else {
		user, err = h.userService.RevokeAdmin(c.Request.Context(), id, callerID(c))
	}
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change role: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}
