package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// TicketHandler handles ticket purchase and deletion requests.
type TicketHandler struct {
	lotteryService services.LotteryService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(lotteryService services.LotteryService) *TicketHandler {
	return &TicketHandler{lotteryService: lotteryService}
}

type purchaseRequest struct {
	MainNumbers  []int  `json:"mainNumbers"`
	WorldNumbers []int  `json:"worldNumbers"`
	Quantity     int    `json:"quantity"`
	Quicktipp    bool   `json:"quicktipp"`
	CouponCode   string `json:"couponCode"`
}

// CreateTickets handles POST /tickets
func (h *TicketHandler) CreateTickets(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	tickets, err := h.lotteryService.CreateMultipleTickets(c.Request.Context(),
		callerID(c), req.MainNumbers, req.WorldNumbers, req.Quantity, req.Quicktipp, req.CouponCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNumbers):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSalesClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Ticket sales are closed for the current drawing"})
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
		case errors.Is(err, services.ErrNoActiveDrawing):
			c.JSON(http.StatusConflict, gin.H{"error": "No active drawing"})
		case errors.Is(err, services.ErrCouponNotFound), errors.Is(err, services.ErrCouponNotUsable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon is invalid or exhausted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase tickets: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, tickets)
}

// GetMyTickets handles GET /tickets
func (h *TicketHandler) GetMyTickets(c *gin.Context) {
	tickets, err := h.lotteryService.TicketsForUser(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicketsByDrawing handles GET /admin/drawings/:id/tickets
func (h *TicketHandler) GetTicketsByDrawing(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	tickets, err := h.lotteryService.TicketsForDrawing(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// DeleteTicket handles DELETE /admin/tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	deleted, err := h.lotteryService.DeleteTicket(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ticket: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type bulkDeleteRequest struct {
	TicketIDs []string `json:"ticketIds" binding:"required,min=1"`
}

// DeleteTickets handles POST /admin/tickets/delete
func (h *TicketHandler) DeleteTickets(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.TicketIDs))
	for _, raw := range req.TicketIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format: " + raw})
			return
		}
		ids = append(ids, id)
	}

	deleted, err := h.lotteryService.DeleteMultipleTickets(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tickets: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
