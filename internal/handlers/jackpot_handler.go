package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// JackpotHandler handles the jackpot approval workflow.
type JackpotHandler struct {
	lotteryService services.LotteryService
}

// NewJackpotHandler creates a new JackpotHandler.
func NewJackpotHandler(lotteryService services.LotteryService) *JackpotHandler {
	return &JackpotHandler{lotteryService: lotteryService}
}

// GetPendingWinners handles GET /admin/jackpot/pending
func (h *JackpotHandler) GetPendingWinners(c *gin.Context) {
	tickets, err := h.lotteryService.PendingJackpotWinners(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pending winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// Approve handles POST /admin/jackpot/:ticketId/approve
func (h *JackpotHandler) Approve(c *gin.Context) {
	ticketID, err := primitive.ObjectIDFromHex(c.Param("ticketId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	ticket, err := h.lotteryService.ApproveJackpotWinner(c.Request.Context(), ticketID, callerID(c))
	if err != nil {
		h.approvalError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject handles POST /admin/jackpot/:ticketId/reject
func (h *JackpotHandler) Reject(c *gin.Context) {
	ticketID, err := primitive.ObjectIDFromHex(c.Param("ticketId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.lotteryService.RejectJackpotWinner(c.Request.Context(), ticketID, callerID(c), req.Reason)
	if err != nil {
		h.approvalError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// GetRollovers handles GET /admin/jackpot/rollovers
func (h *JackpotHandler) GetRollovers(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "90"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
		return
	}

	rollovers, err := h.lotteryService.RolloverHistory(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rollover history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, rollovers)
}

func (h *JackpotHandler) approvalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, services.ErrNotPendingJackpot):
		c.JSON(http.StatusConflict, gin.H{"error": "Ticket is not a pending jackpot win"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process approval: " + err.Error()})
	}
}
