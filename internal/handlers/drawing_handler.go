package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/services"
)

// DrawingHandler handles drawing lifecycle HTTP requests.
type DrawingHandler struct {
	lotteryService services.LotteryService
}

// NewDrawingHandler creates a new DrawingHandler.
func NewDrawingHandler(lotteryService services.LotteryService) *DrawingHandler {
	return &DrawingHandler{lotteryService: lotteryService}
}

// GetCurrent handles GET /drawings/current
func (h *DrawingHandler) GetCurrent(c *gin.Context) {
	drawing, err := h.lotteryService.CurrentDrawing(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveDrawing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active drawing"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve drawing: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// GetLatest handles GET /drawings/latest
func (h *DrawingHandler) GetLatest(c *gin.Context) {
	drawing, err := h.lotteryService.LatestCompletedDrawing(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrDrawingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No completed drawing yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve drawing: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// GetByID handles GET /drawings/:id
func (h *DrawingHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	drawing, err := h.lotteryService.GetDrawing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrDrawingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Drawing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve drawing: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// GetAll handles GET /drawings
func (h *DrawingHandler) GetAll(c *gin.Context) {
	drawings, err := h.lotteryService.ListDrawings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve drawings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, drawings)
}

// GetJackpotStatus handles GET /jackpot
func (h *DrawingHandler) GetJackpotStatus(c *gin.Context) {
	status, err := h.lotteryService.JackpotStatus(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveDrawing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active drawing"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve jackpot status: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

type performDrawingRequest struct {
	MainNumbers  []int `json:"mainNumbers"`
	WorldNumbers []int `json:"worldNumbers"`
}

// PerformDrawing handles POST /admin/drawings/perform
func (h *DrawingHandler) PerformDrawing(c *gin.Context) {
	var req performDrawingRequest
	// An empty body means automatic number selection.
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	drawing, err := h.lotteryService.PerformDrawing(c.Request.Context(), req.MainNumbers, req.WorldNumbers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNumbers):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrNoActiveDrawing):
			c.JSON(http.StatusConflict, gin.H{"error": "No active drawing to settle"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform drawing: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, drawing)
}

// PreviewDrawing handles GET /admin/drawings/preview
func (h *DrawingHandler) PreviewDrawing(c *gin.Context) {
	useIntelligent, _ := strconv.ParseBool(c.DefaultQuery("intelligent", "false"))

	preview, err := h.lotteryService.PreviewDrawing(c.Request.Context(), useIntelligent)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveDrawing) {
			c.JSON(http.StatusConflict, gin.H{"error": "No active drawing"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to preview drawing: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Recalculate handles POST /admin/drawings/:id/recalculate
func (h *DrawingHandler) Recalculate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.lotteryService.RecalculateDrawingStatistics(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrDrawingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Drawing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recalculated"})
}

type simulatedJackpotRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=0"`
}

// SetSimulatedJackpot handles PUT /admin/jackpot/simulated
func (h *DrawingHandler) SetSimulatedJackpot(c *gin.Context) {
	var req simulatedJackpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	drawing, err := h.lotteryService.SetSimulatedJackpot(c.Request.Context(), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		case errors.Is(err, services.ErrNoActiveDrawing):
			c.JSON(http.StatusConflict, gin.H{"error": "No active drawing"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set jackpot: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, drawing)
}
