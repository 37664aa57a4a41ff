package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/repositories"
	"github.com/lottohaus/worldlotto-backend/internal/services"
	"github.com/lottohaus/worldlotto-backend/internal/utils"
)

// AdminHandler handles admin settings, the reserve fund, the audit log
// and bulk account imports.
type AdminHandler struct {
	settingsService services.SettingsService
	lotteryService  services.LotteryService
	eventRepo       repositories.EventRepository
	importer        *utils.CSVImporter
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(settingsService services.SettingsService, lotteryService services.LotteryService, eventRepo repositories.EventRepository, importer *utils.CSVImporter) *AdminHandler {
	return &AdminHandler{
		settingsService: settingsService,
		lotteryService:  lotteryService,
		eventRepo:       eventRepo,
		importer:        importer,
	}
}

func actorName(c *gin.Context) string {
	return callerID(c).Hex()
}

// GetSettings handles GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Settings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSalesStop handles PUT /admin/settings/sales-stop
func (h *AdminHandler) SetSalesStop(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.SetManualSalesStop(c.Request.Context(), *req.Enabled, actorName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SetIntelligentDrawing handles PUT /admin/settings/intelligent-drawing
func (h *AdminHandler) SetIntelligentDrawing(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.SetIntelligentDrawing(c.Request.Context(), *req.Enabled, actorName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type exemptUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

// SetExemptUsers handles PUT /admin/settings/exempt-users
func (h *AdminHandler) SetExemptUsers(c *gin.Context) {
	var req exemptUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format: " + raw})
			return
		}
		ids = append(ids, id)
	}

	settings, err := h.settingsService.SetCutoffExemptUsers(c.Request.Context(), ids, actorName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type blockedCountriesRequest struct {
	Countries []string `json:"countries"`
}

// SetBlockedCountries handles PUT /admin/settings/blocked-countries
func (h *AdminHandler) SetBlockedCountries(c *gin.Context) {
	var req blockedCountriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.SetBlockedCountries(c.Request.Context(), req.Countries, actorName(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetReserveFund handles GET /admin/reserve-fund
func (h *AdminHandler) GetReserveFund(c *gin.Context) {
	amount, err := h.lotteryService.ReserveFund(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reserve fund: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reserveFund": amount})
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

// SetReserveFund handles PUT /admin/reserve-fund
func (h *AdminHandler) SetReserveFund(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lotteryService.SetReserveFund(c.Request.Context(), req.Amount); err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reserve fund must not be negative"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set reserve fund: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reserveFund": req.Amount})
}

// AddToReserveFund handles POST /admin/reserve-fund/add
func (h *AdminHandler) AddToReserveFund(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.lotteryService.AddToReserveFund(c.Request.Context(), req.Amount); err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to reserve fund: " + err.Error()})
		return
	}

	amount, err := h.lotteryService.ReserveFund(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reserve fund: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reserveFund": amount})
}

// ImportUsers handles POST /admin/users/import
func (h *AdminHandler) ImportUsers(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file upload named 'file' is required"})
		return
	}
	defer file.Close()

	result, err := h.importer.ImportUsers(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to import users: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEvents handles GET /admin/events
func (h *AdminHandler) GetEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 1000 {
		limit = 100
	}

	var events []*models.Event
	if eventType := c.Query("type"); eventType != "" {
		events, err = h.eventRepo.FindByType(c.Request.Context(), models.EventType(eventType), limit)
	} else {
		events, err = h.eventRepo.FindRecent(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
