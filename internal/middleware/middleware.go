package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/lottohaus/worldlotto-backend/internal/config"
	"github.com/lottohaus/worldlotto-backend/internal/models"
	"github.com/lottohaus/worldlotto-backend/internal/services"
	"github.com/lottohaus/worldlotto-backend/internal/utils"
	"github.com/lottohaus/worldlotto-backend/pkg/geoip"
)

// JWTAuthMiddleware validates the Bearer token and stores the caller's
// identity in the gin context.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], cfg)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)

		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}

// AdminRequired rejects callers whose token does not carry the admin role.
// Must run after JWTAuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("role"); role != string(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware sets the CORS headers for the configured hosts.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", strings.Join(cfg.Server.AllowedHosts, ","))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware attaches a request ID, generating one when the
// client did not send it.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestId", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// LoggerMiddleware logs one structured line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"requestId", c.GetString("requestId"),
			"clientIp", c.ClientIP())
	}
}

// GeoBlockMiddleware rejects purchase requests originating from blocked
// countries. Lookup failures fail open: geoblocking is best effort and
// must not take down ticket sales.
func GeoBlockMiddleware(settingsService services.SettingsService, resolver geoip.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := settingsService.Settings(c.Request.Context())
		if err != nil || len(settings.BlockedCountries) == 0 {
			c.Next()
			return
		}

		country, err := resolver.CountryCode(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("GeoIP lookup failed, allowing request", "error", err, "clientIp", c.ClientIP())
			c.Next()
			return
		}
		if settings.IsCountryBlocked(country) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Purchases are not available in your country"})
			c.Abort()
			return
		}
		c.Next()
	}
}
