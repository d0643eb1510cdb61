package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
)

// Reads the authenticated user's ID set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	str, ok := value.(string)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}

// Loads the caller's restaurant, writing the error response on failure.
func restaurantOf(c *gin.Context, restaurants *repository.RestaurantRepository) (*models.Restaurant, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	restaurant, err := restaurants.FindByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if restaurant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Create your restaurant first"})
		return nil, false
	}

	return restaurant, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify builds a URL-safe slug with a random suffix to avoid collisions.
func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		slug = "menu"
	}

	return slug + "-" + shortCode(4)
}

// shortCode returns n random bytes hex-encoded (2n characters).
func shortCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		return uuid.New().String()[:2*n]
	}
	return hex.EncodeToString(buf)
}

// Parses 'from' and 'to' query parameters; defaults to the last 30 days.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("from"); fromStr != "" {
		parsedFrom, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			// Try Unix timestamp
			if timestamp, err := strconv.ParseInt(fromStr, 10, 64); err == nil {
				parsedFrom = time.Unix(timestamp, 0)
			} else {
				return time.Time{}, time.Time{}, err
			}
		}
		from = parsedFrom
	}

	if toStr := c.Query("to"); toStr != "" {
		parsedTo, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			// Try Unix timestamp
			if timestamp, err := strconv.ParseInt(toStr, 10, 64); err == nil {
				parsedTo = time.Unix(timestamp, 0)
			} else {
				return time.Time{}, time.Time{}, err
			}
		}
		to = parsedTo
	}

	return from, to, nil
}
