package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	providerRepo "lexbook/database/repository/provider"
	"lexbook/services/provider"
)

// ProviderHandler exposes the lawyer directory over HTTP.
type ProviderHandler struct {
	Directory provider.DirectoryService
	Schedule  provider.ScheduleService
}

func NewProviderHandler(directory provider.DirectoryService, schedule provider.ScheduleService) *ProviderHandler {
	return &ProviderHandler{Directory: directory, Schedule: schedule}
}

// SearchProviders searches the directory by query string parameters.
func (h *ProviderHandler) SearchProviders(c *gin.Context) {
	criteria := providerRepo.ProviderSearchCriteria{
		Query:          c.Query("q"),
		Specialization: c.Query("specialization"),
		Mode:           c.Query("mode"),
		VerifiedOnly:   c.Query("verifiedOnly") == "true",
	}
	if raw := c.Query("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minRating", "details": err.Error()})
			return
		}
		criteria.MinRating = rating
	}

	providers, err := h.Directory.Search(c.Request.Context(), criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider search failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// PublishSchedule lets a provider publish bookable slots for a day.
func (h *ProviderHandler) PublishSchedule(c *gin.Context) {
	var input struct {
		Date  string               `json:"date" binding:"required"`
		Slots []provider.SlotOffer `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slots, err := h.Schedule.PublishSchedule(c.Request.Context(), c.Param("id"), input.Date, input.Slots)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to publish schedule", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

// GetProviderByID returns a single provider profile.
func (h *ProviderHandler) GetProviderByID(c *gin.Context) {
	p, err := h.Directory.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch provider", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}
