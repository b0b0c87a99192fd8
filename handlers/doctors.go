package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"clinicbook/gateway"
	"clinicbook/middleware"
	"clinicbook/models"
	"clinicbook/services/booking"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DoctorHandler serves the doctors directory and schedules, with a Redis
// read-through cache in front of the clinic backend.
type DoctorHandler struct {
	gw     gateway.ClinicGateway
	cache  *redis.Client
	logger *zap.Logger
}

func NewDoctorHandler(gw gateway.ClinicGateway, cache *redis.Client, logger *zap.Logger) *DoctorHandler {
	return &DoctorHandler{gw: gw, cache: cache, logger: logger}
}

// ListDoctors returns all bookable doctors.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, ok := h.fromCache(ctx, utils.DoctorListCacheKey); ok {
		var doctors []models.Doctor
		if json.Unmarshal(cached, &doctors) == nil {
			c.JSON(http.StatusOK, doctors)
			return
		}
	}

	doctors, err := h.gw.ListDoctors(ctx, middleware.Token(c))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	h.toCache(ctx, utils.DoctorListCacheKey, doctors)
	c.JSON(http.StatusOK, doctors)
}

// GetSchedule returns one doctor's normalized schedule.
func (h *DoctorHandler) GetSchedule(c *gin.Context) {
	ctx := c.Request.Context()
	doctorID := c.Param("id")
	cacheKey := utils.ScheduleCacheKey(doctorID)

	if cached, ok := h.fromCache(ctx, cacheKey); ok {
		var schedule models.DoctorSchedule
		if json.Unmarshal(cached, &schedule) == nil {
			c.JSON(http.StatusOK, schedule)
			return
		}
	}

	raw, err := h.gw.FetchDoctorSchedule(ctx, middleware.Token(c), doctorID)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	schedule := booking.NormalizeSchedule(doctorID, raw.Availability, time.Now(), h.logger)
	h.toCache(ctx, cacheKey, schedule)
	c.JSON(http.StatusOK, schedule)
}

// GetProfile proxies the authenticated patient's profile.
func (h *DoctorHandler) GetProfile(c *gin.Context) {
	profile, err := h.gw.CurrentProfile(c.Request.Context(), middleware.Token(c))
	if err != nil {
		respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *DoctorHandler) fromCache(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	data, err := h.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (h *DoctorHandler) toCache(ctx context.Context, key string, v any) {
	if h.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, data, utils.ScheduleCacheTTL()).Err(); err != nil {
		h.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
