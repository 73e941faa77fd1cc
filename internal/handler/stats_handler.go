package handler

import (
	"taskboard/internal/service"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StatsHandler serves dashboard statistics.
type StatsHandler struct {
	service service.StatsServicer
	log     logrus.FieldLogger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service service.StatsServicer, log logrus.FieldLogger) *StatsHandler {
	return &StatsHandler{service: service, log: log}
}

// GetStats godoc
// @Summary      Task statistics
// @Description  Counts by status, priority and team for the caller's scope. totalUsers is included for admins only.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  response.Response{data=models.TaskStats}
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, stats)
}
