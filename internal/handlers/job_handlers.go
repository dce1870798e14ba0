package handlers

import (
	"net/http"

	"bookmart/internal/analytics"
	"bookmart/internal/jobs"
	"bookmart/internal/jobs/background"

	"github.com/labstack/echo/v4"
)

// JobHandlers exposes the catalog analytics snapshot and manual job triggers
type JobHandlers struct {
	analyticsService *analytics.AnalyticsService
	analyticsRefresh *jobs.AnalyticsRefreshService
	scheduler        *background.JobScheduler
}

func NewJobHandlers(
	analyticsService *analytics.AnalyticsService,
	analyticsRefresh *jobs.AnalyticsRefreshService,
	scheduler *background.JobScheduler,
) *JobHandlers {
	return &JobHandlers{
		analyticsService: analyticsService,
		analyticsRefresh: analyticsRefresh,
		scheduler:        scheduler,
	}
}

// GetCatalogAnalytics handles getting the cached catalog statistics snapshot
//
//	@Summary	Get catalog statistics
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/analytics/catalog [get]
func (h *JobHandlers) GetCatalogAnalytics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.analyticsService.GetCatalogStats(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// TriggerAnalyticsRefresh handles recomputing the catalog statistics on demand
//
//	@Summary	Trigger a catalog statistics refresh
//	@Tags		jobs
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/jobs/analytics-refresh [post]
func (h *JobHandlers) TriggerAnalyticsRefresh(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.analyticsRefresh.RefreshCatalogStats(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Analytics refresh completed successfully",
		"result":  result,
	})
}

// GetJobStatus handles listing the scheduled background jobs
//
//	@Summary	Get scheduled job status
//	@Tags		jobs
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/jobs/status [get]
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.scheduler.GetJobStatus())
}
