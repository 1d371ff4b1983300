package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/export"
	"surveillance-dashboard/internal/realtime"
	"surveillance-dashboard/internal/service"
	"surveillance-dashboard/internal/view"
)

type Handler struct {
	statsService  *service.StatsService
	ingestService *service.IngestService
	hub           *realtime.Hub
	streamURL     string
	log           zerolog.Logger
	now           func() time.Time
}

func NewHandler(
	statsService *service.StatsService,
	ingestService *service.IngestService,
	hub *realtime.Hub,
	streamURL string,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		statsService:  statsService,
		ingestService: ingestService,
		hub:           hub,
		streamURL:     streamURL,
		log:           log,
		now:           time.Now,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/events", h.ingestEvent)
		api.GET("/events/export", h.exportEvents)
		api.GET("/stats", h.getStats)
		api.GET("/cameras", h.listCameras)
		api.GET("/cameras/:id/events", h.listCameraEvents)
		api.GET("/alerts/ws", h.subscribeAlerts)
	}

	// Готовые данные для экранов дашборда
	views := api.Group("/views")
	{
		views.GET("/overview", h.getOverview)
		views.GET("/events", h.getEventsView)
		views.GET("/alarms", h.getAlarms)
		views.GET("/live-feeds", h.getLiveFeeds)
		views.GET("/map", h.getMap)
		views.GET("/map.geojson", h.getMapGeoJSON)
	}
}

func (h *Handler) ingestEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to read body"))
		return
	}

	payload, err := service.DecodeEventPayload(body)
	if err != nil {
		h.handleError(c, err, "failed to add event")
		return
	}

	if _, err := h.ingestService.Record(c.Request.Context(), "http", payload); err != nil {
		h.handleError(c, err, "failed to add event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// getStats always answers 200 with a complete snapshot.
func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.statsService.Snapshot(c.Request.Context()))
}

func (h *Handler) listCameras(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.statsService.Cameras(c.Request.Context())))
}

func (h *Handler) listCameraEvents(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid camera id"))
		return
	}

	c.JSON(http.StatusOK, successResponse(h.statsService.CameraEvents(c.Request.Context(), id)))
}

func (h *Handler) getOverview(c *gin.Context) {
	snap := h.statsService.Snapshot(c.Request.Context())
	camera := strings.TrimSpace(c.Query("camera"))

	c.JSON(http.StatusOK, successResponse(view.BuildOverview(snap, camera)))
}

func eventFilterFromQuery(c *gin.Context) view.EventFilter {
	return view.EventFilter{
		Camera:     strings.TrimSpace(c.Query("camera")),
		EventType:  strings.TrimSpace(c.Query("event_type")),
		AlertLevel: strings.TrimSpace(c.Query("alert_level")),
		HoursAgo:   view.ParseHours(c.Query("hours")),
		Query:      c.Query("q"),
	}
}

func (h *Handler) getEventsView(c *gin.Context) {
	snap := h.statsService.Snapshot(c.Request.Context())

	c.JSON(http.StatusOK, successResponse(view.BuildEvents(snap, eventFilterFromQuery(c), h.now())))
}

func (h *Handler) exportEvents(c *gin.Context) {
	now := h.now()
	snap := h.statsService.Snapshot(c.Request.Context())
	events := view.BuildEvents(snap, eventFilterFromQuery(c), now)

	data, err := export.EventsWorkbook(events.Events)
	if err != nil {
		h.handleError(c, err, "failed to export events")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(now)+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

func (h *Handler) getAlarms(c *gin.Context) {
	tab, err := view.ParseAlarmTab(c.Query("tab"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	snap := h.statsService.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, successResponse(view.BuildAlarms(snap, tab)))
}

func (h *Handler) getLiveFeeds(c *gin.Context) {
	snap := h.statsService.Snapshot(c.Request.Context())
	fullscreen := strings.TrimSpace(c.Query("fullscreen"))

	c.JSON(http.StatusOK, successResponse(view.BuildLiveFeeds(snap, h.streamURL, fullscreen)))
}

func (h *Handler) getMap(c *gin.Context) {
	cameras := h.statsService.Cameras(c.Request.Context())
	c.JSON(http.StatusOK, successResponse(view.BuildMap(cameras)))
}

func (h *Handler) getMapGeoJSON(c *gin.Context) {
	cameras := h.statsService.Cameras(c.Request.Context())

	data, err := view.BuildMap(cameras).FeatureCollection().MarshalJSON()
	if err != nil {
		h.handleError(c, err, "failed to build map")
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *Handler) subscribeAlerts(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("live alerts disabled"))
		return
	}
	if err := realtime.Serve(h.hub, c.Writer, c.Request); err != nil {
		// Upgrade уже ответил клиенту при ошибке рукопожатия
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
	}
}

// handleError maps service errors to responses. storageMsg is what the
// client sees when the operation failed in storage.
func (h *Handler) handleError(c *gin.Context, err error, storageMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrStorage):
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("storage failure")
		c.JSON(http.StatusInternalServerError, errorResponse(storageMsg))
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
