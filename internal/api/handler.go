package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/water-insights/internal/dataset"
	"github.com/mr1hm/water-insights/internal/forecast"
	"github.com/mr1hm/water-insights/internal/ingestion"
	"github.com/mr1hm/water-insights/internal/models"
	"github.com/mr1hm/water-insights/internal/projection"
	"github.com/mr1hm/water-insights/internal/render"
	"github.com/mr1hm/water-insights/internal/repository"
)

type DatasetSource interface {
	Current() *ingestion.Snapshot
}

type Forecaster interface {
	Assemble(ctx context.Context, country string, targetYear int, history []models.Observation) (*models.ForecastSeries, error)
}

type HealthChecker interface {
	Health(ctx context.Context) error
}

// Recorder hands a completed forecast off for persistence. It must not block
// for long; the server wires it to a worker pool.
type Recorder func(r models.PredictionRecord)

type Handler struct {
	source     DatasetSource
	forecaster Forecaster
	predictor  HealthChecker
	history    repository.HistoryRepository
	record     Recorder
}

func NewHandler(source DatasetSource, forecaster Forecaster, predictor HealthChecker, history repository.HistoryRepository, record Recorder) *Handler {
	return &Handler{
		source:     source,
		forecaster: forecaster,
		predictor:  predictor,
		history:    history,
		record:     record,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)

	r.GET("/api/countries", h.getCountries)
	r.GET("/api/countries/:country", h.getCountry)

	dash := r.Group("/api/dashboard", h.requireDataset, h.requireCriteria)
	dash.GET("/trend", h.getTrend)
	dash.GET("/latest", h.getLatest)
	dash.GET("/sectors", h.getSectors)
	dash.GET("/radar", h.getRadar)
	dash.GET("/summary", h.getSummary)

	r.POST("/api/forecast", h.requireDataset, h.postForecast)

	r.GET("/charts/dashboard", h.requireDataset, h.requireCriteria, h.dashboardChart)
	r.GET("/charts/forecast", h.requireDataset, h.forecastChart)

	r.GET("/api/history", h.listHistory)
	r.GET("/api/history/:id", h.getHistory)
	r.DELETE("/api/history/:id", h.deleteHistory)
	r.DELETE("/api/history", h.clearHistory)
}

const (
	snapshotKey = "snapshot"
	criteriaKey = "criteria"
)

func (h *Handler) requireDataset(c *gin.Context) {
	snap := h.source.Current()
	if snap == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
		return
	}
	c.Set(snapshotKey, snap)
	c.Next()
}

func snapshot(c *gin.Context) *ingestion.Snapshot {
	return c.MustGet(snapshotKey).(*ingestion.Snapshot)
}

// requireCriteria must run after requireDataset.
func (h *Handler) requireCriteria(c *gin.Context) {
	criteria, err := parseCriteria(c, snapshot(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Set(criteriaKey, criteria)
	c.Next()
}

func criteriaOf(c *gin.Context) projection.Criteria {
	return c.MustGet(criteriaKey).(projection.Criteria)
}

func (h *Handler) health(c *gin.Context) {
	resp := gin.H{"status": "ok", "dataset_loaded": false, "countries": 0}
	if snap := h.source.Current(); snap != nil {
		resp["dataset_loaded"] = true
		resp["countries"] = len(snap.Countries)
		resp["rows"] = len(snap.Dataset)
		resp["loaded_at"] = snap.LoadedAt
	}
	if h.predictor != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.predictor.Health(ctx); err != nil {
			resp["predictor"] = "unavailable"
		} else {
			resp["predictor"] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCountries(c *gin.Context) {
	countries := []string{}
	if snap := h.source.Current(); snap != nil {
		countries = snap.Countries
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

func (h *Handler) getCountry(c *gin.Context) {
	snap := h.source.Current()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset not loaded"})
		return
	}

	country := c.Param("country")
	rows := dataset.SliceByCountry(snap.Dataset, country)
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data for country: " + country})
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country, "observations": rows})
}

func (h *Handler) getTrend(c *gin.Context) {
	snap, criteria := snapshot(c), criteriaOf(c)
	c.JSON(http.StatusOK, gin.H{"criteria": criteria, "trend": projection.Trend(snap.Dataset, criteria)})
}

func (h *Handler) getLatest(c *gin.Context) {
	snap, criteria := snapshot(c), criteriaOf(c)
	c.JSON(http.StatusOK, gin.H{"criteria": criteria, "year": criteria.Years.Max, "rows": projection.LatestYear(snap.Dataset, criteria)})
}

func (h *Handler) getSectors(c *gin.Context) {
	snap, criteria := snapshot(c), criteriaOf(c)
	c.JSON(http.StatusOK, gin.H{"criteria": criteria, "year": criteria.Years.Max, "rows": projection.SectorShares(snap.Dataset, criteria)})
}

func (h *Handler) getRadar(c *gin.Context) {
	snap, criteria := snapshot(c), criteriaOf(c)
	c.JSON(http.StatusOK, gin.H{"criteria": criteria, "radar": projection.Radar(snap.Dataset, criteria)})
}

func (h *Handler) getSummary(c *gin.Context) {
	snap, criteria := snapshot(c), criteriaOf(c)

	resp := gin.H{"criteria": criteria, "summary": nil}
	if stats, ok := projection.Summary(snap.Dataset, criteria); ok {
		resp["summary"] = stats
	}
	c.JSON(http.StatusOK, resp)
}

type forecastRequest struct {
	Country string `json:"country" binding:"required"`
	Year    int    `json:"year" binding:"required"`
}

func (h *Handler) postForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing country or year parameter"})
		return
	}

	series, ok := h.assemble(c, req.Country, req.Year)
	if !ok {
		return
	}

	if h.record != nil && series.Horizon() > 0 {
		h.record(models.PredictionRecord{
			ID:            uuid.NewString(),
			Country:       series.Country,
			BaselineYear:  series.BaselineYear,
			TargetYear:    series.TargetYear,
			BaselineValue: series.BaselineValue,
			Predicted:     series.Predicted,
			Growth:        series.Growth,
			CreatedAt:     time.Now(),
		})
	}

	c.JSON(http.StatusOK, series)
}

// assemble writes the error response itself and reports whether a series was built.
func (h *Handler) assemble(c *gin.Context, country string, year int) (*models.ForecastSeries, bool) {
	history := dataset.SliceByCountry(snapshot(c).Dataset, country)
	series, err := h.forecaster.Assemble(c.Request.Context(), country, year, history)
	if err == nil {
		return series, true
	}

	var noHistory *forecast.NoHistoryError
	var tooLong *forecast.HorizonTooLongError
	var unavailable *forecast.PredictorUnavailableError
	switch {
	case errors.As(err, &noHistory):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data available for country: " + country})
	case errors.As(err, &tooLong):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    fmt.Sprintf("target year must be at most %d years after %d", tooLong.Max, tooLong.BaselineYear),
			"max_year": tooLong.BaselineYear + tooLong.Max,
		})
	case errors.As(err, &unavailable):
		slog.Error("forecast failed", "country", country, "year", year, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate predictions, predictor unavailable"})
	default:
		slog.Error("forecast failed", "country", country, "year", year, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate predictions"})
	}
	return nil, false
}

func (h *Handler) dashboardChart(c *gin.Context) {
	var buf bytes.Buffer
	if err := render.Dashboard(&buf, snapshot(c).Dataset, criteriaOf(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) forecastChart(c *gin.Context) {
	country := c.Query("country")
	year, err := strconv.Atoi(c.Query("year"))
	if country == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing country or year parameter"})
		return
	}

	series, ok := h.assemble(c, country, year)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.Forecast(&buf, series); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) listHistory(c *gin.Context) {
	filter := repository.Filter{
		Limit:   20,
		Country: c.Query("country"),
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}
	if o := c.Query("offset"); o != "" {
		if off, err := strconv.Atoi(o); err == nil && off >= 0 {
			filter.Offset = off
		}
	}

	records, err := h.history.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("failed to list history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": records})
}

func (h *Handler) getHistory(c *gin.Context) {
	record, err := h.history.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("failed to get history", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch prediction"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) deleteHistory(c *gin.Context) {
	deleted, err := h.history.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("failed to delete history", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete prediction"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearHistory(c *gin.Context) {
	n, err := h.history.DeleteAll(c.Request.Context())
	if err != nil {
		slog.Error("failed to clear history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
