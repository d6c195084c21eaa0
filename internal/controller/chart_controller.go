package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"hydroview/internal/models"
	"hydroview/internal/service"
	"hydroview/internal/utils"
)

const dateLayout = "2006-01-02"

// ChartController handles HTTP requests for chart queries, exports and
// diagnostics.
type ChartController struct {
	service *service.ChartService
}

// NewChartController creates a new ChartController.
func NewChartController(svc *service.ChartService) *ChartController {
	return &ChartController{service: svc}
}

// parseChartQuery reads the query input: inclusive start/end dates,
// grouping mode, selections and smoothing parameters.
func parseChartQuery(r *http.Request) (models.ChartQuery, *models.APIError) {
	values := r.URL.Query()

	startRaw := values.Get("start")
	endRaw := values.Get("end")
	if startRaw == "" || endRaw == "" {
		apiErr := models.NewAPIError(models.ErrorCodeMissingParameter, "start and end dates are required", nil, http.StatusBadRequest)
		return models.ChartQuery{}, &apiErr
	}
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, fmt.Sprintf("invalid start date: %v", err), nil, http.StatusBadRequest)
		return models.ChartQuery{}, &apiErr
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, fmt.Sprintf("invalid end date: %v", err), nil, http.StatusBadRequest)
		return models.ChartQuery{}, &apiErr
	}

	q := models.ChartQuery{
		Start: start,
		// The end date is inclusive at date granularity.
		End:             end.AddDate(0, 0, 1),
		Mode:            models.GroupByIdentity,
		SensorIDs:       values["sensor"],
		VariableTypes:   values["variable"],
		SmoothWindow:    1,
		RainfallOverlay: values.Get("rain") == "true",
	}
	if mode := values.Get("mode"); mode != "" {
		q.Mode = models.GroupMode(mode)
	}
	if window := values.Get("window"); window != "" {
		parsed, err := strconv.Atoi(window)
		if err != nil {
			apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, "window must be an integer", nil, http.StatusBadRequest)
			return models.ChartQuery{}, &apiErr
		}
		q.SmoothWindow = parsed
	}
	if spike := values.Get("spike"); spike != "" {
		parsed, err := strconv.ParseFloat(spike, 64)
		if err != nil {
			apiErr := models.NewAPIError(models.ErrorCodeInvalidFormat, "spike must be a number", nil, http.StatusBadRequest)
			return models.ChartQuery{}, &apiErr
		}
		q.SpikeThreshold = parsed
	}
	return q, nil
}

// HandleCharts handles the chart query request.
func (c *ChartController) HandleCharts(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseChartQuery(r)
	if apiErr != nil {
		utils.RespondWithError(w, *apiErr)
		return
	}

	page, err := c.service.BuildCharts(r.Context(), q)
	if err != nil {
		respondChartError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}

// HandleExport streams the normalized pre-aggregation records as CSV.
func (c *ChartController) HandleExport(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseChartQuery(r)
	if apiErr != nil {
		utils.RespondWithError(w, *apiErr)
		return
	}

	rows, err := c.service.ExportRecords(r.Context(), q)
	if err != nil {
		respondChartError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="hydroview_export.csv"`)
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"timestamp", "key", "value", "unit"}); err != nil {
		log.Printf("Failed to write CSV header: %v", err)
		return
	}
	for _, row := range rows {
		record := []string{
			row.Timestamp.Format(time.RFC3339),
			row.Key,
			strconv.FormatFloat(row.Value, 'f', -1, 64),
			row.Unit,
		}
		if err := writer.Write(record); err != nil {
			log.Printf("Failed to write CSV row: %v", err)
			return
		}
	}
	writer.Flush()
}

// HandleDiagnostics reports per-feed reachability and a peek at the
// newest raw rows.
func (c *ChartController) HandleDiagnostics(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.service.Diagnose(r.Context()))
}

func respondChartError(w http.ResponseWriter, err error) {
	var feedErr *models.FeedError
	switch {
	case errors.Is(err, models.ErrInvalidQuery):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, err.Error(), nil, http.StatusBadRequest))
	case errors.Is(err, models.ErrNoData):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNoData, err.Error(), nil, http.StatusNotFound))
	case errors.As(err, &feedErr):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeStoreUnavailable, err.Error(), nil, http.StatusBadGateway))
	default:
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, err.Error(), nil, http.StatusInternalServerError))
	}
}
