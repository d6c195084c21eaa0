package controller

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hydroview/internal/models"
	"hydroview/internal/service"
	"hydroview/internal/utils"
)

// StationController handles the monitored-site registry endpoints.
type StationController struct {
	service *service.StationService
}

func NewStationController(svc *service.StationService) *StationController {
	return &StationController{service: svc}
}

func (c *StationController) HandleList(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.List(r.Context())
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("listing stations: %v", err), nil, http.StatusInternalServerError))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stations)
}

func (c *StationController) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var station models.Station
	if err := json.NewDecoder(r.Body).Decode(&station); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, fmt.Sprintf("decoding station: %v", err), nil, http.StatusBadRequest))
		return
	}
	defer r.Body.Close()

	added, err := c.service.Add(r.Context(), station)
	if err != nil {
		if errors.Is(err, models.ErrInvalidQuery) {
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeValidationFailed, err.Error(), nil, http.StatusBadRequest))
			return
		}
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("adding station: %v", err), nil, http.StatusInternalServerError))
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, added)
}

func (c *StationController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, "station id must be an integer", nil, http.StatusBadRequest))
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "station not found", nil, http.StatusNotFound))
			return
		}
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("deleting station: %v", err), nil, http.StatusInternalServerError))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "station deleted"})
}
