package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hydroview/internal/controller"
)

// SetupRouter defines all API routes.
func SetupRouter(charts *controller.ChartController, stations *controller.StationController) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/charts", charts.HandleCharts).Methods("GET")
	router.HandleFunc("/export", charts.HandleExport).Methods("GET")
	router.HandleFunc("/diagnostics", charts.HandleDiagnostics).Methods("GET")

	router.HandleFunc("/stations", stations.HandleList).Methods("GET")
	router.HandleFunc("/stations", stations.HandleAdd).Methods("POST")
	router.HandleFunc("/stations/{id}", stations.HandleDelete).Methods("DELETE")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}).Methods("GET")

	return router
}
