package api

import (
	"encoding/json"
	"net/http"
	"time"

	"clubaereo/bitacora/internal/common"

	"github.com/jmoiron/sqlx"
)

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// HealthCheckHandler handles GET /healthCheck
func HealthCheckHandler(db *sqlx.DB, redisQueue *common.RedisQueueService, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]ServiceStatus)

		pgStatus := "ok"
		pgDetails := "Postgres Connected"
		if err := db.Ping(); err != nil {
			pgStatus = "down"
			pgDetails = err.Error()
		}
		services["postgres"] = ServiceStatus{
			Status:  pgStatus,
			Details: pgDetails,
		}

		redisStatus := "ok"
		redisDetails := "Redis Connected"
		if err := redisQueue.Ping(r.Context()); err != nil {
			redisStatus = "down"
			redisDetails = err.Error()
		}
		services["redis"] = ServiceStatus{
			Status:  redisStatus,
			Details: redisDetails,
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		uptime := time.Since(upSince).Round(time.Second).String()

		resp := HealthCheckResponse{
			Status:   overallStatus,
			Uptime:   uptime,
			Services: services,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
