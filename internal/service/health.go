package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"
)

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status        string `json:"status"`
	Env           string `json:"env"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DB            string `json:"db"`
	Host          string `json:"host"`
	Time          string `json:"time"`
}

// HealthHandler serves GET /health. The status stays "ok" while the
// database is down; db reports "connected" or "disconnected".
func HealthHandler(env string, db Pinger, started time.Time) http.Handler {
	host, _ := os.Hostname()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		dbState := "connected"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("Health check: database unreachable", "error", err)
			dbState = "disconnected"
		}

		now := time.Now()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(healthResponse{
			Status:        "ok",
			Env:           env,
			UptimeSeconds: int64(math.Round(now.Sub(started).Seconds())),
			DB:            dbState,
			Host:          host,
			Time:          now.UTC().Format(time.RFC3339Nano),
		}); err != nil {
			slog.Error("Failed to write health response", "error", err)
		}
	})
}
