package api

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	redis   *redis.Client
	env     string
	version string
}

func NewHealthHandler(redis *redis.Client, env, version string) *HealthHandler {
	return &HealthHandler{
		redis:   redis,
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Readiness reports the session backend. The directory lives in process
// memory and is always ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{"directory": "ok"}
	status := "ok"

	if h.redis == nil {
		deps["sessions"] = "memory"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		err := h.redis.Ping(ctx).Err()
		cancel()
		if err != nil {
			deps["redis"] = "down"
			status = "error"
		} else {
			deps["redis"] = "ok"
		}
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}
