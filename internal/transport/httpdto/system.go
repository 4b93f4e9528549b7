package httpdto

import "time"

const APIVersion = "1.0.0"

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
	Store       string    `json:"store"`
}

// IndexResponse is returned by GET /api
type IndexResponse struct {
	Message   string         `json:"message"`
	Version   string         `json:"version"`
	Endpoints map[string]any `json:"endpoints"`
}
