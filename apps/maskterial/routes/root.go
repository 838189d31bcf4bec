// Package routes registers the maskterial detection API endpoints.
package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/persist"
)

const (
	ServiceName = "MaskTerial 2D Material Detection Service"
	Version     = "1.0.0"
)

type RootOutput struct {
	Body struct {
		Message string `json:"message"`
		Service string `json:"service"`
	}
}

type HealthOutput struct {
	Body struct {
		Status         string `json:"status" example:"healthy"`
		Service        string `json:"service"`
		Detector       string `json:"detector" enum:"mock,model"`
		ModelAvailable bool   `json:"model_available"`
		Storage        string `json:"storage" enum:"available,unavailable"`
		Timestamp      string `json:"timestamp"`
	}
}

type InfoOutput struct {
	Body struct {
		Service        string            `json:"service"`
		Version        string            `json:"version"`
		Detector       string            `json:"detector"`
		ModelAvailable bool              `json:"model_available"`
		Endpoints      map[string]string `json:"endpoints"`
	}
}

// modelAvailable reports whether the configured detector can run: the
// mock needs nothing, the model detector needs its weights on disk.
func modelAvailable(cfg *config.EnvConfig) bool {
	if cfg.DetectorMode != config.DetectorModel {
		return true
	}
	_, err := os.Stat(cfg.ModelPath)
	return err == nil
}

func RegisterRoot(api huma.API, pl *persist.Pipeline, cfg *config.EnvConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Root endpoint",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*RootOutput, error) {
		resp := &RootOutput{}
		resp.Body.Message = "MaskTerial 2D material detection"
		resp.Body.Service = ServiceName
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*HealthOutput, error) {
		storage := "unavailable"
		if pl.Available() {
			storage = "available"
		}

		resp := &HealthOutput{}
		resp.Body.Status = "healthy"
		resp.Body.Service = "maskterial"
		resp.Body.Detector = cfg.DetectorMode
		resp.Body.ModelAvailable = modelAvailable(cfg)
		resp.Body.Storage = storage
		resp.Body.Timestamp = time.Now().Format(time.RFC3339)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-info",
		Method:      http.MethodGet,
		Path:        "/info",
		Summary:     "Service info",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*InfoOutput, error) {
		resp := &InfoOutput{}
		resp.Body.Service = ServiceName
		resp.Body.Version = Version
		resp.Body.Detector = cfg.DetectorMode
		resp.Body.ModelAvailable = modelAvailable(cfg)
		resp.Body.Endpoints = map[string]string{
			"health":         "/health",
			"detect":         "/detect",
			"detect_from_s3": "/detect_from_s3",
			"info":           "/info",
		}
		return resp, nil
	})
}
