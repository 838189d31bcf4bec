// Package routes registers the calculator API endpoints.
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/apps/calculator/schemas"
	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/persist"
)

const (
	ServiceName = "Material Recognition Service Calculator with Storage"
	Version     = "1.0.0"
)

type RootOutput struct {
	Body struct {
		Message string `json:"message" example:"Material Recognition Service Calculator with Storage Testing!" doc:"Welcome message"`
	}
}

type SimpleTestOutput struct {
	Body struct {
		Status           string `json:"status" example:"success"`
		Message          string `json:"message"`
		StorageAvailable bool   `json:"storage_available"`
		Timestamp        string `json:"timestamp"`
	}
}

type InfoOutput struct {
	Body schemas.InfoResponse
}

func RegisterRoot(api huma.API, pl *persist.Pipeline, cfg *config.EnvConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "get-root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Root endpoint",
		Description: "Returns a welcome message",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*RootOutput, error) {
		resp := &RootOutput{}
		resp.Body.Message = "Material Recognition Service Calculator with Storage Testing!"
		return resp, nil
	})

	// Liveness endpoint with no storage dependency.
	huma.Register(api, huma.Operation{
		OperationID: "simple-test",
		Method:      http.MethodGet,
		Path:        "/simple-test",
		Summary:     "Simple liveness test",
		Description: "Reports the application is running, independent of storage",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*SimpleTestOutput, error) {
		resp := &SimpleTestOutput{}
		resp.Body.Status = "success"
		resp.Body.Message = "Application is running"
		resp.Body.StorageAvailable = pl.Available()
		resp.Body.Timestamp = time.Now().Format(time.RFC3339)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-info",
		Method:      http.MethodGet,
		Path:        "/info",
		Summary:     "Service info",
		Description: "Describes the service, its storage wiring and endpoints",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*InfoOutput, error) {
		storage := schemas.StorageInfo{Available: pl.Available(), S3Bucket: "N/A", Table: "N/A"}
		if pl.Available() {
			storage.S3Bucket = cfg.S3BucketName
			storage.Table = cfg.TableName
		}

		resp := &InfoOutput{}
		resp.Body = schemas.InfoResponse{
			Service: ServiceName,
			Version: Version,
			Storage: storage,
			Endpoints: map[string]string{
				"health":             "/health",
				"diagnose":           "/diagnose",
				"add":                "/add/{a}/{b}",
				"subtract":           "/subtract/{a}/{b}",
				"multiply":           "/multiply/{a}/{b}",
				"divide":             "/divide/{a}/{b}",
				"storage_test":       "/storage/test",
				"storage_s3_test":    "/storage/s3/test",
				"storage_table_test": "/storage/table/test",
				"storage_save_test":  "/storage/save-test",
				"info":               "/info",
			},
			ExampleUsage: map[string]string{
				"add":         "/add/10/5",
				"divide_test": "/divide/10/0 (will save error to storage)",
				"diagnose":    "/diagnose",
			},
		}
		return resp, nil
	})
}
