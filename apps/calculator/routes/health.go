package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/apps/calculator/schemas"
	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/persist"
)

type HealthOutput struct {
	Body schemas.HealthResponse
}

type DiagnoseOutput struct {
	Body struct {
		Timestamp   string                 `json:"timestamp"`
		Environment map[string]string      `json:"environment"`
		Storage     schemas.DiagnosticInfo `json:"storage"`
	}
}

// diagnostic probes both backends and reports per-backend reachability.
func diagnostic(ctx context.Context, pl *persist.Pipeline, cfg *config.EnvConfig) schemas.DiagnosticInfo {
	info := schemas.DiagnosticInfo{
		StorageConfigured: pl.Available(),
		BucketName:        cfg.S3BucketName,
		TableName:         cfg.TableName,
		Region:            cfg.S3Region,
	}
	if !pl.Available() {
		return info
	}

	s3OK := true
	if err := pl.CheckArtifactStore(ctx); err != nil {
		s3OK = false
		info.S3Error = err.Error()
	}
	info.S3Accessible = &s3OK

	tableOK := true
	if err := pl.CheckTable(ctx); err != nil {
		tableOK = false
		info.TableError = err.Error()
	}
	info.TableAccessible = &tableOK

	return info
}

func RegisterHealth(api huma.API, pl *persist.Pipeline, cfg *config.EnvConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports service health and storage availability",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*HealthOutput, error) {
		storage := "unavailable"
		if pl.Available() {
			storage = "available"
		}

		resp := &HealthOutput{}
		resp.Body = schemas.HealthResponse{
			Status:     "healthy",
			Service:    "calculator",
			Storage:    storage,
			Diagnostic: diagnostic(ctx, pl, cfg),
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "diagnose",
		Method:      http.MethodGet,
		Path:        "/diagnose",
		Summary:     "Storage diagnostics",
		Description: "Probes the object store and the key-value table and echoes the relevant environment",
		Tags:        []string{"General"},
	}, func(ctx context.Context, input *struct{}) (*DiagnoseOutput, error) {
		resp := &DiagnoseOutput{}
		resp.Body.Timestamp = time.Now().Format(time.RFC3339)
		resp.Body.Environment = map[string]string{
			"ENVIRONMENT":    cfg.Environment,
			"S3_ENDPOINT":    cfg.S3Endpoint,
			"S3_BUCKET_NAME": cfg.S3BucketName,
			"S3_REGION":      cfg.S3Region,
			"S3_ACCESS_KEY":  config.MaskSecret(os.Getenv("S3_ACCESS_KEY")),
			"TABLE_NAME":     cfg.TableName,
			"VALKEY_ADDR":    cfg.ValkeyAddr,
		}
		resp.Body.Storage = diagnostic(ctx, pl, cfg)
		return resp, nil
	})
}
