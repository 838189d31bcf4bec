package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/persist"
)

type StorageTestOutput struct {
	Body struct {
		Status  string `json:"status" example:"success"`
		Message string `json:"message"`
		Bucket  string `json:"bucket,omitempty"`
		Table   string `json:"table,omitempty"`
	}
}

type SaveTestOutput struct {
	Body struct {
		Status     string `json:"status" example:"success"`
		Message    string `json:"message"`
		S3Key      string `json:"s3_key"`
		CustomerID string `json:"customer_id"`
		ItemID     string `json:"item_id"`
		ExpiresAt  int64  `json:"expires_at"`
		Timestamp  string `json:"timestamp"`
	}
}

func RegisterStorage(api huma.API, pl *persist.Pipeline, cfg *config.EnvConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "storage-test",
		Method:      http.MethodGet,
		Path:        "/storage/test",
		Summary:     "Test both storage backends",
		Tags:        []string{"Storage"},
	}, func(ctx context.Context, input *struct{}) (*StorageTestOutput, error) {
		if !pl.Available() {
			return nil, huma.Error503ServiceUnavailable("storage backend not configured")
		}
		if err := pl.CheckArtifactStore(ctx); err != nil {
			return nil, huma.Error500InternalServerError("object store check failed", err)
		}
		if err := pl.CheckTable(ctx); err != nil {
			return nil, huma.Error500InternalServerError("table check failed", err)
		}

		resp := &StorageTestOutput{}
		resp.Body.Status = "success"
		resp.Body.Message = "Both storage backends are accessible"
		resp.Body.Bucket = cfg.S3BucketName
		resp.Body.Table = cfg.TableName
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storage-s3-test",
		Method:      http.MethodGet,
		Path:        "/storage/s3/test",
		Summary:     "Test the object store",
		Tags:        []string{"Storage"},
	}, func(ctx context.Context, input *struct{}) (*StorageTestOutput, error) {
		if !pl.Available() {
			return nil, huma.Error503ServiceUnavailable("storage backend not configured")
		}
		if err := pl.CheckArtifactStore(ctx); err != nil {
			return nil, huma.Error500InternalServerError("object store check failed", err)
		}

		resp := &StorageTestOutput{}
		resp.Body.Status = "success"
		resp.Body.Message = "Object store is accessible"
		resp.Body.Bucket = cfg.S3BucketName
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storage-table-test",
		Method:      http.MethodGet,
		Path:        "/storage/table/test",
		Summary:     "Test the key-value table",
		Tags:        []string{"Storage"},
	}, func(ctx context.Context, input *struct{}) (*StorageTestOutput, error) {
		if !pl.Available() {
			return nil, huma.Error503ServiceUnavailable("storage backend not configured")
		}
		if err := pl.CheckTable(ctx); err != nil {
			return nil, huma.Error500InternalServerError("table check failed", err)
		}

		resp := &StorageTestOutput{}
		resp.Body.Status = "success"
		resp.Body.Message = "Table is accessible"
		resp.Body.Table = cfg.TableName
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "storage-save-test",
		Method:      http.MethodGet,
		Path:        "/storage/save-test",
		Summary:     "Write a test artifact and record",
		Description: "Writes a small JSON artifact and an indexing record to verify the full persistence path",
		Tags:        []string{"Storage"},
	}, func(ctx context.Context, input *struct{}) (*SaveTestOutput, error) {
		if !pl.Available() {
			return nil, huma.Error503ServiceUnavailable("storage backend not configured")
		}

		data, err := pl.SaveTestData(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("save test failed", err)
		}

		resp := &SaveTestOutput{}
		resp.Body.Status = "success"
		resp.Body.Message = "Test data saved to both backends"
		resp.Body.S3Key = data.S3Key
		resp.Body.CustomerID = data.Record.CustomerID
		resp.Body.ItemID = data.Record.ImageID
		resp.Body.ExpiresAt = data.Record.ExpiresAt
		resp.Body.Timestamp = time.Now().Format(time.RFC3339)
		return resp, nil
	})
}
