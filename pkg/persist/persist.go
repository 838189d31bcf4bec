// Package persist implements the result-persistence pipeline: every
// outcome is serialized to an artifact in the object store, then
// indexed by a normalized metadata record in the key-value table.
// Within one request the artifact write always precedes the record
// write, so a fault can orphan an artifact but never produce a record
// pointing at a missing artifact.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matsight/matsight/pkg/artifact"
	"github.com/matsight/matsight/pkg/mlog"
	"github.com/matsight/matsight/pkg/record"
)

// ErrUnavailable is returned by direct storage operations when the
// backend was not configured at process start.
var ErrUnavailable = errors.New("persist: storage backend not available")

// Fixed identities for non-customer records.
const (
	CalculatorCustomer = "calculator-user"
	TestCustomer       = "test-customer"
)

// PresignTTL limits how long result-retrieval URLs stay valid.
const PresignTTL = time.Hour

// Pipeline orchestrates artifact writes and metadata records. It is
// constructed once at startup and passed by reference into every
// handler; nil backends mean every save short-circuits to unavailable.
type Pipeline struct {
	artifacts artifact.Store
	records   *record.Recorder
	log       *mlog.Logger
	now       func() time.Time
}

// New creates a Pipeline. artifacts and records may be nil when the
// storage backend could not be initialized; the pipeline then degrades
// to StatusUnavailable instead of failing requests.
func New(artifacts artifact.Store, records *record.Recorder, log *mlog.Logger) *Pipeline {
	if log == nil {
		log = mlog.NewDefault()
	}
	return &Pipeline{
		artifacts: artifacts,
		records:   records,
		log:       log,
		now:       time.Now,
	}
}

// Available reports whether both storage backends were configured.
func (p *Pipeline) Available() bool {
	return p != nil && p.artifacts != nil && p.records != nil
}

// SaveCalculation persists a calculation payload and its metadata record.
func (p *Pipeline) SaveCalculation(ctx context.Context, operation string, a, b int64, result float64) Result {
	if !p.Available() {
		return unavailable()
	}

	id := artifact.NewCalculationID()
	now := p.now()
	payload := map[string]any{
		"operation": operation,
		"a":         a,
		"b":         b,
		"result":    result,
		"timestamp": now.Format(time.RFC3339),
	}

	metadata := map[string]any{
		"operation":        operation,
		"operand_a":        a,
		"operand_b":        b,
		"result":           result,
		"uploadSource":     "api",
		"originalFilename": operation + "_calculation.json",
	}

	return p.writeJSON(ctx, id, artifact.CalculationKey(id), record.TypeCalculation, "calculation", payload, metadata)
}

// SaveCalculationError persists a domain error (e.g. divide by zero) as
// an ERROR-typed record. Client errors are never silently lost.
func (p *Pipeline) SaveCalculationError(ctx context.Context, operation string, a, b int64, message string) Result {
	if !p.Available() {
		return unavailable()
	}

	id := artifact.NewErrorID()
	now := p.now()
	payload := map[string]any{
		"operation": operation,
		"a":         a,
		"b":         b,
		"error":     message,
		"timestamp": now.Format(time.RFC3339),
	}

	metadata := map[string]any{
		"operation":        operation,
		"operand_a":        a,
		"operand_b":        b,
		"error":            message,
		"uploadSource":     "api",
		"originalFilename": operation + "_error.json",
	}

	return p.writeJSON(ctx, id, artifact.ErrorKey(id), record.TypeError, "error", payload, metadata)
}

// writeJSON is the shared calculation/error path: artifact first, then
// the indexing record.
func (p *Pipeline) writeJSON(ctx context.Context, itemID, key string, typ record.Type, materialType string, payload, metadata map[string]any) Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return failed(fmt.Errorf("marshal payload: %w", err))
	}

	if _, err := p.artifacts.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		p.log.Error("artifact write failed", "key", key, "error", err)
		return failed(err)
	}

	now := p.now()
	rec := &record.Record{
		CustomerID:       CalculatorCustomer,
		ImageID:          itemID,
		CreatedAt:        now.Unix(),
		Type:             typ,
		S3Key:            key,
		ThumbnailKey:     key,
		Status:           record.StatusActive,
		MaterialType:     materialType,
		ImageSize:        int64(len(body)),
		ImageFormat:      "json",
		ProcessingStatus: "completed",
		Metadata:         metadata,
		ExpiresAt:        now.Add(record.ExpiryFor(typ)).Unix(),
	}
	if err := p.records.Put(ctx, rec); err != nil {
		p.log.Error("record write failed", "customer", rec.CustomerID, "item", rec.ImageID, "error", err)
		return failed(err)
	}

	return saved()
}

// TestData is what SaveTestData wrote, echoed back to the caller.
type TestData struct {
	S3Key  string
	Record *record.Record
}

// SaveTestData writes a small self-test artifact and TEST record.
func (p *Pipeline) SaveTestData(ctx context.Context) (*TestData, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	key := artifact.TestDataKey()
	now := p.now()
	body, err := json.Marshal(map[string]any{
		"timestamp": now.Format(time.RFC3339),
		"test":      true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal test payload: %w", err)
	}

	if _, err := p.artifacts.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, fmt.Errorf("write test artifact: %w", err)
	}

	rec := &record.Record{
		CustomerID:   TestCustomer,
		ImageID:      artifact.NewTestID(),
		CreatedAt:    now.Unix(),
		Type:         record.TypeTest,
		S3Key:        key,
		ThumbnailKey: key,
		Status:       record.StatusActive,
		ExpiresAt:    now.Add(record.CalculationExpiry).Unix(),
	}
	if err := p.records.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("write test record: %w", err)
	}

	return &TestData{S3Key: key, Record: rec}, nil
}

// FetchArtifact downloads an artifact's full payload by key.
func (p *Pipeline) FetchArtifact(ctx context.Context, key string) ([]byte, error) {
	if !p.Available() {
		return nil, ErrUnavailable
	}

	rc, err := p.artifacts.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// CheckArtifactStore verifies the object store is reachable.
func (p *Pipeline) CheckArtifactStore(ctx context.Context) error {
	if !p.Available() {
		return ErrUnavailable
	}
	return p.artifacts.CheckBucket(ctx)
}

// CheckTable verifies the key-value table is reachable.
func (p *Pipeline) CheckTable(ctx context.Context) error {
	if !p.Available() {
		return ErrUnavailable
	}
	return p.records.Ping(ctx)
}
