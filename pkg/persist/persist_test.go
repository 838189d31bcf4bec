package persist

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matsight/matsight/pkg/artifact"
	"github.com/matsight/matsight/pkg/detect"
	"github.com/matsight/matsight/pkg/kv"
	"github.com/matsight/matsight/pkg/record"
)

// brokenKV fails every write, simulating a table outage after the
// artifact write succeeded.
type brokenKV struct{ kv.Store }

var errTableDown = errors.New("table down")

func (b brokenKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errTableDown
}

// brokenStore fails every upload.
type brokenStore struct{ artifact.Store }

var errBucketDown = errors.New("bucket down")

func (b brokenStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*artifact.Artifact, error) {
	return nil, errBucketDown
}

func newTestPipeline() (*Pipeline, *artifact.MemoryStore, *kv.MemoryStore) {
	artifacts := artifact.NewMemoryStore("matsight-customer-images")
	table := kv.NewMemoryStore()
	return New(artifacts, record.NewRecorder(table, "CustomerImages"), nil), artifacts, table
}

func TestSaveCalculation_Saved(t *testing.T) {
	p, artifacts, _ := newTestPipeline()
	ctx := context.Background()

	res := p.SaveCalculation(ctx, "addition", 10, 5, 15)
	if res.Status != StatusSaved {
		t.Fatalf("Status = %s (err=%v), want saved", res.Status, res.Err)
	}
	if res.ErrorString() != "" {
		t.Errorf("unexpected error string %q", res.ErrorString())
	}

	stored, err := artifacts.List(ctx, "calculations/")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected one calculation artifact, got %d (err=%v)", len(stored), err)
	}

	payload, err := p.FetchArtifact(ctx, stored[0].Key)
	if err != nil {
		t.Fatalf("FetchArtifact failed: %v", err)
	}
	for _, want := range []string{`"operation":"addition"`, `"result":15`} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("payload %s missing %s", payload, want)
		}
	}
}

func TestSaveCalculation_Unavailable(t *testing.T) {
	p := New(nil, nil, nil)

	res := p.SaveCalculation(context.Background(), "addition", 1, 2, 3)
	if res.Status != StatusUnavailable {
		t.Errorf("Status = %s, want unavailable", res.Status)
	}
	if res.Err != nil {
		t.Errorf("unavailable result should carry no error, got %v", res.Err)
	}
}

func TestSaveCalculation_ArtifactWriteFails(t *testing.T) {
	table := kv.NewMemoryStore()
	p := New(brokenStore{}, record.NewRecorder(table, "CustomerImages"), nil)

	res := p.SaveCalculation(context.Background(), "addition", 1, 2, 3)
	if res.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", res.Status)
	}
	if !errors.Is(res.Err, errBucketDown) {
		t.Errorf("Err = %v, want bucket down", res.Err)
	}
}

// A fault between the two writes must leave the artifact retrievable
// and the record absent, never the reverse.
func TestSaveCalculation_WriteThenIndexOrdering(t *testing.T) {
	artifacts := artifact.NewMemoryStore("matsight-customer-images")
	rec := record.NewRecorder(brokenKV{}, "CustomerImages")
	p := New(artifacts, rec, nil)
	ctx := context.Background()

	res := p.SaveCalculation(ctx, "multiplication", 6, 7, 42)
	if res.Status != StatusFailed {
		t.Fatalf("Status = %s, want failed", res.Status)
	}
	if !errors.Is(res.Err, errTableDown) {
		t.Errorf("Err = %v, want table down", res.Err)
	}

	// Orphaned artifact: present.
	stored, err := artifacts.List(ctx, "calculations/")
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected orphaned artifact, got %d (err=%v)", len(stored), err)
	}
	if _, err := p.FetchArtifact(ctx, stored[0].Key); err != nil {
		t.Errorf("orphaned artifact should be retrievable: %v", err)
	}
}

func TestSaveCalculationError(t *testing.T) {
	p, artifacts, table := newTestPipeline()
	ctx := context.Background()

	res := p.SaveCalculationError(ctx, "division", 10, 0, "Division by zero error")
	if res.Status != StatusSaved {
		t.Fatalf("Status = %s (err=%v)", res.Status, res.Err)
	}

	stored, _ := artifacts.List(ctx, "errors/")
	if len(stored) != 1 {
		t.Fatalf("expected one error artifact, got %d", len(stored))
	}

	// The ERROR record exists and indexes the artifact that was
	// written first.
	rec := record.NewRecorder(table, "CustomerImages")
	itemID := strings.TrimSuffix(strings.TrimPrefix(stored[0].Key, "errors/"), ".json")
	got, err := rec.Get(ctx, CalculatorCustomer, itemID)
	if err != nil {
		t.Fatalf("error record missing: %v", err)
	}
	if got.Type != record.TypeError || got.S3Key != stored[0].Key {
		t.Errorf("record mismatch: %+v", got)
	}
	if got.ExpiresAt <= got.CreatedAt {
		t.Error("expiresAt must be after createdAt")
	}
}

func TestSaveTestData(t *testing.T) {
	p, _, _ := newTestPipeline()

	data, err := p.SaveTestData(context.Background())
	if err != nil {
		t.Fatalf("SaveTestData failed: %v", err)
	}
	if !strings.HasPrefix(data.S3Key, "test/data-") {
		t.Errorf("key = %q", data.S3Key)
	}
	if data.Record.Type != record.TypeTest || data.Record.CustomerID != TestCustomer {
		t.Errorf("record = %+v", data.Record)
	}

	if _, err := p.FetchArtifact(context.Background(), data.S3Key); err != nil {
		t.Errorf("test artifact not retrievable: %v", err)
	}
}

func TestSaveTestData_Unavailable(t *testing.T) {
	p := New(nil, nil, nil)
	if _, err := p.SaveTestData(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func sampleDetection() *detect.Result {
	return &detect.Result{
		Flakes: []detect.Flake{
			{BBox: [4]int{10, 10, 80, 80}, Confidence: 0.91, Area: 4900, MaterialType: "graphene"},
		},
		TotalFlakes:     1,
		ImageDimensions: [2]int{320, 240},
	}
}

func TestSaveUpload(t *testing.T) {
	p, artifacts, table := newTestPipeline()
	ctx := context.Background()

	savedUp, res := p.SaveUpload(ctx, Upload{
		CustomerID:       "default-customer",
		ImageID:          "img-1",
		OriginalFilename: "flake.jpg",
		Original:         []byte("original-bytes"),
		Annotated:        []byte("annotated-bytes"),
		Detection:        sampleDetection(),
	})
	if res.Status != StatusSaved {
		t.Fatalf("Status = %s (err=%v)", res.Status, res.Err)
	}

	if savedUp.OriginalKey != "default-customer/uploaded/img-1_original.jpg" {
		t.Errorf("OriginalKey = %q", savedUp.OriginalKey)
	}
	if savedUp.ResultKey != "default-customer/saved-result/img-1_result.jpg" {
		t.Errorf("ResultKey = %q", savedUp.ResultKey)
	}
	if savedUp.OriginalURL == "" || savedUp.ResultURL == "" {
		t.Error("presigned URLs missing")
	}

	if artifacts.Len() != 2 {
		t.Errorf("expected 2 stored objects, got %d", artifacts.Len())
	}

	rec := record.NewRecorder(table, "CustomerImages")
	got, err := rec.Get(ctx, "default-customer", "img-1")
	if err != nil {
		t.Fatalf("UPLOADED record missing: %v", err)
	}
	if got.Type != record.TypeUploaded || got.S3Key != savedUp.OriginalKey {
		t.Errorf("record = %+v", got)
	}
	if got.Metadata["originalFilename"] != "flake.jpg" {
		t.Errorf("metadata filename = %v", got.Metadata["originalFilename"])
	}
}

// brokenPresign stores writes normally but cannot presign.
type brokenPresign struct{ artifact.Store }

var errPresignDown = errors.New("presign down")

func (b brokenPresign) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", errPresignDown
}

func TestSaveUpload_PresignFaultKeepsKeys(t *testing.T) {
	artifacts := artifact.NewMemoryStore("matsight-customer-images")
	table := kv.NewMemoryStore()
	p := New(brokenPresign{Store: artifacts}, record.NewRecorder(table, "CustomerImages"), nil)
	ctx := context.Background()

	savedUp, res := p.SaveUpload(ctx, Upload{
		CustomerID: "cust",
		ImageID:    "img-3",
		Original:   []byte("o"),
		Annotated:  []byte("a"),
		Detection:  sampleDetection(),
	})
	if res.Status != StatusFailed || !errors.Is(res.Err, errPresignDown) {
		t.Fatalf("result = %s (err=%v), want presign failure", res.Status, res.Err)
	}

	// Everything was written; the keys must come back with the failure.
	if savedUp == nil {
		t.Fatal("SavedUpload missing despite persisted objects")
	}
	if savedUp.OriginalKey != "cust/uploaded/img-3_original.jpg" || savedUp.ResultKey != "cust/saved-result/img-3_result.jpg" {
		t.Errorf("keys = %+v", savedUp)
	}
	if savedUp.OriginalURL != "" || savedUp.ResultURL != "" {
		t.Errorf("URLs must be empty on presign failure: %+v", savedUp)
	}
	if artifacts.Len() != 2 {
		t.Errorf("stored objects = %d, want 2", artifacts.Len())
	}
	if _, err := record.NewRecorder(table, "CustomerImages").Get(ctx, "cust", "img-3"); err != nil {
		t.Errorf("UPLOADED record missing: %v", err)
	}
}

func TestSaveDetectionResult_PresignFaultKeepsKey(t *testing.T) {
	artifacts := artifact.NewMemoryStore("matsight-customer-images")
	table := kv.NewMemoryStore()
	p := New(brokenPresign{Store: artifacts}, record.NewRecorder(table, "CustomerImages"), nil)

	savedRes, res := p.SaveDetectionResult(context.Background(), DetectionResult{
		CustomerID: "cust",
		ImageID:    "img-4",
		SourceKey:  "cust/uploaded/img-3_original.jpg",
		Annotated:  []byte("a"),
		Detection:  sampleDetection(),
	})
	if res.Status != StatusFailed || !errors.Is(res.Err, errPresignDown) {
		t.Fatalf("result = %s (err=%v), want presign failure", res.Status, res.Err)
	}
	if savedRes == nil || savedRes.ResultKey != "cust/saved-result/img-4_result.jpg" {
		t.Errorf("SavedResult = %+v", savedRes)
	}
}

func TestSaveUpload_RecordFaultLeavesImagesOnly(t *testing.T) {
	artifacts := artifact.NewMemoryStore("matsight-customer-images")
	p := New(artifacts, record.NewRecorder(brokenKV{}, "CustomerImages"), nil)

	_, res := p.SaveUpload(context.Background(), Upload{
		CustomerID: "cust",
		ImageID:    "img-2",
		Original:   []byte("o"),
		Annotated:  []byte("a"),
		Detection:  sampleDetection(),
	})
	if res.Status != StatusFailed {
		t.Fatalf("Status = %s", res.Status)
	}
	// Both images were written before the record attempt.
	if artifacts.Len() != 2 {
		t.Errorf("expected both images stored, got %d", artifacts.Len())
	}
}

func TestSaveDetectionResult(t *testing.T) {
	p, _, table := newTestPipeline()
	ctx := context.Background()

	savedRes, res := p.SaveDetectionResult(ctx, DetectionResult{
		CustomerID: "cust-9",
		ImageID:    "img-9",
		SourceKey:  "cust-9/uploaded/img-0_original.jpg",
		Annotated:  []byte("annotated"),
		Detection:  sampleDetection(),
	})
	if res.Status != StatusSaved {
		t.Fatalf("Status = %s (err=%v)", res.Status, res.Err)
	}
	if savedRes.ResultKey != "cust-9/saved-result/img-9_result.jpg" {
		t.Errorf("ResultKey = %q", savedRes.ResultKey)
	}

	rec := record.NewRecorder(table, "CustomerImages")
	got, err := rec.Get(ctx, "cust-9", "img-9")
	if err != nil {
		t.Fatalf("SAVED_RESULT record missing: %v", err)
	}
	if got.Type != record.TypeSavedResult {
		t.Errorf("type = %s", got.Type)
	}
	if got.Metadata["source_s3_key"] != "cust-9/uploaded/img-0_original.jpg" {
		t.Errorf("source_s3_key = %v", got.Metadata["source_s3_key"])
	}
}

func TestChecks(t *testing.T) {
	p, _, _ := newTestPipeline()
	ctx := context.Background()

	if err := p.CheckArtifactStore(ctx); err != nil {
		t.Errorf("CheckArtifactStore = %v", err)
	}
	if err := p.CheckTable(ctx); err != nil {
		t.Errorf("CheckTable = %v", err)
	}

	down := New(nil, nil, nil)
	if err := down.CheckArtifactStore(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if err := down.CheckTable(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
