package record

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matsight/matsight/pkg/kv"
)

func validRecord() *Record {
	now := time.Now().Unix()
	return &Record{
		CustomerID:   "calculator-user",
		ImageID:      "calc-123",
		CreatedAt:    now,
		Type:         TypeCalculation,
		S3Key:        "calculations/calc-123.json",
		ThumbnailKey: "calculations/calc-123.json",
		Status:       StatusActive,
		Metadata: map[string]any{
			"operation": "division",
			"result":    2.5,
		},
		ExpiresAt: now + int64(CalculationExpiry.Seconds()),
	}
}

func TestRecorder_PutGet(t *testing.T) {
	store := kv.NewMemoryStore()
	rec := NewRecorder(store, "CustomerImages")
	ctx := context.Background()

	if err := rec.Put(ctx, validRecord()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := rec.Get(ctx, "calculator-user", "calc-123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Type != TypeCalculation || got.Status != StatusActive {
		t.Errorf("record mismatch: %+v", got)
	}
	if got.S3Key != "calculations/calc-123.json" {
		t.Errorf("s3Key = %q", got.S3Key)
	}
	if got.Metadata["result"] != json.Number("2.5") {
		t.Errorf("metadata result = %v (%T), want exact decimal 2.5", got.Metadata["result"], got.Metadata["result"])
	}
}

func TestRecorder_NormalizesFloatsBeforeWrite(t *testing.T) {
	store := kv.NewMemoryStore()
	rec := NewRecorder(store, "CustomerImages")
	ctx := context.Background()

	r := validRecord()
	r.Metadata = map[string]any{
		"confidence": 0.875,
		"flakes": []any{
			map[string]any{"confidence": 0.30000000000000004},
		},
	}
	if err := rec.Put(ctx, r); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	raw, err := store.Get(ctx, rec.Key(r.CustomerID, r.ImageID))
	if err != nil {
		t.Fatalf("raw get failed: %v", err)
	}

	// The serialized entry must carry the shortest round-trip decimal
	// strings, not re-rounded binary floats.
	if !strings.Contains(string(raw), `"confidence":0.875`) {
		t.Errorf("missing normalized confidence in %s", raw)
	}
	if !strings.Contains(string(raw), "0.30000000000000004") {
		t.Errorf("nested float lost its exact representation: %s", raw)
	}
}

func TestRecorder_Validation(t *testing.T) {
	rec := NewRecorder(kv.NewMemoryStore(), "CustomerImages")
	ctx := context.Background()

	r := validRecord()
	r.CustomerID = ""
	if err := rec.Put(ctx, r); err != ErrMissingKey {
		t.Errorf("missing customerID: got %v", err)
	}

	r = validRecord()
	r.S3Key = ""
	if err := rec.Put(ctx, r); err != ErrMissingS3Key {
		t.Errorf("missing s3Key: got %v", err)
	}

	r = validRecord()
	r.ExpiresAt = r.CreatedAt
	if err := rec.Put(ctx, r); err != ErrBadExpiry {
		t.Errorf("expiresAt == createdAt: got %v", err)
	}
}

func TestRecorder_TTLMirrorsExpiresAt(t *testing.T) {
	store := kv.NewMemoryStore()
	rec := NewRecorder(store, "CustomerImages")

	r := validRecord()
	if err := rec.Put(context.Background(), r); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	ttl := store.TTL(rec.Key(r.CustomerID, r.ImageID))
	if ttl <= 29*24*time.Hour || ttl > CalculationExpiry {
		t.Errorf("TTL = %v, want ~%v", ttl, CalculationExpiry)
	}
}

func TestRecorder_LastWriteWins(t *testing.T) {
	store := kv.NewMemoryStore()
	rec := NewRecorder(store, "CustomerImages")
	ctx := context.Background()

	first := validRecord()
	if err := rec.Put(ctx, first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	second := validRecord()
	second.S3Key = "calculations/calc-456.json"
	second.ThumbnailKey = second.S3Key
	if err := rec.Put(ctx, second); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := rec.Get(ctx, "calculator-user", "calc-123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.S3Key != "calculations/calc-456.json" {
		t.Errorf("expected last write to win, got s3Key %q", got.S3Key)
	}
}

func TestExpiryFor(t *testing.T) {
	if ExpiryFor(TypeUploaded) != DetectionExpiry || ExpiryFor(TypeSavedResult) != DetectionExpiry {
		t.Error("detection records should expire after 365 days")
	}
	for _, typ := range []Type{TypeCalculation, TypeError, TypeTest} {
		if ExpiryFor(typ) != CalculationExpiry {
			t.Errorf("%s should expire after 30 days", typ)
		}
	}
}
