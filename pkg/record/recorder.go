package record

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matsight/matsight/pkg/kv"
	"github.com/matsight/matsight/pkg/numeric"
)

// Validation errors.
var (
	ErrMissingKey   = errors.New("record: customerID and imageID are required")
	ErrBadExpiry    = errors.New("record: expiresAt must be after createdAt")
	ErrMissingS3Key = errors.New("record: s3Key is required")
)

// Recorder upserts records into the key-value table. Upserts are
// last-write-wins on the primary key; there is no read-before-write and
// no retry.
type Recorder struct {
	store kv.Store
	table string
}

// NewRecorder creates a Recorder writing into the named table.
func NewRecorder(store kv.Store, table string) *Recorder {
	return &Recorder{store: store, table: table}
}

// Put validates and upserts a record. Floating-point leaves in the
// record's metadata are normalized to exact decimals before the write;
// the table entry carries a native TTL mirroring ExpiresAt.
func (r *Recorder) Put(ctx context.Context, rec *Record) error {
	if rec.CustomerID == "" || rec.ImageID == "" {
		return ErrMissingKey
	}
	if rec.S3Key == "" {
		return ErrMissingS3Key
	}
	if rec.ExpiresAt <= rec.CreatedAt {
		return ErrBadExpiry
	}

	rec.Metadata = numeric.NormalizeMap(rec.Metadata)

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("record: marshal: %w", err)
	}

	ttl := time.Until(time.Unix(rec.ExpiresAt, 0))
	if ttl <= 0 {
		return ErrBadExpiry
	}

	return r.store.Set(ctx, r.Key(rec.CustomerID, rec.ImageID), payload, ttl)
}

// Get fetches a record by primary key. Returns kv.ErrNotFound when the
// record is absent or expired.
func (r *Recorder) Get(ctx context.Context, customerID, imageID string) (*Record, error) {
	payload, err := r.store.Get(ctx, r.Key(customerID, imageID))
	if err != nil {
		return nil, err
	}

	var rec Record
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("record: unmarshal: %w", err)
	}
	return &rec, nil
}

// Ping verifies the underlying table is reachable.
func (r *Recorder) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// Table reports the table name this recorder writes into.
func (r *Recorder) Table() string {
	return r.table
}

// Key builds the table key for a record's primary key pair.
func (r *Recorder) Key(customerID, imageID string) string {
	return r.table + ":" + customerID + ":" + imageID
}
