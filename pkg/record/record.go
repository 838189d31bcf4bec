// Package record defines the metadata records indexing stored artifacts
// and the recorder that upserts them into the key-value table.
package record

import "time"

// Type classifies what a record indexes.
type Type string

const (
	TypeUploaded    Type = "UPLOADED"
	TypeSavedResult Type = "SAVED_RESULT"
	TypeCalculation Type = "CALCULATION"
	TypeError       Type = "ERROR"
	TypeTest        Type = "TEST"
)

// Status is the lifecycle state of a record. Only StatusActive is ever
// produced; removal happens through the table's TTL expiry.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Expiry windows per record type.
const (
	CalculationExpiry = 30 * 24 * time.Hour
	DetectionExpiry   = 365 * 24 * time.Hour
)

// Record is one metadata entry referencing exactly one artifact. The
// artifact under S3Key must have been written before the record is
// recorded; ThumbnailKey equals S3Key when no distinct thumbnail exists.
type Record struct {
	CustomerID       string         `json:"customerID"` // partition key
	ImageID          string         `json:"imageID"`    // sort key, generic item id for non-image artifacts
	CreatedAt        int64          `json:"createdAt"`  // epoch seconds
	Type             Type           `json:"type"`
	S3Key            string         `json:"s3Key"`
	ThumbnailKey     string         `json:"thumbnailKey"`
	Status           Status         `json:"status"`
	MaterialType     string         `json:"materialType,omitempty"`
	ImageSize        int64          `json:"imageSize,omitempty"`
	ImageFormat      string         `json:"imageFormat,omitempty"`
	ProcessingStatus string         `json:"processingStatus,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	ExpiresAt        int64          `json:"expiresAt"` // epoch seconds, always > CreatedAt
}

// ExpiryFor returns the expiry window for a record type.
func ExpiryFor(t Type) time.Duration {
	switch t {
	case TypeUploaded, TypeSavedResult:
		return DetectionExpiry
	default:
		return CalculationExpiry
	}
}
