package persist

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/matsight/matsight/pkg/artifact"
	"github.com/matsight/matsight/pkg/detect"
	"github.com/matsight/matsight/pkg/record"
)

// Upload is a freshly uploaded customer image plus its detection output.
type Upload struct {
	CustomerID       string
	ImageID          string
	OriginalFilename string
	Original         []byte // uploaded image bytes
	Annotated        []byte // JPEG with detection overlays
	Detection        *detect.Result
}

// SavedUpload points at the persisted images, with time-limited URLs.
type SavedUpload struct {
	OriginalKey string
	ResultKey   string
	OriginalURL string
	ResultURL   string
}

// SaveUpload persists the original image, the annotated result, and an
// UPLOADED metadata record, in that order, then presigns retrieval URLs
// for both objects. A presign fault after the writes reports failed but
// still returns the stored keys.
func (p *Pipeline) SaveUpload(ctx context.Context, up Upload) (*SavedUpload, Result) {
	if !p.Available() {
		return nil, unavailable()
	}

	originalKey := artifact.OriginalImageKey(up.CustomerID, up.ImageID)
	resultKey := artifact.ResultImageKey(up.CustomerID, up.ImageID)

	if _, err := p.artifacts.Upload(ctx, originalKey, bytes.NewReader(up.Original), int64(len(up.Original)), "image/jpeg"); err != nil {
		p.log.Error("original image write failed", "key", originalKey, "error", err)
		return nil, failed(err)
	}
	if _, err := p.artifacts.Upload(ctx, resultKey, bytes.NewReader(up.Annotated), int64(len(up.Annotated)), "image/jpeg"); err != nil {
		p.log.Error("result image write failed", "key", resultKey, "error", err)
		return nil, failed(err)
	}

	now := p.now()
	rec := &record.Record{
		CustomerID:       up.CustomerID,
		ImageID:          up.ImageID,
		CreatedAt:        now.Unix(),
		Type:             record.TypeUploaded,
		S3Key:            originalKey,
		ThumbnailKey:     originalKey,
		Status:           record.StatusActive,
		MaterialType:     "detected",
		ImageSize:        int64(len(up.Original)),
		ImageFormat:      "jpg",
		ProcessingStatus: "completed",
		Metadata: map[string]any{
			"detection_results":    detectionMap(up.Detection),
			"total_flakes":         up.Detection.TotalFlakes,
			"uploadSource":         "api",
			"originalFilename":     up.OriginalFilename,
			"processing_timestamp": now.Unix(),
		},
		ExpiresAt: now.Add(record.DetectionExpiry).Unix(),
	}
	if err := p.records.Put(ctx, rec); err != nil {
		p.log.Error("upload record write failed", "customer", up.CustomerID, "image", up.ImageID, "error", err)
		return nil, failed(err)
	}

	// The writes succeeded; a presign fault must not hide the stored
	// keys, so the partial result goes back alongside the failure.
	out := &SavedUpload{OriginalKey: originalKey, ResultKey: resultKey}

	originalURL, err := p.artifacts.PresignedGetURL(ctx, originalKey, PresignTTL)
	if err != nil {
		p.log.Error("presign failed", "key", originalKey, "error", err)
		return out, failed(err)
	}
	out.OriginalURL = originalURL

	resultURL, err := p.artifacts.PresignedGetURL(ctx, resultKey, PresignTTL)
	if err != nil {
		p.log.Error("presign failed", "key", resultKey, "error", err)
		return out, failed(err)
	}
	out.ResultURL = resultURL

	return out, saved()
}

// DetectionResult is a detection pass over an already stored image.
type DetectionResult struct {
	CustomerID string
	ImageID    string
	SourceKey  string // object key the image was fetched from
	Annotated  []byte
	Detection  *detect.Result
}

// SavedResult points at the persisted annotated image.
type SavedResult struct {
	ResultKey string
	ResultURL string
}

// SaveDetectionResult persists the annotated image and a SAVED_RESULT
// metadata record referencing the source object.
func (p *Pipeline) SaveDetectionResult(ctx context.Context, dr DetectionResult) (*SavedResult, Result) {
	if !p.Available() {
		return nil, unavailable()
	}

	resultKey := artifact.ResultImageKey(dr.CustomerID, dr.ImageID)

	if _, err := p.artifacts.Upload(ctx, resultKey, bytes.NewReader(dr.Annotated), int64(len(dr.Annotated)), "image/jpeg"); err != nil {
		p.log.Error("result image write failed", "key", resultKey, "error", err)
		return nil, failed(err)
	}

	now := p.now()
	rec := &record.Record{
		CustomerID:       dr.CustomerID,
		ImageID:          dr.ImageID,
		CreatedAt:        now.Unix(),
		Type:             record.TypeSavedResult,
		S3Key:            resultKey,
		ThumbnailKey:     resultKey,
		Status:           record.StatusActive,
		MaterialType:     "detected",
		ImageSize:        int64(len(dr.Annotated)),
		ImageFormat:      "jpg",
		ProcessingStatus: "completed",
		Metadata: map[string]any{
			"detection_results":    detectionMap(dr.Detection),
			"total_flakes":         dr.Detection.TotalFlakes,
			"source_s3_key":        dr.SourceKey,
			"processing_timestamp": now.Unix(),
		},
		ExpiresAt: now.Add(record.DetectionExpiry).Unix(),
	}
	if err := p.records.Put(ctx, rec); err != nil {
		p.log.Error("result record write failed", "customer", dr.CustomerID, "image", dr.ImageID, "error", err)
		return nil, failed(err)
	}

	resultURL, err := p.artifacts.PresignedGetURL(ctx, resultKey, PresignTTL)
	if err != nil {
		p.log.Error("presign failed", "key", resultKey, "error", err)
		return &SavedResult{ResultKey: resultKey}, failed(err)
	}

	return &SavedResult{ResultKey: resultKey, ResultURL: resultURL}, saved()
}

// detectionMap flattens a detection result into plain maps and slices
// so the recorder can normalize every float leaf before the write.
func detectionMap(result *detect.Result) map[string]any {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil
	}

	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}
