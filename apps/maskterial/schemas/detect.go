// Package schemas defines the detection API request and response shapes.
package schemas

import "github.com/matsight/matsight/pkg/detect"

// S3Keys points at the stored original and annotated images.
type S3Keys struct {
	Original string `json:"original,omitempty"`
	Result   string `json:"result"`
}

// DetectResponse is the body for a completed detection. URL and key
// fields are present only when the corresponding object was persisted.
type DetectResponse struct {
	Status              string         `json:"status" example:"success"`
	ImageID             string         `json:"image_id"`
	CustomerID          string         `json:"customer_id"`
	DetectionResults    *detect.Result `json:"detection_results"`
	OriginalImageURL    string         `json:"original_image_url,omitempty" doc:"Presigned URL for the uploaded image"`
	ResultImageURL      string         `json:"result_image_url,omitempty" doc:"Presigned URL for the annotated image"`
	S3Keys              *S3Keys        `json:"s3_keys,omitempty"`
	SourceS3Key         string         `json:"source_s3_key,omitempty"`
	ProcessingTimestamp string         `json:"processing_timestamp"`
	StorageStatus       string         `json:"storage_status" enum:"saved,unavailable,failed"`
	StorageError        string         `json:"storage_error,omitempty"`
}

// DetectFromS3Request names an already stored image to run detection on.
type DetectFromS3Request struct {
	S3Key      string `json:"s3_key" minLength:"1" doc:"Object key of the stored image"`
	CustomerID string `json:"customer_id,omitempty" doc:"Owner of the result; defaults to default-customer"`
}
