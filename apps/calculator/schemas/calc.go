// Package schemas defines the calculator API response shapes.
package schemas

// CalcResponse is the body for a successful arithmetic operation. The
// storage_status field decouples persistence from the domain result.
type CalcResponse struct {
	Operation     string  `json:"operation" example:"addition" doc:"Operation name"`
	A             int64   `json:"a" doc:"First operand"`
	B             int64   `json:"b" doc:"Second operand"`
	Result        float64 `json:"result" doc:"Operation result"`
	StorageStatus string  `json:"storage_status" enum:"saved,unavailable,failed" doc:"Persistence outcome"`
	StorageError  string  `json:"storage_error,omitempty" doc:"Storage error detail when storage_status is failed"`
}

// DivideResponse covers both outcomes of a division: the success shape
// matches CalcResponse, the divide-by-zero shape carries only the error.
type DivideResponse struct {
	Operation     string   `json:"operation,omitempty"`
	A             *int64   `json:"a,omitempty"`
	B             *int64   `json:"b,omitempty"`
	Result        *float64 `json:"result,omitempty"`
	Error         string   `json:"error,omitempty" doc:"Domain error message"`
	StorageStatus string   `json:"storage_status" enum:"saved,unavailable,failed"`
	StorageError  string   `json:"storage_error,omitempty"`
}

// DiagnosticInfo reports storage wiring details for /health and /diagnose.
type DiagnosticInfo struct {
	StorageConfigured bool   `json:"storage_configured"`
	BucketName        string `json:"bucket_name"`
	TableName         string `json:"table_name"`
	Region            string `json:"region"`
	S3Accessible      *bool  `json:"s3_accessible,omitempty"`
	S3Error           string `json:"s3_error,omitempty"`
	TableAccessible   *bool  `json:"table_accessible,omitempty"`
	TableError        string `json:"table_error,omitempty"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status     string         `json:"status" example:"healthy"`
	Service    string         `json:"service"`
	Storage    string         `json:"storage" enum:"available,unavailable"`
	Diagnostic DiagnosticInfo `json:"diagnostic"`
}

// StorageInfo is the storage block of /info.
type StorageInfo struct {
	Available bool   `json:"available"`
	S3Bucket  string `json:"s3_bucket"`
	Table     string `json:"table"`
}

// InfoResponse is the /info body.
type InfoResponse struct {
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Storage      StorageInfo       `json:"storage"`
	Endpoints    map[string]string `json:"endpoints"`
	ExampleUsage map[string]string `json:"example_usage"`
}
