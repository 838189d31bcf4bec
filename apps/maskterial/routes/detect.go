package routes

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/apps/maskterial/schemas"
	"github.com/matsight/matsight/pkg/annotate"
	"github.com/matsight/matsight/pkg/artifact"
	"github.com/matsight/matsight/pkg/config"
	"github.com/matsight/matsight/pkg/detect"
	"github.com/matsight/matsight/pkg/persist"
)

const DefaultCustomer = "default-customer"

type DetectInput struct {
	RawBody multipart.Form
}

type DetectOutput struct {
	Body schemas.DetectResponse
}

type DetectFromS3Input struct {
	Body schemas.DetectFromS3Request
}

// runDetection decodes the image, runs the detector and renders the
// annotated JPEG. Everything before persistence.
func runDetection(ctx context.Context, detector detect.Detector, data []byte) (*detect.Result, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, huma.Error400BadRequest("could not decode image", err)
	}

	result, err := detector.Detect(ctx, img)
	if err != nil {
		if errors.Is(err, detect.ErrImageTooSmall) {
			return nil, nil, huma.Error400BadRequest("image too small for detection", err)
		}
		return nil, nil, huma.Error500InternalServerError("detection failed", err)
	}

	annotated, err := annotate.Annotate(img, result)
	if err != nil {
		return nil, nil, huma.Error500InternalServerError("annotation failed", err)
	}
	return result, annotated, nil
}

func RegisterDetect(api huma.API, pl *persist.Pipeline, cfg *config.EnvConfig, detector detect.Detector) {
	huma.Register(api, huma.Operation{
		OperationID: "detect",
		Method:      http.MethodPost,
		Path:        "/detect",
		Summary:     "Detect flakes in an uploaded image",
		Description: "Runs flake detection on a multipart image upload and persists the original, the annotated result and a metadata record",
		Tags:        []string{"Detection"},
	}, func(ctx context.Context, input *DetectInput) (*DetectOutput, error) {
		files := input.RawBody.File["image"]
		if len(files) == 0 {
			return nil, huma.Error400BadRequest("no image file provided")
		}

		f, err := files[0].Open()
		if err != nil {
			return nil, huma.Error400BadRequest("could not read image file", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, huma.Error400BadRequest("could not read image file", err)
		}

		result, annotated, err := runDetection(ctx, detector, data)
		if err != nil {
			return nil, err
		}

		customerID := DefaultCustomer
		if v := input.RawBody.Value["customer_id"]; len(v) > 0 && v[0] != "" {
			customerID = v[0]
		}
		imageID := artifact.NewImageID()

		saved, res := pl.SaveUpload(ctx, persist.Upload{
			CustomerID:       customerID,
			ImageID:          imageID,
			OriginalFilename: files[0].Filename,
			Original:         data,
			Annotated:        annotated,
			Detection:        result,
		})

		resp := &DetectOutput{}
		resp.Body = schemas.DetectResponse{
			Status:              "success",
			ImageID:             imageID,
			CustomerID:          customerID,
			DetectionResults:    result,
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
			StorageStatus:       string(res.Status),
			StorageError:        res.ErrorString(),
		}
		if saved != nil {
			resp.Body.OriginalImageURL = saved.OriginalURL
			resp.Body.ResultImageURL = saved.ResultURL
			resp.Body.S3Keys = &schemas.S3Keys{Original: saved.OriginalKey, Result: saved.ResultKey}
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "detect-from-s3",
		Method:      http.MethodPost,
		Path:        "/detect_from_s3",
		Summary:     "Detect flakes in a stored image",
		Description: "Runs flake detection on an image already in the object store and persists the annotated result",
		Tags:        []string{"Detection"},
	}, func(ctx context.Context, input *DetectFromS3Input) (*DetectOutput, error) {
		if !pl.Available() {
			return nil, huma.Error503ServiceUnavailable("storage backend not configured")
		}

		data, err := pl.FetchArtifact(ctx, input.Body.S3Key)
		if err != nil {
			if errors.Is(err, artifact.ErrNotFound) {
				return nil, huma.Error404NotFound("object not found: " + input.Body.S3Key)
			}
			return nil, huma.Error500InternalServerError("could not fetch object", err)
		}

		result, annotated, err := runDetection(ctx, detector, data)
		if err != nil {
			return nil, err
		}

		customerID := input.Body.CustomerID
		if customerID == "" {
			customerID = DefaultCustomer
		}
		imageID := artifact.NewImageID()

		saved, res := pl.SaveDetectionResult(ctx, persist.DetectionResult{
			CustomerID: customerID,
			ImageID:    imageID,
			SourceKey:  input.Body.S3Key,
			Annotated:  annotated,
			Detection:  result,
		})

		resp := &DetectOutput{}
		resp.Body = schemas.DetectResponse{
			Status:              "success",
			ImageID:             imageID,
			CustomerID:          customerID,
			DetectionResults:    result,
			SourceS3Key:         input.Body.S3Key,
			ProcessingTimestamp: time.Now().Format(time.RFC3339),
			StorageStatus:       string(res.Status),
			StorageError:        res.ErrorString(),
		}
		if saved != nil {
			resp.Body.ResultImageURL = saved.ResultURL
			resp.Body.S3Keys = &schemas.S3Keys{Result: saved.ResultKey}
		}
		return resp, nil
	})
}
