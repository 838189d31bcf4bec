package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/matsight/matsight/apps/calculator/schemas"
	"github.com/matsight/matsight/pkg/persist"
)

type OperandsInput struct {
	A int64 `path:"a" doc:"First operand"`
	B int64 `path:"b" doc:"Second operand"`
}

type CalcOutput struct {
	Body schemas.CalcResponse
}

type DivideOutput struct {
	Status int
	Body   schemas.DivideResponse
}

// registerOp wires one arithmetic endpoint. The domain result is
// computed first and never withheld: a storage fault only shows up in
// storage_status/storage_error.
func registerOp(api huma.API, pl *persist.Pipeline, path, opID, operation string, compute func(a, b int64) float64) {
	huma.Register(api, huma.Operation{
		OperationID: opID,
		Method:      http.MethodGet,
		Path:        path + "/{a}/{b}",
		Summary:     "Calculate " + operation,
		Description: "Computes the " + operation + " of two integers and persists the result",
		Tags:        []string{"Calculator"},
	}, func(ctx context.Context, input *OperandsInput) (*CalcOutput, error) {
		result := compute(input.A, input.B)
		saved := pl.SaveCalculation(ctx, operation, input.A, input.B, result)

		resp := &CalcOutput{}
		resp.Body = schemas.CalcResponse{
			Operation:     operation,
			A:             input.A,
			B:             input.B,
			Result:        result,
			StorageStatus: string(saved.Status),
			StorageError:  saved.ErrorString(),
		}
		return resp, nil
	})
}

func RegisterCalc(api huma.API, pl *persist.Pipeline) {
	registerOp(api, pl, "/add", "add", "addition", func(a, b int64) float64 {
		return float64(a + b)
	})
	registerOp(api, pl, "/subtract", "subtract", "subtraction", func(a, b int64) float64 {
		return float64(a - b)
	})
	registerOp(api, pl, "/multiply", "multiply", "multiplication", func(a, b int64) float64 {
		return float64(a * b)
	})

	// Division is registered by hand: b == 0 is a domain error that
	// still gets persisted, then answered with a 400.
	huma.Register(api, huma.Operation{
		OperationID: "divide",
		Method:      http.MethodGet,
		Path:        "/divide/{a}/{b}",
		Summary:     "Calculate division",
		Description: "Computes the division of two integers and persists the result; division by zero is persisted as an error record",
		Tags:        []string{"Calculator"},
	}, func(ctx context.Context, input *OperandsInput) (*DivideOutput, error) {
		resp := &DivideOutput{Status: http.StatusOK}

		if input.B == 0 {
			saved := pl.SaveCalculationError(ctx, "division", input.A, input.B, "Division by zero error")
			resp.Status = http.StatusBadRequest
			resp.Body = schemas.DivideResponse{
				Error:         "you cannot divide by zero",
				StorageStatus: string(saved.Status),
				StorageError:  saved.ErrorString(),
			}
			return resp, nil
		}

		result := float64(input.A) / float64(input.B)
		saved := pl.SaveCalculation(ctx, "division", input.A, input.B, result)

		a, b := input.A, input.B
		resp.Body = schemas.DivideResponse{
			Operation:     "division",
			A:             &a,
			B:             &b,
			Result:        &result,
			StorageStatus: string(saved.Status),
			StorageError:  saved.ErrorString(),
		}
		return resp, nil
	})
}
