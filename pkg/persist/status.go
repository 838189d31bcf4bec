package persist

// Status reports the outcome of one persistence attempt, decoupled from
// the domain result: a storage failure never fails the request.
type Status string

const (
	StatusSaved       Status = "saved"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Result is the tagged outcome of a persistence attempt. Err is set
// only when Status is StatusFailed; the HTTP layer decides once how to
// render it.
type Result struct {
	Status Status
	Err    error
}

// ErrorString returns the storage error text, or "" when none.
func (r Result) ErrorString() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func saved() Result           { return Result{Status: StatusSaved} }
func unavailable() Result     { return Result{Status: StatusUnavailable} }
func failed(err error) Result { return Result{Status: StatusFailed, Err: err} }
