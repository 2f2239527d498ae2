package report

import "fmt"

// PartialDataError marks one data source that failed after the gateway
// exhausted its retries. The report still renders; the source's contribution
// shows as unavailable.
type PartialDataError struct {
	Source string
	Err    error
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("partial data: %s unavailable: %v", e.Source, e.Err)
}

func (e *PartialDataError) Unwrap() error { return e.Err }
