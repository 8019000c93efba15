package vocabulary

import "fmt"

// DataError reports a malformed or missing vocabulary source. It is fatal:
// the refiner refuses to start without a valid corpus.
type DataError struct {
	Source string // file path, "embedded", or "sqlite"
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vocabulary data error (%s): %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("vocabulary data error (%s): %s", e.Source, e.Reason)
}

func (e *DataError) Unwrap() error { return e.Err }

func dataErr(source, format string, args ...interface{}) *DataError {
	return &DataError{Source: source, Reason: fmt.Sprintf(format, args...)}
}
