package format

// DiffError reports that the formatter could not be run on a file, or ran and
// failed. It is recoverable: other files are still processed.
type DiffError struct {
	Message string
	Stderr  []string
	Wrapped error
}

func (e *DiffError) Error() string {
	return e.Message
}

func (e *DiffError) Unwrap() error {
	return e.Wrapped
}

// UnexpectedError reports a fault in the driver itself rather than in the
// formatter. Consumption of further results stops when one is seen.
type UnexpectedError struct {
	Message string
	// Trace is a formatted stack trace captured where the fault was recovered.
	Trace   string
	Wrapped error
}

func (e *UnexpectedError) Error() string {
	return e.Message
}

func (e *UnexpectedError) Unwrap() error {
	return e.Wrapped
}
