package rows

import "fmt"

// SessionOpenError means the edit session could not be established; the
// batch never started.
type SessionOpenError struct {
	Err error
}

func (e *SessionOpenError) Error() string {
	return fmt.Sprintf("failed to open session: %v", e.Err)
}

func (e *SessionOpenError) Unwrap() error { return e.Err }

// RowLocateError wraps a store failure while locating a case's row. It
// carries the case id for diagnosis; locate failures are never retried.
type RowLocateError struct {
	CaseID int
	Err    error
}

func (e *RowLocateError) Error() string {
	return fmt.Sprintf("can't find case %d: %v", e.CaseID, e.Err)
}

func (e *RowLocateError) Unwrap() error { return e.Err }

// RowWriteError wraps a store failure while writing a case's row.
type RowWriteError struct {
	CaseID int
	Err    error
}

func (e *RowWriteError) Error() string {
	return fmt.Sprintf("can't update case %d: %v", e.CaseID, e.Err)
}

func (e *RowWriteError) Unwrap() error { return e.Err }
