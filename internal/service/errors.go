package service

import "fmt"

// RemoteError reports a transport failure or an error returned by the backend
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote call failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// FormatError reports a backend response that breaks the expected contract,
// such as malformed JSON where a schema was requested or no candidates.
type FormatError struct {
	Op     string
	Detail string
	Raw    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response format: %s: %v", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response format: %s", e.Op, e.Detail)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
