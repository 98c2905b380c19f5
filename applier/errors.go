package applier

import "fmt"

// DecodeError reports a photo that could not be read into a bitmap.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TransformError reports a bitmap or LUT that cannot produce an output.
type TransformError struct {
	Reason string
	Err    error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not apply LUT: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("could not apply LUT: %s", e.Reason)
}

func (e *TransformError) Unwrap() error { return e.Err }
