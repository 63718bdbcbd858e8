package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMesh is returned when a mesh with zero vertices or zero faces
	// is supplied to an operation that needs geometry.
	ErrEmptyMesh = errors.New("empty mesh")

	// ErrDegenerateInput is returned when every face of the input collapses
	// to zero area after deduplication.
	ErrDegenerateInput = errors.New("all faces degenerate")
)

// ErrInvalidEpsilon indicates a negative merge tolerance.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidEpsilon struct {
	Epsilon float64
	cause   error
}

func (e *ErrInvalidEpsilon) Error() string {
	return fmt.Sprintf("invalid epsilon: %g", e.Epsilon)
}

func (e *ErrInvalidEpsilon) Unwrap() error { return e.cause }
