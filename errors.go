package meshopt

import (
	"errors"
	"fmt"

	"github.com/Ram9299/3dshape-explorer/lod"
	"github.com/Ram9299/3dshape-explorer/mesh"
)

var (
	// ErrEmptyMesh is returned when the input has no vertices or no faces.
	ErrEmptyMesh = errors.New("empty mesh")

	// ErrDegenerateInput is returned when every input face collapses during
	// vertex merging.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrNotFound is returned when a stored document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDocument is returned when stored bytes do not decode into a
	// well-formed optimized-mesh document.
	ErrInvalidDocument = errors.New("invalid document")
)

// ErrInvalidRatio indicates a detail ratio outside (0, 1].
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidRatio struct {
	Ratio float64
	cause error
}

func (e *ErrInvalidRatio) Error() string {
	return fmt.Sprintf("invalid detail ratio: %g", e.Ratio)
}

func (e *ErrInvalidRatio) Unwrap() error { return e.cause }

// ErrInvalidEpsilon indicates a negative or NaN merge tolerance.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidEpsilon struct {
	Epsilon float64
	cause   error
}

func (e *ErrInvalidEpsilon) Error() string {
	return fmt.Sprintf("invalid merge tolerance: %g", e.Epsilon)
}

func (e *ErrInvalidEpsilon) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Sentinel unification.
	if errors.Is(err, mesh.ErrEmptyMesh) {
		return fmt.Errorf("%w: %w", ErrEmptyMesh, err)
	}
	if errors.Is(err, mesh.ErrDegenerateInput) {
		return fmt.Errorf("%w: %w", ErrDegenerateInput, err)
	}

	// Argument normalization.
	var ir *lod.ErrInvalidRatio
	if errors.As(err, &ir) {
		return &ErrInvalidRatio{Ratio: ir.Ratio, cause: err}
	}
	var ie *mesh.ErrInvalidEpsilon
	if errors.As(err, &ie) {
		return &ErrInvalidEpsilon{Epsilon: ie.Epsilon, cause: err}
	}

	return err
}
