// Package fd implements the one-dimensional finite-difference core: dense
// arrays, tridiagonal operators, boundary conditions, time-stepping schemes
// and the rollback driver used to solve the Black-Scholes PDE.
package fd

import "errors"

// Error taxonomy for the finite-difference core. All of them are surfaced
// immediately to the caller; nothing here is silently recovered.
var (
	// ErrSizeMismatch is returned when two arrays or an array and an
	// operator disagree on size.
	ErrSizeMismatch = errors.New("fd: size mismatch")
	// ErrSingular is returned when the Thomas elimination hits a pivot
	// below epsilon.
	ErrSingular = errors.New("fd: singular tridiagonal system")
	// ErrNumericalFailure is returned when a solution vector contains a
	// non-finite entry after a step.
	ErrNumericalFailure = errors.New("fd: non-finite value in solution")
	// ErrNotImplemented is returned for unsupported configurations: a
	// uniform grid of fewer than 3 points, or a rollback with tFrom <= tTo
	// or with no steps.
	ErrNotImplemented = errors.New("fd: not implemented")
	// ErrOutOfRange is returned by external term-structure collaborators
	// when queried outside their domain with extrapolation disabled.
	ErrOutOfRange = errors.New("fd: out of range")
	// ErrInvalidGrid is returned when a grid fails the strictly
	// increasing invariant.
	ErrInvalidGrid = errors.New("fd: grid is not strictly increasing")
)
