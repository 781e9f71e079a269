// Package linalg defines the dense linear-algebra capability the solver
// depends on. The dynamics core receives a Backend at construction and
// never reaches for a global default, so alternative implementations can
// be swapped in without touching assembly or integration code.
package linalg

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular indicates a solve or inversion failed because the matrix is
// singular or too ill-conditioned to trust.
var ErrSingular = errors.New("linalg: singular or near-singular matrix")

// Backend is the capability contract consumed by the dynamics core.
//
// Implementations must support 64-bit floats and square systems at least
// as large as 6N+3M for N bodies and M joints. Solve must handle general
// (possibly indefinite) matrices; the augmented multibody system is
// symmetric indefinite.
type Backend interface {
	Name() string

	NewVector(n int) *mat.VecDense
	VectorOf(data []float64) *mat.VecDense

	NewMatrix(rows, cols int) *mat.Dense
	MatrixOf(rows, cols int, data []float64) *mat.Dense
	Identity(n int) *mat.Dense
	Ones(rows, cols int) *mat.Dense

	Transpose(a mat.Matrix) *mat.Dense
	MatVec(a mat.Matrix, x mat.Vector) *mat.VecDense
	MatMul(a, b mat.Matrix) *mat.Dense

	// Augment joins a and b side by side; Stack joins them top to bottom.
	Augment(a, b mat.Matrix) *mat.Dense
	Stack(a, b mat.Matrix) *mat.Dense

	// Solve returns x such that a*x = b, or an error wrapping ErrSingular.
	Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error)
	Inverse(a mat.Matrix) (*mat.Dense, error)
}
