package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense is the gonum-backed Backend implementation.
type Dense struct{}

func NewDense() *Dense {
	return &Dense{}
}

func (d *Dense) Name() string { return "gonum-dense" }

func (d *Dense) NewVector(n int) *mat.VecDense {
	return mat.NewVecDense(n, nil)
}

func (d *Dense) VectorOf(data []float64) *mat.VecDense {
	c := make([]float64, len(data))
	copy(c, data)
	return mat.NewVecDense(len(c), c)
}

func (d *Dense) NewMatrix(rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, nil)
}

func (d *Dense) MatrixOf(rows, cols int, data []float64) *mat.Dense {
	c := make([]float64, len(data))
	copy(c, data)
	return mat.NewDense(rows, cols, c)
}

func (d *Dense) Identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func (d *Dense) Ones(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(rows, cols, data)
}

func (d *Dense) Transpose(a mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.CloneFrom(a.T())
	return &m
}

func (d *Dense) MatVec(a mat.Matrix, x mat.Vector) *mat.VecDense {
	var v mat.VecDense
	v.MulVec(a, x)
	return &v
}

func (d *Dense) MatMul(a, b mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.Mul(a, b)
	return &m
}

func (d *Dense) Augment(a, b mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.Augment(a, b)
	return &m
}

func (d *Dense) Stack(a, b mat.Matrix) *mat.Dense {
	var m mat.Dense
	m.Stack(a, b)
	return &m
}

func (d *Dense) Solve(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		if finiteCondition(err) {
			// Solution was computed; the conditioning is poor but usable.
			return &x, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &x, nil
}

func (d *Dense) Inverse(a mat.Matrix) (*mat.Dense, error) {
	var m mat.Dense
	if err := m.Inverse(a); err != nil {
		if finiteCondition(err) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return &m, nil
}

// finiteCondition reports whether err is a gonum Condition warning with a
// finite condition number, meaning the factorization succeeded.
func finiteCondition(err error) bool {
	if cond, ok := err.(mat.Condition); ok {
		return !math.IsInf(float64(cond), 1)
	}
	return false
}
