// Package qp solves small dense convex quadratic programs with a diagonal
// positive-definite Hessian:
//
//	minimize  ½·xᵀPx + qᵀx
//	subject to  Gx ≤ h,  lo ≤ x ≤ hi
//
// using Hildreth's dual coordinate-descent method. Box bounds are folded
// into the inequality system, so the dual stays a simple projection onto
// λ ≥ 0. Problems of this shape come from receding-horizon cooling plans,
// where P = 2I and the constraints are affine temperature rollouts.
//
// Infeasible problems have an unbounded dual; they surface as
// ErrMaxIterations unless a trivially impossible constraint (a zero row
// with negative bound) gives an early ErrInfeasible.
package qp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotPositiveDefinite = errors.New("qp: hessian diagonal must be strictly positive")
	ErrDimensionMismatch   = errors.New("qp: dimension mismatch")
	ErrInfeasible          = errors.New("qp: constraints are infeasible")
	ErrMaxIterations       = errors.New("qp: dual iteration did not converge")
)

// Problem is a convex QP with diagonal Hessian. G and H may be nil for an
// unconstrained or box-only problem; Lower and Upper may be nil for an
// unbounded variable range.
type Problem struct {
	PDiag []float64 // diagonal of P, length n
	Q     []float64 // linear term, length n
	G     *mat.Dense
	H     []float64
	Lower []float64
	Upper []float64
}

type Solution struct {
	X          []float64
	Objective  float64
	Iterations int
}

type Solver struct {
	MaxIterations int
	Tolerance     float64
}

func NewSolver() *Solver {
	return &Solver{
		MaxIterations: 10000,
		Tolerance:     1e-10,
	}
}

func (s *Solver) Solve(p *Problem) (*Solution, error) {
	n := len(p.PDiag)
	if n == 0 || len(p.Q) != n {
		return nil, fmt.Errorf("%w: hessian has %d entries, linear term %d", ErrDimensionMismatch, n, len(p.Q))
	}
	for i, d := range p.PDiag {
		if d <= 0 {
			return nil, fmt.Errorf("%w: P[%d,%d] = %g", ErrNotPositiveDefinite, i, i, d)
		}
	}

	rows, rhs, err := gatherConstraints(p, n)
	if err != nil {
		return nil, err
	}

	einv := make([]float64, n)
	for i, d := range p.PDiag {
		einv[i] = 1.0 / d
	}

	// Unconstrained minimum: x = -P⁻¹q.
	if len(rows) == 0 {
		x := make([]float64, n)
		for i := range x {
			x[i] = -einv[i] * p.Q[i]
		}
		return &Solution{X: x, Objective: objective(p, x)}, nil
	}

	m := len(rows)
	M := mat.NewDense(m, n, nil)
	for i, row := range rows {
		M.SetRow(i, row)
	}

	// Dual problem data: Hd = M·P⁻¹·Mᵀ, K = rhs + M·P⁻¹·q.
	scaled := mat.NewDense(m, n, nil)
	scaled.Mul(M, diagOf(einv))

	Hd := mat.NewDense(m, m, nil)
	Hd.Mul(scaled, M.T())

	K := mat.NewVecDense(m, nil)
	K.MulVec(scaled, mat.NewVecDense(n, p.Q))
	for i := 0; i < m; i++ {
		K.SetVec(i, K.AtVec(i)+rhs[i])
	}

	lambda := make([]float64, m)
	iters := 0
	for ; iters < s.MaxIterations; iters++ {
		maxDelta := 0.0
		for i := 0; i < m; i++ {
			hii := Hd.At(i, i)
			if hii == 0 {
				continue
			}
			w := K.AtVec(i)
			for j := 0; j < m; j++ {
				if j != i {
					w += Hd.At(i, j) * lambda[j]
				}
			}
			next := -w / hii
			if next < 0 {
				next = 0
			}
			if d := abs(next - lambda[i]); d > maxDelta {
				maxDelta = d
			}
			lambda[i] = next
		}
		if maxDelta < s.Tolerance {
			break
		}
	}
	if iters == s.MaxIterations {
		return nil, fmt.Errorf("%w after %d sweeps", ErrMaxIterations, iters)
	}

	// Recover the primal: x = -P⁻¹(q + Mᵀλ).
	mtl := mat.NewVecDense(n, nil)
	mtl.MulVec(M.T(), mat.NewVecDense(m, lambda))
	x := make([]float64, n)
	for i := range x {
		x[i] = -einv[i] * (p.Q[i] + mtl.AtVec(i))
	}

	return &Solution{X: x, Objective: objective(p, x), Iterations: iters + 1}, nil
}

// gatherConstraints flattens Gx ≤ h and the box bounds into one row list.
// A zero row with a negative bound can never be satisfied and is reported
// as infeasible immediately.
func gatherConstraints(p *Problem, n int) ([][]float64, []float64, error) {
	var rows [][]float64
	var rhs []float64

	if p.G != nil {
		gr, gc := p.G.Dims()
		if gc != n || len(p.H) != gr {
			return nil, nil, fmt.Errorf("%w: G is %dx%d with %d bounds for %d variables",
				ErrDimensionMismatch, gr, gc, len(p.H), n)
		}
		for i := 0; i < gr; i++ {
			row := make([]float64, n)
			mat.Row(row, i, p.G)
			if allZero(row) {
				if p.H[i] < 0 {
					return nil, nil, fmt.Errorf("%w: constraint %d is 0 ≤ %g", ErrInfeasible, i, p.H[i])
				}
				continue
			}
			rows = append(rows, row)
			rhs = append(rhs, p.H[i])
		}
	}

	if p.Upper != nil {
		if len(p.Upper) != n {
			return nil, nil, fmt.Errorf("%w: %d upper bounds for %d variables", ErrDimensionMismatch, len(p.Upper), n)
		}
		for i, hi := range p.Upper {
			row := make([]float64, n)
			row[i] = 1
			rows = append(rows, row)
			rhs = append(rhs, hi)
		}
	}
	if p.Lower != nil {
		if len(p.Lower) != n {
			return nil, nil, fmt.Errorf("%w: %d lower bounds for %d variables", ErrDimensionMismatch, len(p.Lower), n)
		}
		for i, lo := range p.Lower {
			row := make([]float64, n)
			row[i] = -1
			rows = append(rows, row)
			rhs = append(rhs, -lo)
		}
	}

	return rows, rhs, nil
}

func diagOf(d []float64) *mat.DiagDense {
	return mat.NewDiagDense(len(d), d)
}

func objective(p *Problem, x []float64) float64 {
	obj := 0.0
	for i, xi := range x {
		obj += 0.5*p.PDiag[i]*xi*xi + p.Q[i]*xi
	}
	return obj
}

func allZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
