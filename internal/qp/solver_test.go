package qp_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/zhangluna929/Thermal-Management-Model/internal/qp"
)

var _ = Describe("Solver", func() {
	var solver *qp.Solver

	BeforeEach(func() {
		solver = qp.NewSolver()
	})

	Context("without constraints", func() {
		It("returns the analytic minimum -P⁻¹q", func() {
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{-2, -8},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 1.0, 1e-9))
			Expect(sol.X[1]).To(BeNumerically("~", 4.0, 1e-9))
			Expect(sol.Objective).To(BeNumerically("~", -17.0, 1e-9))
		})
	})

	Context("with one active linear constraint", func() {
		It("satisfies the hand-checked KKT point", func() {
			// minimize x² + y² subject to x + y ≥ 2, written as -x - y ≤ -2.
			// KKT: x = y = 1 with multiplier λ = 2.
			g := mat.NewDense(1, 2, []float64{-1, -1})
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{0, 0},
				G:     g,
				H:     []float64{-2},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(sol.X[1]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(sol.Objective).To(BeNumerically("~", 2.0, 1e-6))
		})

		It("leaves an inactive constraint alone", func() {
			// Same problem but the constraint x + y ≤ 10 does not bind.
			g := mat.NewDense(1, 2, []float64{1, 1})
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{-2, -2},
				G:     g,
				H:     []float64{10},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(sol.X[1]).To(BeNumerically("~", 1.0, 1e-6))
		})
	})

	Context("with box bounds", func() {
		It("clips the unconstrained minimum to the upper bound", func() {
			// minimize (x-5)²: unconstrained minimum 5, upper bound 3.
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2},
				Q:     []float64{-10},
				Upper: []float64{3},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 3.0, 1e-6))
		})

		It("clips to the lower bound from below", func() {
			// minimize (x+4)²: unconstrained minimum -4, lower bound 0.
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2},
				Q:     []float64{8},
				Lower: []float64{0},
				Upper: []float64{20},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 0.0, 1e-6))
		})

		It("keeps an interior minimum untouched", func() {
			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2, 2},
				Q:     []float64{-2, -4, -6},
				Lower: []float64{0, 0, 0},
				Upper: []float64{20, 20, 20},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.X[0]).To(BeNumerically("~", 1.0, 1e-6))
			Expect(sol.X[1]).To(BeNumerically("~", 2.0, 1e-6))
			Expect(sol.X[2]).To(BeNumerically("~", 3.0, 1e-6))
		})
	})

	Context("with contradictory constraints", func() {
		It("reports non-convergence of the unbounded dual", func() {
			// x ≤ -1 and -x ≤ -1 cannot both hold.
			g := mat.NewDense(2, 1, []float64{1, -1})
			_, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2},
				Q:     []float64{0},
				G:     g,
				H:     []float64{-1, -1},
			})
			Expect(err).To(MatchError(qp.ErrMaxIterations))
		})

		It("rejects a zero row with a negative bound immediately", func() {
			g := mat.NewDense(1, 2, []float64{0, 0})
			_, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{0, 0},
				G:     g,
				H:     []float64{-1},
			})
			Expect(err).To(MatchError(qp.ErrInfeasible))
		})
	})

	Context("with malformed input", func() {
		It("rejects a non-positive hessian entry", func() {
			_, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 0},
				Q:     []float64{1, 1},
			})
			Expect(err).To(MatchError(qp.ErrNotPositiveDefinite))
		})

		It("rejects mismatched dimensions", func() {
			_, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{1},
			})
			Expect(err).To(MatchError(qp.ErrDimensionMismatch))

			g := mat.NewDense(1, 3, []float64{1, 1, 1})
			_, err = solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{0, 0},
				G:     g,
				H:     []float64{1},
			})
			Expect(err).To(MatchError(qp.ErrDimensionMismatch))
		})
	})

	Context("shaped like a cooling-plan rollout", func() {
		It("prefers the smallest deltas that satisfy the rollout", func() {
			// Two steps, one zone, k = 0.25: the zone starts at 50 and must
			// end each step at or below 46. The rollout
			// temp_{t+1} = (1-k)·temp_t + k·ambient - k·delta_t
			// turns each limit into an affine constraint on the deltas.
			k := 0.25
			ambient := 25.0
			start := 50.0
			limit := 46.0

			// temp1 = (1-k)·start + k·ambient - k·d0 ≤ limit
			// temp2 = (1-k)·temp1 + k·ambient - k·d1 ≤ limit
			g := mat.NewDense(2, 2, []float64{
				-k, 0,
				-(1 - k) * k, -k,
			})
			t1Free := (1-k)*start + k*ambient
			t2Free := (1-k)*t1Free + k*ambient
			h := []float64{limit - t1Free, limit - t2Free}

			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{0, 0},
				G:     g,
				H:     h,
				Lower: []float64{0, 0},
				Upper: []float64{20, 20},
			})
			Expect(err).NotTo(HaveOccurred())

			// Free rollout gives (1-k)·50 + k·25 = 43.75, already below the
			// 46 limit, so the cheapest plan is no cooling at all.
			Expect(sol.X[0]).To(BeNumerically("~", 0.0, 1e-6))
			Expect(sol.X[1]).To(BeNumerically("~", 0.0, 1e-6))
		})

		It("computes a binding first-step delta when the limit is tight", func() {
			k := 0.25
			ambient := 25.0
			start := 50.0
			limit := 42.0 // below the free rollout of 43.75

			g := mat.NewDense(2, 2, []float64{
				-k, 0,
				-(1 - k) * k, -k,
			})
			t1Free := (1-k)*start + k*ambient
			t2Free := (1-k)*t1Free + k*ambient
			h := []float64{limit - t1Free, limit - t2Free}

			sol, err := solver.Solve(&qp.Problem{
				PDiag: []float64{2, 2},
				Q:     []float64{0, 0},
				G:     g,
				H:     h,
				Lower: []float64{0, 0},
				Upper: []float64{20, 20},
			})
			Expect(err).NotTo(HaveOccurred())

			// Step 1 needs k·d0 ≥ 43.75 - 42 = 1.75, so d0 ≥ 7.
			Expect(sol.X[0]).To(BeNumerically(">=", 7.0-1e-6))
			// Step 2 free temp is (1-k)·42 + k·25 = 37.75 at the binding d0,
			// well under 42, so d1 should stay near zero.
			Expect(sol.X[1]).To(BeNumerically("~", 0.0, 1e-3))
		})
	})
})
