// Package optim searches cooling-design parameter vectors with a
// genetic algorithm: tournament selection, blend crossover and Gaussian
// mutation over real-valued genes initialized uniformly in [0, 1).
package optim

import (
	"math"
	"math/rand"
	"time"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
)

// Objective scores a parameter vector; lower is better.
type Objective func(genes []float64) float64

// GA holds the optimizer hyperparameters. The zero value is not usable;
// construct with NewGA.
type GA struct {
	PopulationSize int
	Generations    int
	CrossoverProb  float64
	BlendAlpha     float64
	MutationProb   float64
	MutationSigma  float64
	GeneMutateProb float64
	TournamentSize int

	rng *rand.Rand
}

// NewGA returns an optimizer with the stock hyperparameters. Seed 0
// draws a seed from the clock.
func NewGA(seed int64) *GA {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GA{
		PopulationSize: 40,
		Generations:    20,
		CrossoverProb:  0.5,
		BlendAlpha:     0.5,
		MutationProb:   0.2,
		MutationSigma:  0.2,
		GeneMutateProb: 0.2,
		TournamentSize: 3,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

type individual struct {
	genes   []float64
	fitness float64
	stale   bool
}

func (ind individual) clone() individual {
	genes := make([]float64, len(ind.genes))
	copy(genes, ind.genes)
	return individual{genes: genes, fitness: ind.fitness}
}

// Optimize runs the configured number of generations and returns the
// best vector of the final population with its score.
func (g *GA) Optimize(obj Objective, numParams int) ([]float64, float64) {
	pop := make([]individual, g.PopulationSize)
	for i := range pop {
		genes := make([]float64, numParams)
		for j := range genes {
			genes[j] = g.rng.Float64()
		}
		pop[i] = individual{genes: genes, fitness: obj(genes)}
	}

	for gen := 0; gen < g.Generations; gen++ {
		offspring := make([]individual, len(pop))
		for i := range offspring {
			offspring[i] = g.tournament(pop).clone()
		}

		for i := 0; i+1 < len(offspring); i += 2 {
			if g.rng.Float64() < g.CrossoverProb {
				g.blend(offspring[i].genes, offspring[i+1].genes)
				offspring[i].stale = true
				offspring[i+1].stale = true
			}
		}

		for i := range offspring {
			if g.rng.Float64() < g.MutationProb {
				g.mutate(offspring[i].genes)
				offspring[i].stale = true
			}
		}

		for i := range offspring {
			if offspring[i].stale {
				offspring[i].fitness = obj(offspring[i].genes)
				offspring[i].stale = false
			}
		}

		pop = offspring
	}

	best := pop[0]
	for _, ind := range pop[1:] {
		if ind.fitness < best.fitness {
			best = ind
		}
	}
	return best.genes, best.fitness
}

func (g *GA) tournament(pop []individual) individual {
	best := pop[g.rng.Intn(len(pop))]
	for i := 1; i < g.TournamentSize; i++ {
		c := pop[g.rng.Intn(len(pop))]
		if c.fitness < best.fitness {
			best = c
		}
	}
	return best
}

// blend mixes paired genes in place with a fresh gamma per gene, drawn
// from [-alpha, 1+alpha].
func (g *GA) blend(a, b []float64) {
	for i := range a {
		gamma := (1+2*g.BlendAlpha)*g.rng.Float64() - g.BlendAlpha
		x, y := a[i], b[i]
		a[i] = (1-gamma)*x + gamma*y
		b[i] = gamma*x + (1-gamma)*y
	}
}

func (g *GA) mutate(genes []float64) {
	for i := range genes {
		if g.rng.Float64() < g.GeneMutateProb {
			genes[i] += g.rng.NormFloat64() * g.MutationSigma
		}
	}
}

// CoolingObjective scores a liquid-cooling design encoded in the first
// three genes: heat transfer coefficient in [10, 200], coolant
// depression below ambient in [0, 10], and per-zone contact area in
// [0.001, 0.01]. The score is the run's peak temperature plus a small
// pumping-effort penalty so that equally cool designs prefer the
// gentler loop.
func CoolingObjective(base battery.Params, cfg sim.RunConfig) Objective {
	return func(genes []float64) float64 {
		htc, depression, area := CoolingParams(genes)

		pack, err := battery.NewPack(base)
		if err != nil {
			return math.Inf(1)
		}
		pack.SetCooling(cooling.NewLiquid(htc, base.AmbientTemperature-depression, area))

		history, err := pack.Simulate(cfg.Current, cfg.Steps, cfg.Dt, cfg.ExternalHeat...)
		if err != nil {
			return math.Inf(1)
		}
		return history.MaxTemp() + 0.001*htc*area*depression
	}
}

// CoolingParams decodes a gene vector into the physical liquid-cooling
// parameters scored by CoolingObjective.
func CoolingParams(genes []float64) (htc, depression, area float64) {
	htc = 10 + 190*clamp01(gene(genes, 0))
	depression = 10 * clamp01(gene(genes, 1))
	area = 0.001 + 0.009*clamp01(gene(genes, 2))
	return htc, depression, area
}

func gene(genes []float64, i int) float64 {
	if i < len(genes) {
		return genes[i]
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
