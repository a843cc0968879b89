package generators

import "math/rand"

// Generator produces one fake value per call. The rng is owned by the caller
// and is never shared between concurrent calls.
type Generator interface {
	Generate(rng *rand.Rand) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(rng *rand.Rand) (string, error)

func (f GeneratorFunc) Generate(rng *rand.Rand) (string, error) {
	return f(rng)
}
