package generators

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
)

type DigitGenerator struct{}

func (g *DigitGenerator) Generate(rng *rand.Rand) (string, error) {
	return strconv.Itoa(rng.Intn(10)), nil
}

// UniformIntGenerator draws from [Min, Max).
type UniformIntGenerator struct {
	Min int64
	Max int64
}

func (g *UniformIntGenerator) Generate(rng *rand.Rand) (string, error) {
	if g.Max <= g.Min {
		return "", fmt.Errorf("max (%d) must be greater than min (%d)", g.Max, g.Min)
	}
	return strconv.FormatInt(g.Min+rng.Int63n(g.Max-g.Min), 10), nil
}

// UniformFloatGenerator draws from [Min, Max) and renders Precision decimals.
type UniformFloatGenerator struct {
	Min       float64
	Max       float64
	Precision int
}

func (g *UniformFloatGenerator) Generate(rng *rand.Rand) (string, error) {
	if g.Max <= g.Min {
		return "", errors.New("max must be greater than min")
	}
	v := g.Min + rng.Float64()*(g.Max-g.Min)
	return strconv.FormatFloat(v, 'f', g.Precision, 64), nil
}
