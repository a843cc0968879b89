package generators

import (
	"errors"
	"math/rand"
)

// ChoiceGenerator picks one of Values, optionally weighted.
type ChoiceGenerator struct {
	Values  []string
	Weights []float64
}

func NewChoiceGenerator(values ...string) *ChoiceGenerator {
	return &ChoiceGenerator{Values: values}
}

func (g *ChoiceGenerator) Validate() error {
	if len(g.Values) == 0 {
		return errors.New("'values' cannot be empty")
	}
	if g.Weights != nil && len(g.Weights) != len(g.Values) {
		return errors.New("'weights' and 'values' must have the same length")
	}
	for _, w := range g.Weights {
		if w < 0 {
			return errors.New("weights must not be negative")
		}
	}
	return nil
}

func (g *ChoiceGenerator) Generate(rng *rand.Rand) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.Weights == nil {
		return g.Values[rng.Intn(len(g.Values))], nil
	}

	totalWeight := 0.0
	for _, w := range g.Weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		return "", errors.New("total weight is zero")
	}

	r := rng.Float64() * totalWeight
	cumWeight := 0.0
	for i, w := range g.Weights {
		cumWeight += w
		if r < cumWeight {
			return g.Values[i], nil
		}
	}
	return g.Values[len(g.Values)-1], nil
}

var usStates = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut", "Delaware",
	"Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky",
	"Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi",
	"Missouri", "Montana", "Nebraska", "Nevada", "New Hampshire", "New Jersey", "New Mexico",
	"New York", "North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon", "Pennsylvania",
	"Rhode Island", "South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont",
	"Virginia", "Washington", "West Virginia", "Wisconsin", "Wyoming",
}

var usStateAbbrs = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS",
	"KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ", "NM", "NY",
	"NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV",
	"WI", "WY",
}

var companySuffixes = []string{"Inc", "LLC", "Group", "and Sons", "Ltd", "GmbH", "Partners", "Holdings"}

var companyBuzzwords = []string{
	"synergistic", "scalable", "cross-platform", "mission-critical", "next-generation",
	"user-centric", "zero-defect", "value-added", "real-time", "turn-key", "seamless",
	"proactive", "holistic", "distributed", "disruptive", "end-to-end",
}

func StateGenerator() *ChoiceGenerator         { return NewChoiceGenerator(usStates...) }
func StateAbbrGenerator() *ChoiceGenerator     { return NewChoiceGenerator(usStateAbbrs...) }
func CompanySuffixGenerator() *ChoiceGenerator { return NewChoiceGenerator(companySuffixes...) }
func BuzzwordGenerator() *ChoiceGenerator      { return NewChoiceGenerator(companyBuzzwords...) }

// BooleanGenerator yields "true" or "false".
func BooleanGenerator() *ChoiceGenerator { return NewChoiceGenerator("true", "false") }
