package generators

import (
	"math/rand"

	"github.com/go-faker/faker/v4"
)

type CompanyNameGenerator struct{}

func (g *CompanyNameGenerator) Generate(rng *rand.Rand) (string, error) {
	suffix, err := CompanySuffixGenerator().Generate(rng)
	if err != nil {
		return "", err
	}
	if rng.Intn(3) == 0 {
		return faker.LastName() + " & " + faker.LastName() + " " + suffix, nil
	}
	return faker.LastName() + " " + suffix, nil
}
