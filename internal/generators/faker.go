package generators

import (
	"math/rand"
	"strings"

	"github.com/go-faker/faker/v4"
)

// FakerGenerator wraps a go-faker function that draws from faker's own
// random source.
type FakerGenerator struct {
	fn func() string
}

func NewFakerGenerator(fn func() string) *FakerGenerator {
	return &FakerGenerator{fn: fn}
}

func (g *FakerGenerator) Generate(rng *rand.Rand) (string, error) {
	return g.fn(), nil
}

type FakerNameGenerator struct{}

func (g *FakerNameGenerator) Generate(rng *rand.Rand) (string, error) {
	return faker.FirstName() + " " + faker.LastName(), nil
}

type FakerTitleGenerator struct{}

func (g *FakerTitleGenerator) Generate(rng *rand.Rand) (string, error) {
	if rng.Intn(2) == 0 {
		return faker.TitleMale(), nil
	}
	return faker.TitleFemale(), nil
}

var safeEmailTLDs = []string{"com", "net", "org"}

// SafeEmailGenerator only produces addresses under the reserved example.*
// domains.
type SafeEmailGenerator struct{}

func (g *SafeEmailGenerator) Generate(rng *rand.Rand) (string, error) {
	user := strings.ToLower(faker.Username())
	return user + "@example." + safeEmailTLDs[rng.Intn(len(safeEmailTLDs))], nil
}

var freeEmailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "proton.me"}

type FreeEmailGenerator struct{}

func (g *FreeEmailGenerator) Generate(rng *rand.Rand) (string, error) {
	user := strings.ToLower(faker.Username())
	return user + "@" + freeEmailDomains[rng.Intn(len(freeEmailDomains))], nil
}

type AddressField int

const (
	AddressFieldStreet AddressField = iota
	AddressFieldCity
	AddressFieldPostalCode
)

// RealAddressGenerator picks one field of a go-faker real address.
type RealAddressGenerator struct {
	Field AddressField
}

func (g *RealAddressGenerator) Generate(rng *rand.Rand) (string, error) {
	addr := faker.GetRealAddress()
	switch g.Field {
	case AddressFieldCity:
		return addr.City, nil
	case AddressFieldPostalCode:
		return addr.PostalCode, nil
	default:
		return addr.Address, nil
	}
}

var streetSuffixes = []string{"Street", "Avenue", "Road", "Lane", "Drive", "Court", "Way", "Boulevard", "Place", "Terrace"}

type StreetNameGenerator struct{}

func (g *StreetNameGenerator) Generate(rng *rand.Rand) (string, error) {
	return faker.LastName() + " " + streetSuffixes[rng.Intn(len(streetSuffixes))], nil
}
