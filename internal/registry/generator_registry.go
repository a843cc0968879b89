package registry

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-faker/faker/v4"
	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/generators"
)

// GeneratorRegistry maps generator kinds to generators and owns the rng they
// draw from. It is safe for concurrent use.
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[domain.Kind]generators.Generator

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGeneratorRegistry(seed int64) *GeneratorRegistry {
	return &GeneratorRegistry{
		generators: make(map[domain.Kind]generators.Generator),
		rng:        rand.New(rand.NewSource(seed)),
	}
}

func (r *GeneratorRegistry) Register(kind domain.Kind, gen generators.Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[kind] = gen
}

func (r *GeneratorRegistry) Get(kind domain.Kind) (generators.Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[kind]
	if !ok {
		return nil, fmt.Errorf("generator not found: %s", kind)
	}
	return gen, nil
}

func (r *GeneratorRegistry) Has(kind domain.Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.generators[kind]
	return ok
}

// Kinds lists registered kinds in catalog order.
func (r *GeneratorRegistry) Kinds() []domain.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.Kind, 0, len(r.generators))
	for _, k := range domain.AllKinds() {
		if _, ok := r.generators[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Produce returns a fresh value for kind.
func (r *GeneratorRegistry) Produce(kind domain.Kind) (string, error) {
	gen, err := r.Get(kind)
	if err != nil {
		return "", err
	}
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return gen.Generate(r.rng)
}

func DefaultGeneratorRegistry(seed int64) *GeneratorRegistry {
	k := domain.MustKind
	r := NewGeneratorRegistry(seed)

	r.Register(k(domain.MajorName, domain.NameFull), &generators.FakerNameGenerator{})
	r.Register(k(domain.MajorName, domain.NameFirst), generators.NewFakerGenerator(func() string { return faker.FirstName() }))
	r.Register(k(domain.MajorName, domain.NameLast), generators.NewFakerGenerator(func() string { return faker.LastName() }))
	r.Register(k(domain.MajorName, domain.NameTitle), &generators.FakerTitleGenerator{})

	r.Register(k(domain.MajorAddress, domain.AddressZip), &generators.RealAddressGenerator{Field: generators.AddressFieldPostalCode})
	r.Register(k(domain.MajorAddress, domain.AddressStreetName), &generators.StreetNameGenerator{})
	r.Register(k(domain.MajorAddress, domain.AddressStreetAddress), &generators.RealAddressGenerator{Field: generators.AddressFieldStreet})
	r.Register(k(domain.MajorAddress, domain.AddressCity), &generators.RealAddressGenerator{Field: generators.AddressFieldCity})
	r.Register(k(domain.MajorAddress, domain.AddressState), generators.StateGenerator())
	r.Register(k(domain.MajorAddress, domain.AddressStateAbbr), generators.StateAbbrGenerator())

	r.Register(k(domain.MajorInternet, domain.InternetSafeEmail), &generators.SafeEmailGenerator{})
	r.Register(k(domain.MajorInternet, domain.InternetFreeEmail), &generators.FreeEmailGenerator{})
	r.Register(k(domain.MajorInternet, domain.InternetUsername), generators.NewFakerGenerator(func() string { return faker.Username() }))
	r.Register(k(domain.MajorInternet, domain.InternetDomainName), generators.NewFakerGenerator(func() string { return faker.DomainName() }))
	r.Register(k(domain.MajorInternet, domain.InternetIPv4), generators.NewFakerGenerator(func() string { return faker.IPv4() }))
	r.Register(k(domain.MajorInternet, domain.InternetIPv6), generators.NewFakerGenerator(func() string { return faker.IPv6() }))
	r.Register(k(domain.MajorInternet, domain.InternetURL), generators.NewFakerGenerator(func() string { return faker.URL() }))
	r.Register(k(domain.MajorInternet, domain.InternetPassword), generators.NewFakerGenerator(func() string { return faker.Password() }))

	r.Register(k(domain.MajorCompany, domain.CompanyName), &generators.CompanyNameGenerator{})
	r.Register(k(domain.MajorCompany, domain.CompanySuffix), generators.CompanySuffixGenerator())
	r.Register(k(domain.MajorCompany, domain.CompanyBuzzword), generators.BuzzwordGenerator())

	r.Register(k(domain.MajorLorem, domain.LoremWord), generators.NewFakerGenerator(func() string { return faker.Word() }))
	r.Register(k(domain.MajorLorem, domain.LoremSentence), generators.NewFakerGenerator(func() string { return faker.Sentence() }))
	r.Register(k(domain.MajorLorem, domain.LoremParagraph), generators.NewFakerGenerator(func() string { return faker.Paragraph() }))

	r.Register(k(domain.MajorNumber, domain.NumberDigit), &generators.DigitGenerator{})
	r.Register(k(domain.MajorNumber, domain.NumberInteger), &generators.UniformIntGenerator{Min: 0, Max: 1_000_000})
	r.Register(k(domain.MajorNumber, domain.NumberDecimal), &generators.UniformFloatGenerator{Min: 0, Max: 10_000, Precision: 2})

	r.Register(k(domain.MajorPhone, domain.PhoneNumber), generators.NewFakerGenerator(func() string { return faker.Phonenumber() }))
	r.Register(k(domain.MajorPhone, domain.PhoneE164), generators.NewFakerGenerator(func() string { return faker.E164PhoneNumber() }))

	r.Register(k(domain.MajorID, domain.IDUUID), &generators.UUID4Generator{})

	r.Register(k(domain.MajorBoolean, domain.MinorNone), generators.BooleanGenerator())
	return r
}
