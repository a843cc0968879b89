package domain

import "fmt"

// Major is the top-level generator category.
type Major string

const (
	MajorName     Major = "name"
	MajorAddress  Major = "address"
	MajorInternet Major = "internet"
	MajorCompany  Major = "company"
	MajorLorem    Major = "lorem"
	MajorNumber   Major = "number"
	MajorPhone    Major = "phone"
	MajorID       Major = "id"
	MajorBoolean  Major = "boolean"
)

// Minor selects a generator within a Major. Values are only meaningful
// together with their Major.
type Minor string

// MinorNone is used by majors without variants.
const MinorNone Minor = ""

const (
	NameFull  Minor = "name"
	NameFirst Minor = "first_name"
	NameLast  Minor = "last_name"
	NameTitle Minor = "title"

	AddressZip           Minor = "zip"
	AddressStreetName    Minor = "street_name"
	AddressStreetAddress Minor = "street_address"
	AddressCity          Minor = "city"
	AddressState         Minor = "state"
	AddressStateAbbr     Minor = "state_abbr"

	InternetSafeEmail  Minor = "safe_email"
	InternetFreeEmail  Minor = "free_email"
	InternetUsername   Minor = "username"
	InternetDomainName Minor = "domain_name"
	InternetIPv4       Minor = "ipv4"
	InternetIPv6       Minor = "ipv6"
	InternetURL        Minor = "url"
	InternetPassword   Minor = "password"

	CompanyName     Minor = "name"
	CompanySuffix   Minor = "suffix"
	CompanyBuzzword Minor = "buzzword"

	LoremWord      Minor = "word"
	LoremSentence  Minor = "sentence"
	LoremParagraph Minor = "paragraph"

	NumberDigit   Minor = "digit"
	NumberInteger Minor = "integer"
	NumberDecimal Minor = "decimal"

	PhoneNumber Minor = "number"
	PhoneE164   Minor = "e164"

	IDUUID Minor = "uuid"
)

// Category is one row of the closed kind table.
type Category struct {
	Major  Major
	Minors []Minor
}

var categories = []Category{
	{MajorName, []Minor{NameFull, NameFirst, NameLast, NameTitle}},
	{MajorAddress, []Minor{AddressZip, AddressStreetName, AddressStreetAddress, AddressCity, AddressState, AddressStateAbbr}},
	{MajorInternet, []Minor{InternetSafeEmail, InternetFreeEmail, InternetUsername, InternetDomainName, InternetIPv4, InternetIPv6, InternetURL, InternetPassword}},
	{MajorCompany, []Minor{CompanyName, CompanySuffix, CompanyBuzzword}},
	{MajorLorem, []Minor{LoremWord, LoremSentence, LoremParagraph}},
	{MajorNumber, []Minor{NumberDigit, NumberInteger, NumberDecimal}},
	{MajorPhone, []Minor{PhoneNumber, PhoneE164}},
	{MajorID, []Minor{IDUUID}},
	{MajorBoolean, nil},
}

// Categories returns the kind table in its fixed order. The result is a copy.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = Category{Major: c.Major, Minors: append([]Minor(nil), c.Minors...)}
	}
	return out
}

// Kind is a validated (major, minor) pair. The zero value is not a valid kind;
// build kinds with NewKind or MustKind.
type Kind struct {
	major Major
	minor Minor
}

func NewKind(major Major, minor Minor) (Kind, error) {
	for _, c := range categories {
		if c.Major != major {
			continue
		}
		if len(c.Minors) == 0 {
			if minor != MinorNone {
				return Kind{}, fmt.Errorf("generator kind %q takes no minor variant", string(major))
			}
			return Kind{major: major}, nil
		}
		if minor == MinorNone {
			return Kind{}, fmt.Errorf("generator kind %q requires a minor variant", string(major))
		}
		for _, m := range c.Minors {
			if m == minor {
				return Kind{major: major, minor: minor}, nil
			}
		}
		return Kind{}, fmt.Errorf("unknown minor %s kind %q", major, string(minor))
	}
	return Kind{}, fmt.Errorf("unknown major generator kind %q", string(major))
}

func MustKind(major Major, minor Minor) Kind {
	k, err := NewKind(major, minor)
	if err != nil {
		panic(err)
	}
	return k
}

// AllKinds lists every valid kind in table order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, 40)
	for _, c := range categories {
		if len(c.Minors) == 0 {
			kinds = append(kinds, Kind{major: c.Major})
			continue
		}
		for _, m := range c.Minors {
			kinds = append(kinds, Kind{major: c.Major, minor: m})
		}
	}
	return kinds
}

func (k Kind) Major() Major { return k.major }
func (k Kind) Minor() Minor { return k.minor }
func (k Kind) IsZero() bool { return k.major == "" }

func (k Kind) String() string {
	if k.minor == MinorNone {
		return string(k.major)
	}
	return string(k.major) + "." + string(k.minor)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Directive rewrites one zero-based column with values of Kind.
type Directive struct {
	Column int  `json:"column" yaml:"column"`
	Kind   Kind `json:"kind" yaml:"kind"`
}

func (d Directive) String() string {
	return fmt.Sprintf("%d:%s", d.Column, d.Kind)
}
