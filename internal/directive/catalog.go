package directive

import (
	"strings"

	"github.com/mmrzaf/csvanon/internal/domain"
)

// Extra spellings on top of the canonical minor names. Keys are normalized
// (lowercase, no underscores).
var minorAliases = map[domain.Major]map[string]domain.Minor{
	domain.MajorAddress: {
		"postcode":   domain.AddressZip,
		"zipcode":    domain.AddressZip,
		"postalcode": domain.AddressZip,
	},
	domain.MajorInternet: {
		"ip":    domain.InternetIPv4,
		"email": domain.InternetSafeEmail,
	},
	domain.MajorNumber: {
		"int":   domain.NumberInteger,
		"float": domain.NumberDecimal,
	},
}

var majorAliases = map[string]domain.Major{
	"bool": domain.MajorBoolean,
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "")
}

func lookupMajor(s string) (domain.Major, bool) {
	want := strings.ToLower(s)
	for _, c := range domain.Categories() {
		if string(c.Major) == want {
			return c.Major, true
		}
	}
	m, ok := majorAliases[want]
	return m, ok
}

func lookupMinor(major domain.Major, s string) (domain.Minor, bool) {
	want := normalize(s)
	for _, c := range domain.Categories() {
		if c.Major != major {
			continue
		}
		for _, m := range c.Minors {
			if normalize(string(m)) == want {
				return m, true
			}
		}
	}
	m, ok := minorAliases[major][want]
	return m, ok
}

// Group lists the minors of one major.
type Group struct {
	Major  string   `json:"major" yaml:"major"`
	Minors []string `json:"minors" yaml:"minors"`
}

// Combinations returns every valid major/minor combination grouped by major,
// in a fixed order. Majors without variants have an empty Minors list.
func Combinations() []Group {
	cats := domain.Categories()
	groups := make([]Group, 0, len(cats))
	for _, c := range cats {
		g := Group{Major: string(c.Major), Minors: make([]string, 0, len(c.Minors))}
		for _, m := range c.Minors {
			g.Minors = append(g.Minors, string(m))
		}
		groups = append(groups, g)
	}
	return groups
}

// Specs flattens Combinations into "major.minor" strings.
func Specs() []string {
	var out []string
	for _, g := range Combinations() {
		if len(g.Minors) == 0 {
			out = append(out, g.Major)
			continue
		}
		for _, m := range g.Minors {
			out = append(out, g.Major+"."+m)
		}
	}
	return out
}
