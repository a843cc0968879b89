package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/csvanon/internal/domain"
)

// HashDirectives fingerprints a directive set independently of the order it
// was written in.
func HashDirectives(directives []domain.Directive) (string, error) {
	data, err := json.Marshal(canonicalizeDirectives(directives))
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeDirectives(directives []domain.Directive) []map[string]interface{} {
	sorted := make([]domain.Directive, len(directives))
	copy(sorted, directives)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Column < sorted[j].Column })

	out := make([]map[string]interface{}, len(sorted))
	for i, d := range sorted {
		out[i] = map[string]interface{}{
			"column": d.Column,
			"kind":   d.Kind.String(),
		}
	}
	return out
}
