package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/csvanon/internal/domain"
)

type RunConfig struct {
	Directives []domain.Directive
	Delimiter  rune
	Header     bool
	Memoize    bool
	MemoScope  domain.MemoScope
	Seed       int64
}

type runConfigHashPayload struct {
	DirectivesHash string `json:"directives_hash"`
	Delimiter      string `json:"delimiter"`
	Header         bool   `json:"header"`
	Memoize        bool   `json:"memoize"`
	MemoScope      string `json:"memo_scope,omitempty"`
	Seed           int64  `json:"seed"`
}

// HashRunConfig identifies runs that would produce identical output for
// identical input.
func HashRunConfig(cfg RunConfig) (string, error) {
	dh, err := HashDirectives(cfg.Directives)
	if err != nil {
		return "", err
	}

	p := runConfigHashPayload{
		DirectivesHash: dh,
		Delimiter:      string(cfg.Delimiter),
		Header:         cfg.Header,
		Memoize:        cfg.Memoize,
		Seed:           cfg.Seed,
	}
	if cfg.Memoize {
		scope := cfg.MemoScope
		if scope == "" {
			scope = domain.MemoScopeValue
		}
		p.MemoScope = string(scope)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
