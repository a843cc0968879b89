package app

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/mmrzaf/csvanon/internal/domain"
	"github.com/mmrzaf/csvanon/internal/validation"
)

const defaultDelimiter = ","

// settings is a run request merged over its profile.
type settings struct {
	profileID  string
	directives []string
	delimiter  rune
	delimStr   string
	header     bool
	memoize    bool
	memoScope  domain.MemoScope
	seed       int64
}

// resolveSettings lets explicit request fields win over the profile and the
// profile win over defaults.
func resolveSettings(req *domain.RunRequest, profile *domain.Profile) (*settings, error) {
	s := &settings{delimStr: defaultDelimiter}
	seedSet := false

	if profile != nil {
		s.profileID = profile.ID
		s.directives = profile.Directives
		if profile.Delimiter != "" {
			s.delimStr = profile.Delimiter
		}
		s.header = profile.Header
		s.memoize = profile.Memoize
		s.memoScope = profile.MemoScope
		if profile.Seed != nil {
			s.seed = *profile.Seed
			seedSet = true
		}
	}

	if len(req.Directives) > 0 {
		s.directives = req.Directives
	}
	if req.Delimiter != "" {
		s.delimStr = req.Delimiter
	}
	if req.Header != nil {
		s.header = *req.Header
	}
	if req.Memoize != nil {
		s.memoize = *req.Memoize
	}
	if req.MemoScope != "" {
		s.memoScope = req.MemoScope
	}
	if req.Seed != nil {
		s.seed = *req.Seed
		seedSet = true
	}
	if !seedSet {
		s.seed = generateSeed()
	}
	if s.memoScope == "" {
		s.memoScope = domain.MemoScopeValue
	}

	delim, err := validation.ParseDelimiter(s.delimStr)
	if err != nil {
		return nil, err
	}
	s.delimiter = delim
	return s, nil
}

func generateSeed() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
