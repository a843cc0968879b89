package exec

import "github.com/mmrzaf/csvanon/internal/domain"

type memoKey struct {
	kind  domain.Kind
	value string
}

// Memo maps original cell values to their first generated replacement for
// the lifetime of one run. With MemoScopeValue (the default) the kind is not
// part of the key, so an original value shared by two rewritten columns gets
// the same replacement in both, even if their kinds differ.
type Memo struct {
	scope  domain.MemoScope
	values map[memoKey]string
}

func NewMemo(scope domain.MemoScope) *Memo {
	if scope == "" {
		scope = domain.MemoScopeValue
	}
	return &Memo{scope: scope, values: make(map[memoKey]string)}
}

func (m *Memo) key(kind domain.Kind, value string) memoKey {
	if m.scope == domain.MemoScopeKind {
		return memoKey{kind: kind, value: value}
	}
	return memoKey{value: value}
}

func (m *Memo) Lookup(kind domain.Kind, value string) (string, bool) {
	v, ok := m.values[m.key(kind, value)]
	return v, ok
}

func (m *Memo) Store(kind domain.Kind, value, replacement string) {
	m.values[m.key(kind, value)] = replacement
}

func (m *Memo) Scope() domain.MemoScope { return m.scope }

func (m *Memo) Len() int { return len(m.values) }

func (m *Memo) Clear() {
	m.values = make(map[memoKey]string)
}
