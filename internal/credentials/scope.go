package credentials

import (
	"fmt"
	"strings"
)

// Scope tags which operation a credential may authenticate.
type Scope int

const (
	ScopeLeads Scope = iota + 1
	ScopeEmail
	ScopeBoth
)

var scopeWire = map[Scope]string{
	ScopeLeads: "leads",
	ScopeEmail: "email",
	ScopeBoth:  "both",
}

// String returns the storage form of the scope.
func (s Scope) String() string {
	if v, ok := scopeWire[s]; ok {
		return v
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// ParseScope converts a stored or user-supplied value into a Scope. Unknown
// values are rejected rather than widened to both.
func ParseScope(value string) (Scope, error) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for scope, wire := range scopeWire {
		if wire == needle {
			return scope, nil
		}
	}
	return 0, fmt.Errorf("unknown credential scope %q (want leads, email, or both)", value)
}

// Accepts reports whether a credential with this scope may serve purpose.
func (s Scope) Accepts(purpose Scope) bool {
	return s == ScopeBoth || s == purpose
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	wire, ok := scopeWire[s]
	if !ok {
		return nil, fmt.Errorf("invalid credential scope %d", int(s))
	}
	return []byte(wire), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
