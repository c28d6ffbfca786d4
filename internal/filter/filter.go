package filter

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"prospector/internal/services"
)

// EmployeeSize is one closed company-headcount range accepted by the lead source.
type EmployeeSize int

const (
	Size1To10 EmployeeSize = iota + 1
	Size11To20
	Size21To50
	Size51To100
	Size101To200
	Size201To500
	Size501To1000
	Size1001To2000
	Size2001To5000
	Size5001To10000
	Size10001Plus
)

// Unspecified is the storage token for a filter without a headcount constraint.
const Unspecified = "unspecified"

// sizeTable lists every range in ascending order with its storage token.
var sizeTable = []struct {
	size  EmployeeSize
	token string
}{
	{Size1To10, "1-10"},
	{Size11To20, "11-20"},
	{Size21To50, "21-50"},
	{Size51To100, "51-100"},
	{Size101To200, "101-200"},
	{Size201To500, "201-500"},
	{Size501To1000, "501-1000"},
	{Size1001To2000, "1001-2000"},
	{Size2001To5000, "2001-5000"},
	{Size5001To10000, "5001-10000"},
	{Size10001Plus, "10001+"},
}

// String returns the storage token, e.g. "51-100".
func (s EmployeeSize) String() string {
	for _, row := range sizeTable {
		if row.size == s {
			return row.token
		}
	}
	return fmt.Sprintf("size(%d)", int(s))
}

// Wire returns the lead source form of the range, e.g. "51,100".
func (s EmployeeSize) Wire() string {
	return strings.ReplaceAll(s.String(), "-", ",")
}

func (s EmployeeSize) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EmployeeSize) UnmarshalText(text []byte) error {
	parsed, err := ParseSize(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSize accepts a storage token or its wire form.
func ParseSize(token string) (EmployeeSize, error) {
	needle := strings.TrimSpace(token)
	for _, row := range sizeTable {
		if row.token == needle || strings.ReplaceAll(row.token, "-", ",") == needle {
			return row.size, nil
		}
	}
	return 0, services.Wrap(services.ErrValidation, "filter", "parse size", fmt.Sprintf("unknown employee size %q", token), nil)
}

// ParseSizes decodes the storage form ("1-10, 11-20"). Blank input and
// "unspecified" yield nil. The result is deduplicated and ordered by range.
func ParseSizes(value string) ([]EmployeeSize, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, Unspecified) {
		return nil, nil
	}
	var sizes []EmployeeSize
	for _, part := range strings.Split(trimmed, ",") {
		size, err := ParseSize(part)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return normalizeSizes(sizes), nil
}

// ParseWireSizes decodes the lead source form ("1,10;11,20").
func ParseWireSizes(value string) ([]EmployeeSize, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	var sizes []EmployeeSize
	for _, part := range strings.Split(trimmed, ";") {
		size, err := ParseSize(part)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return normalizeSizes(sizes), nil
}

func normalizeSizes(sizes []EmployeeSize) []EmployeeSize {
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

// Spec is the immutable search descriptor attached to a collection.
type Spec struct {
	PersonTitle string         `json:"person_title"`
	Location    string         `json:"location"`
	Industry    string         `json:"industry"`
	Keywords    string         `json:"keywords,omitempty"`
	Sizes       []EmployeeSize `json:"employee_sizes,omitempty"`
}

// Validate rejects specs missing a required search term or carrying an
// unknown size.
func (s Spec) Validate() error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(s.PersonTitle) == "" {
		missing = append(missing, "person title")
	}
	if strings.TrimSpace(s.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(s.Industry) == "" {
		missing = append(missing, "industry")
	}
	if len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "filter", "validate", "missing "+strings.Join(missing, ", "), nil)
	}
	for _, size := range s.Sizes {
		if size < Size1To10 || size > Size10001Plus {
			return services.Wrap(services.ErrValidation, "filter", "validate", fmt.Sprintf("invalid employee size %d", int(size)), nil)
		}
	}
	return nil
}

// Unconstrained reports whether the headcount filter is "unspecified".
func (s Spec) Unconstrained() bool {
	return len(s.Sizes) == 0
}

// StorageSizes renders the headcount filter for persistence.
func (s Spec) StorageSizes() string {
	if s.Unconstrained() {
		return Unspecified
	}
	tokens := make([]string, 0, len(s.Sizes))
	for _, size := range normalizeSizes(slices.Clone(s.Sizes)) {
		tokens = append(tokens, size.String())
	}
	return strings.Join(tokens, ", ")
}

// WireSizes renders the numEmployees parameter. ok is false when the filter
// is unspecified and the parameter must be omitted.
func (s Spec) WireSizes() (value string, ok bool) {
	if s.Unconstrained() {
		return "", false
	}
	tokens := make([]string, 0, len(s.Sizes))
	for _, size := range normalizeSizes(slices.Clone(s.Sizes)) {
		tokens = append(tokens, size.Wire())
	}
	return strings.Join(tokens, ";"), true
}

// Query encodes the search terms as lead source query parameters. The
// continuation token is added by the caller.
func (s Spec) Query() url.Values {
	q := url.Values{}
	q.Set("locations", s.Location)
	q.Set("industry", s.Industry)
	q.Set("personTitle", s.PersonTitle)
	if wire, ok := s.WireSizes(); ok {
		q.Set("numEmployees", wire)
	}
	if kw := strings.TrimSpace(s.Keywords); kw != "" {
		q.Set("qKeywords", kw)
	}
	return q
}
