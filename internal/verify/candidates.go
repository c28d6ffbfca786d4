package verify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	websitePrefix = regexp.MustCompile(`(?i)^https?://(www\.)?`)
	lower         = cases.Lower(language.Und)
)

// BareDomain strips the scheme, a leading "www." and anything after the host
// from a company website. It returns "" when nothing usable remains.
func BareDomain(website string) string {
	domain := websitePrefix.ReplaceAllString(strings.TrimSpace(website), "")
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	return lower.String(strings.TrimSpace(domain))
}

// normalizeName lower-cases a name and drops inner whitespace so it can be
// used as a mailbox local part.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(lower.String(name)), "")
}

// Candidates returns the guesses for one person in the order they are
// checked: last@domain, first@domain, then first initial plus last. Guesses
// whose local part would be empty are left out.
func Candidates(first, last, domain string) []string {
	first = normalizeName(first)
	last = normalizeName(last)
	if domain == "" {
		return nil
	}

	var initial string
	if first != "" {
		initial = string([]rune(first)[:1])
	}
	locals := []string{last, first}
	if initial != "" && last != "" {
		locals = append(locals, initial+last)
	}

	out := make([]string, 0, len(locals))
	for _, local := range locals {
		if local == "" {
			continue
		}
		out = append(out, local+"@"+domain)
	}
	return out
}
