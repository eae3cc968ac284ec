package xssfilter

import (
	"net/url"
	"strings"
)

// ValueFilter inspects the value of an attribute that the policy has
// already allowed. It returns the value to emit, or false to drop the
// attribute.
//
// No ValueFilter runs unless one is installed with WithValueFilter:
// by default retained values are kept whatever they contain.
type ValueFilter interface {
	FilterValue(tag, attr, value string) (string, bool)
}

// ValueFilterFunc adapts a function to ValueFilter.
type ValueFilterFunc func(tag, attr, value string) (string, bool)

// FilterValue implements ValueFilter.
func (f ValueFilterFunc) FilterValue(tag, attr, value string) (string, bool) {
	return f(tag, attr, value)
}

// ChainValueFilters runs filters in order, feeding each the previous
// output. The first filter to drop the attribute stops the chain.
func ChainValueFilters(filters ...ValueFilter) ValueFilter {
	return ValueFilterFunc(func(tag, attr, value string) (string, bool) {
		for _, f := range filters {
			var ok bool
			if value, ok = f.FilterValue(tag, attr, value); !ok {
				return "", false
			}
		}
		return value, true
	})
}

// urlAttrs are the attributes SchemeFilter treats as URLs.
var urlAttrs = map[string]struct{}{
	"href":       {},
	"src":        {},
	"action":     {},
	"formaction": {},
	"cite":       {},
	"poster":     {},
}

// SchemeFilter drops URL-bearing attributes whose scheme is not one of
// schemes. Scheme comparison is case-insensitive and relative URLs are
// always kept. Attributes that do not carry URLs pass unchanged.
func SchemeFilter(schemes ...string) ValueFilter {
	allowed := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		allowed[strings.ToLower(s)] = struct{}{}
	}
	return ValueFilterFunc(func(_, attr, value string) (string, bool) {
		if _, ok := urlAttrs[attr]; !ok {
			return value, true
		}
		return value, schemeAllowed(value, allowed)
	})
}

func schemeAllowed(raw string, schemes map[string]struct{}) bool {
	// Browsers ignore control characters and surrounding spaces when
	// resolving a scheme, so "java\tscript:" must be read as javascript.
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	u, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	_, ok := schemes[strings.ToLower(u.Scheme)]
	return ok
}
