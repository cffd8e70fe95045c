package params

import (
	"net/url"
	"strings"
)

// Pair is one name/value pair taken from a query string.
type Pair struct {
	Name  string
	Value string
}

// RawQuery is the untrusted, ordered input of a single request.
type RawQuery []Pair

// ParseQuery splits a raw query string (without the leading '?') into pairs.
//
// Pairs are separated by '&'. A pair without '=' gets an empty value. Names
// and values are percent-decoded, '+' decodes to a space. Pairs with broken
// escapes or an empty name are skipped rather than failing the whole query.
func ParseQuery(raw string) RawQuery {
	var out RawQuery

	for raw != "" {
		var segment string
		segment, raw, _ = strings.Cut(raw, "&")
		if segment == "" {
			continue
		}

		name, value, _ := strings.Cut(segment, "=")

		name, err := url.QueryUnescape(name)
		if err != nil || name == "" {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}

		out = append(out, Pair{Name: name, Value: value})
	}

	return out
}
