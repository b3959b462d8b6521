package server

import (
	"net/url"
	"strings"

	"github.com/AlekseyChudov/rscheck/pkg/check"
	"github.com/pkg/errors"
)

// ParseQueryArgs splits a raw query string into ordered name/value pairs.
// Every element must be of the form k=v; for repeated names the first
// occurrence wins. The raw string itself serves as the query cache key, so
// no canonicalization happens here.
func ParseQueryArgs(rawQuery string) ([]check.QueryArg, error) {
	if rawQuery == "" {
		return nil, nil
	}

	var args []check.QueryArg
	seen := make(map[string]struct{})

	for _, pair := range strings.Split(rawQuery, "&") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errors.Errorf("malformed query %q", rawQuery)
		}

		decodedName, err := url.QueryUnescape(name)
		if err != nil {
			return nil, errors.Errorf("malformed query %q", rawQuery)
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, errors.Errorf("malformed query %q", rawQuery)
		}

		if _, dup := seen[decodedName]; dup {
			continue
		}
		seen[decodedName] = struct{}{}

		args = append(args, check.QueryArg{Name: decodedName, Value: decodedValue})
	}

	return args, nil
}

func excludeSet(args []check.QueryArg) map[string]struct{} {
	exclude := make(map[string]struct{})

	for _, arg := range args {
		if arg.Name != "exclude" {
			continue
		}
		for _, name := range strings.Split(arg.Value, ",") {
			if name != "" {
				exclude[name] = struct{}{}
			}
		}
	}

	return exclude
}
