package console

import (
	"errors"
	"strings"
)

var errUnterminatedQuote = errors.New("unterminated quote")

// tokenize splits a command line on whitespace. Double quotes group words and
// may appear mid-token, so name="Red Shoe" yields one token name=Red Shoe.
// Inside quotes a backslash escapes the next character.
func tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		inQuote bool
		started bool
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if inQuote || escaped {
		return nil, errUnterminatedQuote
	}

	if started {
		tokens = append(tokens, current.String())
	}

	return tokens, nil
}

// keyValues parses k=v arguments. Keys are case-insensitive.
func keyValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.New("expected key=value, got " + arg)
		}

		values[strings.ToLower(key)] = value
	}

	return values, nil
}
