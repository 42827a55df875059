package lens

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySegment is returned for paths such as "a..b" or "a.".
	ErrEmptySegment = errors.New("lens: empty path segment")
	// ErrUnterminated is returned when a bracket or quote is not closed.
	ErrUnterminated = errors.New("lens: unterminated bracket")
	// ErrUnexpectedChar is returned for characters that cannot follow a
	// bracketed segment.
	ErrUnexpectedChar = errors.New("lens: unexpected character")
)

// ParsePath splits a path expression into keys. Segments are separated
// by dots; brackets hold an index or a quoted key that may itself
// contain dots:
//
//	server.listeners[0]["tls.cert"]
//
// The empty expression yields no keys.
func ParsePath(expr string) ([]string, error) {
	var keys []string
	i := 0
	for i < len(expr) {
		var (
			key string
			err error
		)
		if expr[i] == '[' {
			key, i, err = parseBracket(expr, i)
		} else {
			key, i, err = parseName(expr, i)
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)

		if i == len(expr) {
			break
		}
		switch expr[i] {
		case '.':
			i++
			if i == len(expr) || expr[i] == '.' || expr[i] == '[' {
				return nil, fmt.Errorf("%w at offset %d in %q", ErrEmptySegment, i, expr)
			}
		case '[':
		default:
			return nil, fmt.Errorf("%w %q at offset %d in %q", ErrUnexpectedChar, expr[i], i, expr)
		}
	}
	return keys, nil
}

// MustPath parses expr and returns the matching Path lens, panicking on a
// malformed expression.
func MustPath(expr string) Lens[any, any] {
	keys, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return Path(keys...)
}

func parseName(expr string, start int) (string, int, error) {
	end := start
	for end < len(expr) && expr[end] != '.' && expr[end] != '[' {
		if expr[end] == ']' {
			return "", 0, fmt.Errorf("%w %q at offset %d in %q", ErrUnexpectedChar, ']', end, expr)
		}
		end++
	}
	if end == start {
		return "", 0, fmt.Errorf("%w at offset %d in %q", ErrEmptySegment, start, expr)
	}
	return expr[start:end], end, nil
}

// parseBracket reads a segment starting at the '[' at start and returns
// the key and the offset just past the closing ']'.
func parseBracket(expr string, start int) (string, int, error) {
	i := start + 1
	if i < len(expr) && (expr[i] == '"' || expr[i] == '\'') {
		quote := expr[i]
		var b strings.Builder
		for i++; i < len(expr); i++ {
			c := expr[i]
			if c == '\\' && i+1 < len(expr) {
				i++
				b.WriteByte(expr[i])
				continue
			}
			if c == quote {
				break
			}
			b.WriteByte(c)
		}
		if i+1 >= len(expr) || expr[i+1] != ']' {
			return "", 0, fmt.Errorf("%w at offset %d in %q", ErrUnterminated, start, expr)
		}
		return b.String(), i + 2, nil
	}

	end := strings.IndexByte(expr[i:], ']')
	if end < 0 {
		return "", 0, fmt.Errorf("%w at offset %d in %q", ErrUnterminated, start, expr)
	}
	if end == 0 {
		return "", 0, fmt.Errorf("%w at offset %d in %q", ErrEmptySegment, start, expr)
	}
	return expr[i : i+end], i + end + 1, nil
}
