package httpcache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidETag is returned when an entity tag cannot be created or parsed.
var ErrInvalidETag = errors.New("httpcache: invalid entity tag")

const wildcardTag = "*"

// ETag is an entity tag per RFC 9110 Section 8.8.3. The zero value is not a
// valid tag; use NewETag, NewWildcardETag or ParseETag.
type ETag struct {
	tag      string
	weak     bool
	wildcard bool
}

// NewETag returns a strong or weak entity tag. The tag must not be blank and
// must not contain a double quote.
func NewETag(tag string, weak bool) (ETag, error) {
	return NewETagFrom(tag, weak, false)
}

// NewWildcardETag returns the "*" entity tag used by If-Match and
// If-None-Match to refer to any current representation.
func NewWildcardETag() ETag {
	return ETag{tag: wildcardTag, wildcard: true}
}

// NewETagFrom returns an entity tag from all of its attributes. A wildcard
// tag is always "*" and can't be weak.
func NewETagFrom(tag string, weak, wildcard bool) (ETag, error) {
	if wildcard {
		if weak {
			return ETag{}, fmt.Errorf("%w: a wildcard tag can't be weak", ErrInvalidETag)
		}
		return NewWildcardETag(), nil
	}

	if strings.TrimSpace(tag) == "" {
		return ETag{}, fmt.Errorf("%w: tag is empty", ErrInvalidETag)
	}

	if strings.Contains(tag, `"`) {
		return ETag{}, fmt.Errorf("%w: tag %q contains a double quote", ErrInvalidETag, tag)
	}

	return ETag{tag: tag, weak: weak}, nil
}

// Tag returns the opaque tag value, without quotes or weak prefix.
func (e ETag) Tag() string {
	return e.tag
}

// Weak reports whether the tag is a weak validator.
func (e ETag) Weak() bool {
	return e.weak
}

// Wildcard reports whether the tag is the "*" wildcard.
func (e ETag) Wildcard() bool {
	return e.wildcard
}

// IsZero reports whether e is the zero value.
func (e ETag) IsZero() bool {
	return e.tag == ""
}

// Equal reports whether both tags have the same value and flags.
func (e ETag) Equal(o ETag) bool {
	return e == o
}

// String serializes the tag as a header value.
func (e ETag) String() string {
	switch {
	case e.wildcard:
		return wildcardTag
	case e.tag == "":
		return ""
	case e.weak:
		return `W/"` + e.tag + `"`
	default:
		return `"` + e.tag + `"`
	}
}

// StrongMatch implements the strong comparison of RFC 9110 Section 8.8.3.2:
// both tags are strong and their values are identical.
func (e ETag) StrongMatch(o ETag) bool {
	if e.wildcard || o.wildcard || e.weak || o.weak {
		return false
	}
	return e.tag != "" && e.tag == o.tag
}

// WeakMatch implements the weak comparison of RFC 9110 Section 8.8.3.2:
// the values are identical, whatever the weak flags.
func (e ETag) WeakMatch(o ETag) bool {
	if e.wildcard || o.wildcard {
		return false
	}
	return e.tag != "" && e.tag == o.tag
}

// ParseETag parses a single ETag header value. Accepted forms are "tag",
// W/"tag" and *.
func ParseETag(v string) (ETag, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return ETag{}, fmt.Errorf("%w: empty value", ErrInvalidETag)
	}
	if v == wildcardTag {
		return NewWildcardETag(), nil
	}

	weak := false
	rest := v
	if strings.HasPrefix(rest, "W/") {
		weak = true
		rest = rest[2:]
	}

	if !strings.HasPrefix(rest, `"`) {
		if i := strings.IndexByte(rest, '"'); i > 0 {
			return ETag{}, fmt.Errorf("%w: unrecognized prefix %q in %q", ErrInvalidETag, rest[:i], v)
		}
		return ETag{}, fmt.Errorf("%w: %q is not quoted", ErrInvalidETag, v)
	}

	if len(rest) < 2 || !strings.HasSuffix(rest, `"`) {
		return ETag{}, fmt.Errorf("%w: %q is not quoted", ErrInvalidETag, v)
	}

	return NewETag(rest[1:len(rest)-1], weak)
}

// ParseETagList parses a comma separated list of entity tags as found in
// If-Match and If-None-Match. Commas inside quoted tags are kept.
func ParseETagList(v string) ([]ETag, error) {
	var (
		tags []ETag
		i    int
	)

	for i < len(v) {
		switch v[i] {
		case ' ', '\t', ',':
			i++
			continue
		}

		start := i
		if strings.HasPrefix(v[i:], "W/") {
			i += 2
		}

		if i < len(v) && v[i] == '"' {
			end := strings.IndexByte(v[i+1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated tag in %q", ErrInvalidETag, v)
			}
			i += end + 2
		} else {
			for i < len(v) && v[i] != ',' {
				i++
			}
		}

		tag, err := ParseETag(v[start:i])
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidETag)
	}

	return tags, nil
}
