// Package cachebuster generates the per-process code embedded in asset URLs
// to invalidate client caches on every deployment, and removes such codes
// from request paths before routing.
package cachebuster

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Prefix starts every cache buster code.
const Prefix = "yardcb_"

// CodeLength is the number of characters following Prefix.
const CodeLength = 13

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	codeOnce sync.Once
	code     string
)

// Code returns the cache buster code of the running process. It is generated
// on first use and stays the same until the process exits.
func Code() string {
	codeOnce.Do(func() {
		code = generate()
	})
	return code
}

func generate() string {
	var b strings.Builder
	b.Grow(len(Prefix) + CodeLength)
	b.WriteString(Prefix)

	for n := 0; n < CodeLength; {
		for _, c := range randomBytes(uuid.New()) {
			// Bytes above the largest multiple of the alphabet size would
			// favour the first characters.
			if c >= unbiasedLimit {
				continue
			}
			b.WriteByte(alphabet[int(c)%len(alphabet)])
			if n++; n == CodeLength {
				break
			}
		}
	}
	return b.String()
}

// unbiasedLimit is the largest multiple of len(alphabet) not above 256.
const unbiasedLimit = 256 / len(alphabet) * len(alphabet)

// randomBytes returns the bytes of a version 4 UUID that carry no version
// or variant bits.
func randomBytes(id uuid.UUID) []byte {
	out := make([]byte, 0, 14)
	out = append(out, id[0:6]...)
	out = append(out, id[7])
	out = append(out, id[9:16]...)
	return out
}

// IsValid reports whether s is exactly one syntactically valid code.
func IsValid(s string) bool {
	return len(s) == len(Prefix)+CodeLength && codeLength(s, 0) == len(s)
}

// Insert returns path with the current code placed before the extension of
// its last segment, e.g. "/css/main.css" becomes
// "/css/mainyardcb_xxxxxxxxxxxxx.css". Without an extension the code is
// appended.
func Insert(path string) string {
	slash := strings.LastIndexByte(path, '/')
	if dot := strings.LastIndexByte(path, '.'); dot > slash {
		return path[:dot] + Code() + path[dot:]
	}
	return path + Code()
}

// Remove strips every syntactically valid code from path, whether or not it
// is the code of the running process. Runs that look like a code but have a
// wrong length or invalid characters are kept.
func Remove(path string) string {
	if !strings.Contains(path, Prefix) {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))

	i := 0
	for i < len(path) {
		if n := codeLength(path, i); n > 0 {
			i += n
			continue
		}
		b.WriteByte(path[i])
		i++
	}
	return b.String()
}

// codeLength returns the length of a valid code starting at s[i], or 0.
// A valid code is Prefix followed by exactly CodeLength alphabet characters
// not followed by another alphabet character.
func codeLength(s string, i int) int {
	if !strings.HasPrefix(s[i:], Prefix) {
		return 0
	}

	start := i + len(Prefix)
	j := start
	for j < len(s) && isCodeChar(s[j]) {
		j++
	}

	if j-start != CodeLength {
		return 0
	}
	return len(Prefix) + CodeLength
}

func isCodeChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}
