package cachebuster

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var codeRegex = regexp.MustCompile(`^yardcb_[a-z0-9]{13}$`)

func TestCode(t *testing.T) {
	t.Run("matches the code format", func(t *testing.T) {
		assert.Regexp(t, codeRegex, Code())
		assert.True(t, IsValid(Code()))
	})

	t.Run("is stable for the process", func(t *testing.T) {
		assert.Equal(t, Code(), Code())
	})

	t.Run("generated codes differ", func(t *testing.T) {
		assert.NotEqual(t, generate(), generate())
	})
}

func TestGenerate(t *testing.T) {
	t.Run("skips version and variant bytes", func(t *testing.T) {
		var id uuid.UUID
		for i := range id {
			id[i] = byte(i)
		}
		assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 7, 9, 10, 11, 12, 13, 14, 15}, randomBytes(id))
	})

	t.Run("every position uses the whole alphabet", func(t *testing.T) {
		seen := make([]map[byte]bool, CodeLength)
		for i := range seen {
			seen[i] = make(map[byte]bool)
		}

		for range 2000 {
			code := generate()
			assert.True(t, IsValid(code))
			for i := 0; i < CodeLength; i++ {
				seen[i][code[len(Prefix)+i]] = true
			}
		}

		for i, chars := range seen {
			assert.Len(t, chars, len(alphabet), "position %d", i)
		}
	})

	t.Run("limit is a multiple of the alphabet", func(t *testing.T) {
		assert.Equal(t, 252, unbiasedLimit)
	})
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "yardcb_abcdefghij123", want: true},
		{in: "yardcb_abcdefghij12", want: false},
		{in: "yardcb_abcdefghij1234", want: false},
		{in: "yardcb_ABCDEFGHIJ123", want: false},
		{in: "yardcb_abcdefghij12-", want: false},
		{in: "xardcb_abcdefghij123", want: false},
		{in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.in))
		})
	}
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no code", in: "/css/main.css", want: "/css/main.css"},
		{name: "code as segment", in: "/yardcb_abcdefghij123/css/main.css", want: "//css/main.css"},
		{name: "code inside segment", in: "/css/yardcb_abcdefghij123main.css", want: "/css/yardcb_abcdefghij123main.css"},
		{name: "code before dot", in: "/css/main-yardcb_abcdefghij123.css", want: "/css/main-.css"},
		{name: "code at end", in: "/img/logo.png?v=yardcb_0123456789abc", want: "/img/logo.png?v="},
		{name: "several codes", in: "/yardcb_abcdefghij123/a/yardcb_0000000000000", want: "//a/"},
		{name: "too short", in: "/a/yardcb_abc/b", want: "/a/yardcb_abc/b"},
		{name: "too long", in: "/a/yardcb_abcdefghij1234/b", want: "/a/yardcb_abcdefghij1234/b"},
		{name: "uppercase", in: "/a/yardcb_ABCDEFGHIJ123/b", want: "/a/yardcb_ABCDEFGHIJ123/b"},
		{name: "prefix only", in: "/a/yardcb_", want: "/a/yardcb_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remove(tt.in))
		})
	}
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	paths := []string{"/", "/css/main.css", "/a/b/c", "file.js", "/img/", ""}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			withCode := Insert(p)
			assert.True(t, strings.Contains(withCode, Code()))
			assert.Equal(t, p, Remove(withCode))
		})
	}
}
