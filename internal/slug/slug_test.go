package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Berlin Roundnet Club e.V.", "berlin-roundnet-club-ev"},
		{"Roundnet Köln", "roundnet-koln"},
		{"Club de Roundnet — Café Müller", "club-de-roundnet-cafe-muller"},
		{"  Spaced   Out  ", "spaced-out"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER CASE", "upper-case"},
		{"---hyphens---", "hyphens"},
		{"", ""},
		{"München", "munchen"},
		{"Liège & Namur", "liege-namur"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Make(tc.in), "Make(%q)", tc.in)
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Berlin Roundnet Club e.V.",
		"Zürich Spikeball",
		"N/A???",
		"roundnet---club",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "Make should be idempotent for %q", in)
	}
}

func TestMakeCharset(t *testing.T) {
	for _, in := range []string{"Ĺőŕéḿ Ïṕśůḿ", "a&b|c", "42° North", "日本 Roundnet"} {
		s := Make(in)
		for i, r := range s {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			assert.True(t, ok, "unexpected rune %q in %q", r, s)
			if r == '-' {
				assert.NotEqual(t, 0, i, "leading hyphen in %q", s)
				assert.NotEqual(t, len(s)-1, i, "trailing hyphen in %q", s)
			}
		}
		assert.NotContains(t, s, "--", "consecutive hyphens in %q", s)
	}
}
