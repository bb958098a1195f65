package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower case", in: "Markets", want: "markets"},
		{name: "em dash", in: "Markets — Sales", want: "markets - sales"},
		{name: "en dash no spaces", in: "Markets–Sales", want: "markets - sales"},
		{name: "hyphen with spaces", in: "Markets  -   Sales", want: "markets - sales"},
		{name: "diacritics", in: "Conformité Réglementaire", want: "conformite reglementaire"},
		{name: "surrounding whitespace", in: "  Risk \t", want: "risk"},
		{name: "composed and decomposed agree", in: "Équipe", want: "equipe"},
		{name: "empty", in: "", want: ""},
		{name: "blank", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Markets — Sales",
		"Élite--Trading",
		" a - - b ",
		"Investment Banking—M&A",
		"İstanbul Office",
		"ﬁnance",
		"Ｒｉｓｋ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Markets — Sales", DisplayLabel("Markets - Sales"))
	assert.Equal(t, "Markets — Sales", DisplayLabel("  Markets–Sales "))
	assert.Equal(t, "Audit", DisplayLabel("Audit"))
	assert.Equal(t, DisplayLabel("Markets — Sales"), DisplayLabel(DisplayLabel("Markets — Sales")))
}
