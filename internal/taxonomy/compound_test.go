package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-quiver/internal/domain"
)

func TestToCompound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bray_i", "bray_i_compound"},
		{"bray_i_triple", "bray_i_compound_triple"},
		{"bray_ii", "bray_ii_compound"},
		{"bray_ii_triple", "bray_ii_compound_triple"},
		{"stafford", "stafford_compound"},
		{"portsmouth", "portsmouth_compound"},
		{"portsmouth_triple", "portsmouth_compound_triple"},
		{"vegas", "vegas_compound"},
		{"wa18", "wa18_compound"},
		{"wa18_triple", "wa18_compound_triple"},
		{"wa25", "wa25_compound"},
		{"wa25_triple", "wa25_compound_triple"},
		{"york", "york"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToCompound(tt.in))
		})
	}
}

func TestToCompound_Idempotent(t *testing.T) {
	for key, value := range compoundCodenames {
		assert.Equal(t, value, ToCompound(key))
		assert.Equal(t, value, ToCompound(ToCompound(key)), "mapping %s twice", key)
		_, isKey := compoundCodenames[value]
		assert.False(t, isKey, "compound codename %s must not be a key", value)
	}
}

func TestToCompoundAll(t *testing.T) {
	in := []string{"wa18", "york", "vegas_compound", "portsmouth"}

	got := ToCompoundAll(in)

	assert.Equal(t, []string{"wa18_compound", "york", "vegas_compound", "portsmouth_compound"}, got)
	assert.Equal(t, []string{"wa18", "york", "vegas_compound", "portsmouth"}, in, "input must not change")
	assert.Empty(t, ToCompoundAll(nil))
}

func TestStripCompoundVariants(t *testing.T) {
	rounds := []domain.Round{
		{Codename: "portsmouth", Name: "Portsmouth"},
		{Codename: "portsmouth_compound", Name: "Portsmouth (Compound Scoring)"},
		{Codename: "wa18", Name: "WA 18"},
		{Codename: "wa18_compound_triple", Name: "WA 18 Triple (Compound Scoring)"},
		{Codename: "bray_i", Name: "Bray I"},
	}

	assert.Equal(t, []string{"Portsmouth", "WA 18", "Bray I"}, StripCompoundVariants(rounds))

	kept := WithoutCompoundVariants(rounds)
	assert.Len(t, kept, 3)
	for _, r := range kept {
		assert.False(t, r.Compound())
	}
	assert.Len(t, rounds, 5, "input must not change")
}
