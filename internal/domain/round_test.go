package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRound_Compound(t *testing.T) {
	assert.True(t, Round{Codename: "portsmouth_compound"}.Compound())
	assert.True(t, Round{Codename: "wa18_compound_triple"}.Compound())
	assert.False(t, Round{Codename: "portsmouth"}.Compound())
	assert.False(t, Round{Codename: "wa720_50_c"}.Compound(), "only the full marker counts")
}

func TestParseDiscipline(t *testing.T) {
	tests := []struct {
		in      string
		want    Discipline
		wantErr bool
	}{
		{in: "outdoor", want: DisciplineOutdoor},
		{in: "Indoor", want: DisciplineIndoor},
		{in: " FIELD ", want: DisciplineField},
		{in: "clout", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDiscipline(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}

	assert.Equal(t, "unknown", Discipline(0).String())
}

func mustParse(t *testing.T, s string) Discipline {
	t.Helper()
	d, err := ParseDiscipline(s)
	require.NoError(t, err)
	return d
}

func TestDiscipline_YAML(t *testing.T) {
	var doc struct {
		Discipline Discipline `yaml:"discipline"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("discipline: Indoor\n"), &doc))
	assert.Equal(t, DisciplineIndoor, doc.Discipline)

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "discipline: indoor\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("discipline: clout\n"), &doc))
}

func TestSelection_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Selection
		want Selection
	}{
		{
			name: "already normal",
			in:   Selection{Bowstyle: "recurve", Gender: "male", Age: "adult"},
			want: Selection{Bowstyle: "recurve", Gender: "male", Age: "adult"},
		},
		{
			name: "form capitalisation",
			in:   Selection{Bowstyle: "Compound", Gender: "Female", Age: "Under 18"},
			want: Selection{Bowstyle: "compound", Gender: "female", Age: "under18"},
		},
		{
			name: "spaced fifty plus",
			in:   Selection{Bowstyle: " BAREBOW ", Gender: "MALE", Age: "50 +"},
			want: Selection{Bowstyle: "barebow", Gender: "male", Age: "50+"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, got.Normalized(), "normalization is idempotent")
		})
	}
}
