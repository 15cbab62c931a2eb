package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-quiver/internal/domain"
)

func TestResolveAlias(t *testing.T) {
	maleRecurve := domain.Selection{Bowstyle: "recurve", Gender: "male", Age: "adult"}
	femaleRecurve := domain.Selection{Bowstyle: "recurve", Gender: "female", Age: "adult"}
	maleCompound := domain.Selection{Bowstyle: "Compound", Gender: "Male", Age: "Adult"}
	femaleBarebow := domain.Selection{Bowstyle: "BAREBOW", Gender: "female", Age: "under 18"}

	tests := []struct {
		name     string
		codename string
		sel      domain.Selection
		want     string
	}{
		{"hereford for men", "hereford", maleRecurve, "bristol_i"},
		{"hereford for women", "hereford", femaleRecurve, "hereford"},
		{"bristol i for women", "bristol_i", femaleRecurve, "hereford"},
		{"bristol i for men", "bristol_i", maleRecurve, "bristol_i"},
		{"metric i", "metric_i", femaleRecurve, "wa1440_70"},
		{"metric ii", "metric_ii", maleCompound, "wa1440_60"},
		{"wa720 50 compound for recurve", "wa720_50_c", maleRecurve, "metric_80_50"},
		{"wa720 50 compound for compound", "wa720_50_c", maleCompound, "wa720_50_c"},
		{"metric 80 for compound", "metric_80_50", maleCompound, "wa720_50_c"},
		{"metric 80 for recurve", "metric_80_50", maleRecurve, "metric_80_50"},
		{"wa720 50 barebow for recurve", "wa720_50_b", maleRecurve, "metric_122_50"},
		{"wa720 50 barebow for barebow", "wa720_50_b", femaleBarebow, "wa720_50_b"},
		{"metric 122 for barebow", "metric_122_50", femaleBarebow, "wa720_50_b"},
		{"metric 122 for compound", "metric_122_50", maleCompound, "metric_122_50"},
		{"unmatched", "york", maleRecurve, "york"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAlias(tt.codename, tt.sel))
		})
	}
}

func TestResolveAlias_Idempotent(t *testing.T) {
	codenames := []string{
		"hereford", "bristol_i", "metric_i", "metric_ii", "wa1440_70", "wa1440_60",
		"wa720_50_c", "metric_80_50", "wa720_50_b", "metric_122_50", "york",
	}

	for _, gender := range domain.Genders {
		for _, bow := range domain.Bowstyles {
			sel := domain.Selection{Bowstyle: bow, Gender: gender, Age: "adult"}
			for _, c := range codenames {
				once := ResolveAlias(c, sel)
				assert.Equal(t, once, ResolveAlias(once, sel), "%s for %+v", c, sel)
			}
		}
	}
}

func TestResolveAlias_RoundTrip(t *testing.T) {
	female := domain.Selection{Bowstyle: "recurve", Gender: "female", Age: "adult"}
	male := domain.Selection{Bowstyle: "recurve", Gender: "male", Age: "adult"}

	assert.Equal(t, "hereford", ResolveAlias("bristol_i", female))
	assert.Equal(t, "bristol_i", ResolveAlias(ResolveAlias("bristol_i", female), male))
	assert.Equal(t, "hereford", ResolveAlias(ResolveAlias("hereford", male), female))

	compound := domain.Selection{Bowstyle: "compound", Gender: "male", Age: "adult"}
	assert.Equal(t, "wa720_50_c", ResolveAlias(ResolveAlias("wa720_50_c", male), compound))
}
