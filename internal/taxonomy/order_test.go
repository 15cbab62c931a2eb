package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahrav/go-quiver/internal/domain"
)

func codenamesOf(rounds []domain.Round) []string {
	out := make([]string, len(rounds))
	for i, r := range rounds {
		out[i] = r.Codename
	}
	return out
}

func TestOrderByFamily(t *testing.T) {
	rounds := []domain.Round{
		{Codename: "short_metric_i", Family: domain.FamilyMetricShort},
		{Codename: "metric_80_50", Family: domain.FamilyMetric720},
		{Codename: "wa720_50_c", Family: domain.FamilyWA720},
		{Codename: "metric_122_50", Family: domain.FamilyMetric720},
		{Codename: "wa720_70", Family: domain.FamilyWA720},
		{Codename: "custom_round", Family: domain.FamilyOther},
		{Codename: "york", Family: domain.FamilyYorkHerefordBristol},
		{Codename: "long_metric_i", Family: domain.FamilyMetricLong},
		{Codename: "wa1440_90", Family: domain.FamilyWA1440},
		{Codename: "hereford", Family: domain.FamilyYorkHerefordBristol},
		{Codename: "national", Family: domain.FamilyNational},
		{Codename: "st_george", Family: domain.FamilyStGeorgeAlbionWindsor},
		{Codename: "wa900", Family: domain.FamilyWA900},
		{Codename: "metric_i", Family: domain.FamilyMetric1440},
		{Codename: "western", Family: domain.FamilyWestern},
		{Codename: "warwick", Family: domain.FamilyWarwick},
		{Codename: "american", Family: domain.FamilyAmerican},
		{Codename: "st_nicholas", Family: domain.FamilyStNicholas},
		{Codename: "wa720_60", Family: domain.FamilyWA720},
	}

	got := codenamesOf(OrderByFamily(rounds))

	assert.Equal(t, []string{
		"york", "hereford",
		"st_george",
		"national",
		"western",
		"warwick",
		"american",
		"st_nicholas",
		"wa1440_90",
		"metric_i",
		"wa900",
		"wa720_70", "wa720_60",
		"metric_122_50",
		"wa720_50_c",
		"metric_80_50",
		"long_metric_i",
		"short_metric_i",
		"custom_round",
	}, got)
}

func TestOrderByFamily_StableAndPure(t *testing.T) {
	rounds := []domain.Round{
		{Codename: "bristol_ii", Family: domain.FamilyYorkHerefordBristol},
		{Codename: "wa1440_70", Family: domain.FamilyWA1440},
		{Codename: "bristol_i", Family: domain.FamilyYorkHerefordBristol},
		{Codename: "york", Family: domain.FamilyYorkHerefordBristol},
	}

	got := OrderByFamily(rounds)

	assert.Equal(t, []string{"bristol_ii", "bristol_i", "york", "wa1440_70"}, codenamesOf(got))
	assert.Equal(t, "bristol_ii", rounds[0].Codename)
	assert.Equal(t, "wa1440_70", rounds[1].Codename, "input must not be reordered")
	assert.Equal(t, got, OrderByFamily(got), "ordering an ordered list is a no-op")
}

func TestOrderCodenames(t *testing.T) {
	families := map[string]domain.Family{
		"wa900": domain.FamilyWA900,
		"york":  domain.FamilyYorkHerefordBristol,
	}
	lookup := func(c string) (domain.Family, bool) {
		f, ok := families[c]
		return f, ok
	}

	got := OrderCodenames([]string{"mystery", "wa900", "york"}, lookup)

	assert.Equal(t, []string{"york", "wa900", "mystery"}, got)
}
