package testutils

import "github.com/ahrav/go-quiver/internal/domain"

func outdoor(codename, name string, family domain.Family, body string, max int) domain.Round {
	return domain.Round{Codename: codename, Name: name, Family: family, Location: domain.LocationOutdoor, Body: body, MaxScore: max}
}

func indoor(codename, name string, body string, max int) domain.Round {
	return domain.Round{Codename: codename, Name: name, Family: domain.FamilyOther, Location: domain.LocationIndoor, Body: body, MaxScore: max}
}

// OutdoorRounds returns a representative outdoor set, deliberately listed
// out of family order.
func OutdoorRounds() []domain.Round {
	return []domain.Round{
		outdoor("wa1440_90", "WA 1440 (90m)", domain.FamilyWA1440, "WA", 1440),
		outdoor("york", "York", domain.FamilyYorkHerefordBristol, "AGB", 1296),
		outdoor("metric_80_50", "Metric 80/50", domain.FamilyMetric720, "AGB", 720),
		outdoor("wa720_70", "WA 720 (70m)", domain.FamilyWA720, "WA", 720),
		outdoor("hereford", "Hereford", domain.FamilyYorkHerefordBristol, "AGB", 1296),
		outdoor("national", "National", domain.FamilyNational, "AGB", 864),
		outdoor("wa720_50_c", "WA 720 (50m Compound)", domain.FamilyWA720, "WA", 720),
		outdoor("metric_122_50", "Metric 122-50", domain.FamilyMetric720, "AGB", 720),
		outdoor("st_george", "St. George", domain.FamilyStGeorgeAlbionWindsor, "AGB", 972),
		outdoor("fun_round", "Club Fun Round", domain.FamilyOther, "Custom", 300),
	}
}

// IndoorRounds returns a representative indoor set including compound
// variants and rounds covered by the display blacklist.
func IndoorRounds() []domain.Round {
	return []domain.Round{
		indoor("portsmouth", "Portsmouth", "AGB", 600),
		indoor("portsmouth_compound", "Portsmouth (Compound)", "AGB", 600),
		indoor("wa18", "WA 18m", "WA", 600),
		indoor("wa18_compound", "WA 18m (Compound)", "WA", 600),
		indoor("bray_i", "Bray I", "AGB", 300),
		indoor("vegas", "Vegas 300", "WA", 300),
		indoor("vegas_compound", "Vegas 300 (Compound)", "WA", 300),
		indoor("worcester", "Worcester", "AGB", 300),
		indoor("stafford", "Stafford", "AGB", 720),
	}
}

// FixtureRounds returns OutdoorRounds followed by IndoorRounds.
func FixtureRounds() []domain.Round {
	return append(OutdoorRounds(), IndoorRounds()...)
}
