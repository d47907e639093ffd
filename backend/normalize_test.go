// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"math"
	"testing"
)

func TestLeagueBaselineForYear(t *testing.T) {
	b := LeagueBaselineForYear(2019)
	if b.Year != 2019 {
		t.Errorf("Year = %d, want 2019", b.Year)
	}
	if b.HitsPerPA <= 0 || b.HitsPerPA > 0.4 {
		t.Errorf("HitsPerPA = %.3f implausible", b.HitsPerPA)
	}
	if b.WalksPerPA <= 0 || b.StrikeoutsPerPA <= 0 {
		t.Errorf("Rates missing: BB %.3f, K %.3f", b.WalksPerPA, b.StrikeoutsPerPA)
	}

	shares := b.SingleShare + b.DoubleShare + b.TripleShare + b.HomeRunShare
	if math.Abs(shares-1.0) > 0.001 {
		t.Errorf("Hit-type shares sum to %.4f, want 1", shares)
	}
}

func TestLeagueBaselineNearestYear(t *testing.T) {
	// Years outside the dataset resolve to the nearest recorded season
	// but keep the requested year.
	ancient := LeagueBaselineForYear(1800)
	future := LeagueBaselineForYear(2300)
	if ancient.Year != 1800 || future.Year != 2300 {
		t.Errorf("Years not preserved: %d, %d", ancient.Year, future.Year)
	}
	if ancient.HitsPerPA <= 0 || future.HitsPerPA <= 0 {
		t.Error("Out-of-range years should still resolve to real rates")
	}
}

func TestNormalizeBattingZeroOpportunities(t *testing.T) {
	base := LeagueBaselineForYear(2023)
	n := NormalizeBatting(BattingSnapshot{}, base)
	if n != (NormalizedBatting{}) {
		t.Errorf("Zero plate appearances should normalize to the zero value, got %+v", n)
	}
}

func TestNormalizeBattingKnownValues(t *testing.T) {
	base := LeagueBaseline{
		Year:        2023,
		HitsPerPA:   0.2,
		WalksPerPA:  0.1,
		AtBatsPerPA: 0.9,

		StrikeoutsPerPA: 0.25,
		SacFliesPerPA:   0.01,
	}
	s := BattingSnapshot{
		PlateAppearances: 1000,
		GamesPlayed:      150,
		Hits:             300,
		Singles:          150,
		Doubles:          60,
		Triples:          30,
		HomeRuns:         60,
	}

	n := NormalizeBatting(s, base)
	if n.Hits != 200 || n.Walks != 100 || n.AtBats != 900 || n.Strikeouts != 250 {
		t.Fatalf("Counts = H%d BB%d AB%d K%d, want 200/100/900/250",
			n.Hits, n.Walks, n.AtBats, n.Strikeouts)
	}

	// The player's own hit mix carries over: 50/20/10/20 percent.
	if n.Singles != 100 || n.Doubles != 40 || n.Triples != 20 || n.HomeRuns != 40 {
		t.Errorf("Hit mix = %d/%d/%d/%d, want 100/40/20/40",
			n.Singles, n.Doubles, n.Triples, n.HomeRuns)
	}

	// AVG = 200/900, OBP = 300/1000.
	if n.AVG != 0.222 {
		t.Errorf("AVG = %.3f, want 0.222", n.AVG)
	}
	if n.OBP != 0.3 {
		t.Errorf("OBP = %.3f, want 0.300", n.OBP)
	}
	// SLG = (100 + 80 + 60 + 160)/900 = 0.444, OPS = OBP + SLG.
	if n.SLG != 0.444 {
		t.Errorf("SLG = %.3f, want 0.444", n.SLG)
	}
	if n.OPS != 0.744 {
		t.Errorf("OPS = %.3f, want 0.744", n.OPS)
	}
}

func TestNormalizeBattingNoHitsUsesLeagueShares(t *testing.T) {
	base := LeagueBaselineForYear(2023)
	s := BattingSnapshot{PlateAppearances: 600}

	n := NormalizeBatting(s, base)
	if n.Hits <= 0 {
		t.Fatal("League rates should produce hits even for an empty line")
	}
	if n.Singles <= n.HomeRuns {
		t.Errorf("League hit mix should favor singles: %d singles, %d homers",
			n.Singles, n.HomeRuns)
	}
}

func TestNormalizePitchingZeroOpportunities(t *testing.T) {
	base := LeagueBaselineForYear(2023)
	n := NormalizePitching(PitchingSnapshot{}, base)
	if n != (NormalizedPitching{}) {
		t.Errorf("Zero batters faced should normalize to the zero value, got %+v", n)
	}
}

func TestNormalizePitchingDerivedRates(t *testing.T) {
	base := LeagueBaselineForYear(2023)
	s := DefaultPitchingSnapshot(1968) // the year of the pitcher

	n := NormalizePitching(s, base)
	if n.BattersFaced != s.BattersFaced {
		t.Errorf("Opportunities must stay the player's own: %d vs %d",
			n.BattersFaced, s.BattersFaced)
	}
	if n.InningsPitched != s.InningsPitched {
		t.Errorf("InningsPitched = %.1f, want %.1f", n.InningsPitched, s.InningsPitched)
	}
	if n.WHIP <= 0 || n.ERA <= 0 {
		t.Errorf("Derived rates missing: ERA %.2f, WHIP %.3f", n.ERA, n.WHIP)
	}
	wantWHIP := roundN(float64(n.Hits+n.Walks)/n.InningsPitched, 3)
	if n.WHIP != wantWHIP {
		t.Errorf("WHIP = %.3f, want %.3f recomputed from normalized counts", n.WHIP, wantWHIP)
	}
	// ERA estimates earned runs from baserunners at the league scoring
	// rate: runs = round((H+BB)*0.13*9), era = runs/IP*9.
	wantRuns := math.Round(float64(n.Hits+n.Walks) * 0.13 * 9)
	wantERA := roundN(wantRuns/n.InningsPitched*9, 2)
	if n.ERA != wantERA {
		t.Errorf("ERA = %.2f, want %.2f from the baserunner estimate", n.ERA, wantERA)
	}
}

func TestNormalizePitchingMissingInnings(t *testing.T) {
	base := LeagueBaselineForYear(2023)
	s := PitchingSnapshot{BattersFaced: 300}

	n := NormalizePitching(s, base)
	want := 100.0 // three batters per inning
	if math.Abs(n.InningsPitched-want) > 0.001 {
		t.Errorf("InningsPitched = %.2f, want %.2f", n.InningsPitched, want)
	}
}

func TestEraNormalizationComparable(t *testing.T) {
	// A dead-ball batter and a modern batter with identical opportunity
	// counts normalize to identical event counts against the same
	// baseline; only their personal hit mix differs.
	base := LeagueBaselineForYear(2023)

	oldTimer := DefaultBattingSnapshot(1911)
	modern := DefaultBattingSnapshot(2021)

	a := NormalizeBatting(oldTimer, base)
	b := NormalizeBatting(modern, base)
	if a.Hits != b.Hits || a.Walks != b.Walks || a.Strikeouts != b.Strikeouts {
		t.Errorf("Same opportunities against one baseline must match: %+v vs %+v", a, b)
	}
}
