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

func TestStatFloatCoercions(t *testing.T) {
	m := map[string]any{
		"number":   0.248,
		"numeric":  ".317",
		"padded":   " 1.30 ",
		"dash":     "-",
		"noEra":    "-.--",
		"masked":   "*.**",
		"empty":    "",
		"nothing":  nil,
		"nonsense": "abc",
	}

	cases := []struct {
		key  string
		want float64
	}{
		{"number", 0.248},
		{"numeric", 0.317},
		{"padded", 1.30},
		{"dash", 9.9},
		{"noEra", 9.9},
		{"masked", 9.9},
		{"empty", 9.9},
		{"nothing", 9.9},
		{"nonsense", 9.9},
		{"missing", 9.9},
	}
	for _, c := range cases {
		if got := statFloat(m, c.key, 9.9); got != c.want {
			t.Errorf("statFloat(%q) = %v, want %v", c.key, got, c.want)
		}
	}
}

func TestStatBand(t *testing.T) {
	m := map[string]any{
		"launch_speed": map[string]any{"avg": 91.2, "min": 60.0, "max": 114.5},
		"not_a_band":   "fast",
	}
	def := MetricBand{Avg: 88, Min: 65, Max: 110}

	got := statBand(m, "launch_speed", def)
	if got.Avg != 91.2 || got.Min != 60.0 || got.Max != 114.5 {
		t.Errorf("statBand = %+v", got)
	}
	if got := statBand(m, "not_a_band", def); got != def {
		t.Errorf("Malformed band should fall back to default, got %+v", got)
	}
	if got := statBand(m, "missing", def); got != def {
		t.Errorf("Missing band should fall back to default, got %+v", got)
	}
}

func TestParseInnings(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"162.0", 162.0},
		{"162.1", 162.0 + 1.0/3.0},
		{"162.2", 162.0 + 2.0/3.0},
		{"98", 98.0},
		{"", 0},
		{"junk", 0},
	}
	for _, c := range cases {
		if got := parseInnings(c.raw); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("parseInnings(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestArsenalRandomPitch(t *testing.T) {
	a := DefaultArsenal()

	// The draw is deterministic in the roll: 0 lands on the first sorted
	// code, 1 on the last.
	first := a.RandomPitch(0)
	if first.Code == "" {
		t.Fatal("RandomPitch(0) returned nothing")
	}
	last := a.RandomPitch(1)
	if last.Code == "" {
		t.Fatal("RandomPitch(1) returned nothing")
	}

	// Usage-weighted: the fastball owns 60% of the mass.
	ffDraws := 0
	for i := 0; i <= 100; i++ {
		if a.RandomPitch(float64(i)/100).Code == "FF" {
			ffDraws++
		}
	}
	if ffDraws < 40 || ffDraws > 80 {
		t.Errorf("FF drawn %d/101 times, want about 60", ffDraws)
	}
}

func TestArsenalRandomPitchNoWeights(t *testing.T) {
	a := PitchArsenal{
		Primary: "SI",
		Pitches: map[string]Pitch{"SI": {Code: "SI", Name: "Sinker"}},
	}
	if got := a.RandomPitch(0.5); got.Code != "SI" {
		t.Errorf("Zero-weight arsenal should return the primary, got %q", got.Code)
	}
}

func TestArsenalLookupFallbacks(t *testing.T) {
	a := DefaultArsenal()

	if got := a.Lookup("sl"); got.Code != "SL" {
		t.Errorf("Lookup should be case-insensitive, got %q", got.Code)
	}
	if got := a.Lookup("ZZ"); got.Code != a.Primary {
		t.Errorf("Unknown code should fall back to the primary, got %q", got.Code)
	}

	empty := PitchArsenal{}
	if got := empty.Lookup("ZZ"); got.Code != DefaultPitchType {
		t.Errorf("Empty arsenal should fall back to the league default, got %q", got.Code)
	}
}

func TestBattingSnapshotFromStats(t *testing.T) {
	stats := map[string]any{
		"gamesPlayed":      float64(151),
		"atBats":           float64(550),
		"plateAppearances": float64(620),
		"hits":             float64(170),
		"doubles":          float64(35),
		"triples":          float64(4),
		"homeRuns":         float64(28),
		"baseOnBalls":      float64(60),
		"strikeOuts":       float64(120),
		"sacFlies":         float64(5),
		"avg":              ".309",
		"obp":              ".375",
		"slg":              ".540",
		"ops":              ".915",
		"launch_speed":     map[string]any{"avg": 91.0, "min": 62.0, "max": 113.0},
	}

	s := BattingSnapshotFromStats(stats, 2022)
	if s.Year != 2022 {
		t.Errorf("Year = %d", s.Year)
	}
	if s.Hits != 170 || s.HomeRuns != 28 || s.Walks != 60 {
		t.Errorf("Counting stats wrong: %+v", s)
	}
	if s.Singles != 170-35-4-28 {
		t.Errorf("Singles = %d, want %d", s.Singles, 170-35-4-28)
	}
	if s.AVG != 0.309 {
		t.Errorf("AVG = %v, want .309", s.AVG)
	}
	if s.LaunchSpeed.Max != 113.0 {
		t.Errorf("LaunchSpeed = %+v", s.LaunchSpeed)
	}
}

func TestPitchingSnapshotFromStats(t *testing.T) {
	stats := map[string]any{
		"gamesPlayed":    float64(33),
		"inningsPitched": "201.2",
		"battersFaced":   float64(820),
		"atBats":         float64(750),
		"hits":           float64(180),
		"baseOnBalls":    float64(55),
		"strikeOuts":     float64(210),
		"homeRuns":       float64(22),
		"era":            "3.18",
		"whip":           "1.17",
	}

	s := PitchingSnapshotFromStats(stats, 2022)
	if math.Abs(s.InningsPitched-(201.0+2.0/3.0)) > 1e-9 {
		t.Errorf("InningsPitched = %v", s.InningsPitched)
	}
	if s.BattersFaced != 820 || s.Strikeouts != 210 {
		t.Errorf("Counting stats wrong: %+v", s)
	}
	if s.ERA != 3.18 {
		t.Errorf("ERA = %v", s.ERA)
	}
}

func TestPlayerStatsExclusive(t *testing.T) {
	b := BattingStats(DefaultBattingSnapshot(2020))
	if _, ok := b.Pitching(); ok {
		t.Error("Batting stats should not expose a pitching snapshot")
	}
	if _, ok := b.Batting(); !ok {
		t.Error("Batting snapshot lost")
	}
}
