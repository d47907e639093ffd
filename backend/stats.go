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
	"strconv"
	"strings"
)

// MetricBand is an observed average with its min/max envelope, taken from
// Statcast-style metric summaries.
type MetricBand struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// BattingSnapshot is a batter's season (or career) line as reported by the
// stats provider, before any era normalization.
type BattingSnapshot struct {
	Year        int `json:"year"`
	GamesPlayed int `json:"games_played"`

	AVG   float64 `json:"avg"`
	OBP   float64 `json:"obp"`
	SLG   float64 `json:"slg"`
	OPS   float64 `json:"ops"`
	BABIP float64 `json:"babip"`
	WOBA  float64 `json:"woba"`

	AtBats           int `json:"at_bats"`
	PlateAppearances int `json:"plate_appearances"`
	SacFlies         int `json:"sac_flies"`
	Hits             int `json:"hits"`
	Walks            int `json:"walks"`
	Singles          int `json:"singles"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"home_runs"`
	Strikeouts       int `json:"strikeouts"`
	GroundOuts       int `json:"ground_outs"`
	AirOuts          int `json:"air_outs"`

	StrikeoutsPerPA float64 `json:"strikeouts_per_pa"`
	WalksPerPA      float64 `json:"walks_per_pa"`

	BatSide string `json:"bat_side"`

	LaunchSpeed    MetricBand `json:"launch_speed"`
	LaunchAngle    MetricBand `json:"launch_angle"`
	Distance       MetricBand `json:"distance"`
	EffectiveSpeed MetricBand `json:"effective_speed"`
}

// FieldedOuts counts outs recorded on balls in play.
func (b BattingSnapshot) FieldedOuts() int {
	return b.GroundOuts + b.AirOuts
}

// PitchingSnapshot is a pitcher's season (or career) line as reported by
// the stats provider, before any era normalization.
type PitchingSnapshot struct {
	Year        int `json:"year"`
	GamesPlayed int `json:"games_played"`

	ERA   float64 `json:"era"`
	WHIP  float64 `json:"whip"`
	BABIP float64 `json:"babip"`
	XFIP  float64 `json:"xfip"`

	InningsPitched float64 `json:"innings_pitched"`
	BattersFaced   int     `json:"batters_faced"`
	AtBats         int     `json:"at_bats"`
	SacFlies       int     `json:"sac_flies"`
	Hits           int     `json:"hits"`
	Walks          int     `json:"walks"`
	Singles        int     `json:"singles"`
	Doubles        int     `json:"doubles"`
	Triples        int     `json:"triples"`
	HomeRuns       int     `json:"home_runs"`
	Strikeouts     int     `json:"strikeouts"`

	KPerPA  float64 `json:"k_per_pa"`
	BBPerPA float64 `json:"bb_per_pa"`

	PitchHand string `json:"pitch_hand"`

	LaunchSpeed    MetricBand `json:"launch_speed"`
	LaunchAngle    MetricBand `json:"launch_angle"`
	Distance       MetricBand `json:"distance"`
	EffectiveSpeed MetricBand `json:"effective_speed"`
	ReleaseSpeed   MetricBand `json:"release_speed"`
}

// PlayerStats holds exactly one of a batting or pitching snapshot.
type PlayerStats struct {
	batting  *BattingSnapshot
	pitching *PitchingSnapshot
}

func BattingStats(s BattingSnapshot) PlayerStats { return PlayerStats{batting: &s} }
func PitchingStats(s PitchingSnapshot) PlayerStats { return PlayerStats{pitching: &s} }

func (p PlayerStats) Batting() (BattingSnapshot, bool) {
	if p.batting == nil {
		return BattingSnapshot{}, false
	}
	return *p.batting, true
}

func (p PlayerStats) Pitching() (PitchingSnapshot, bool) {
	if p.pitching == nil {
		return PitchingSnapshot{}, false
	}
	return *p.pitching, true
}

// Player is a rostered player with their historical stat line.
type Player struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Position string      `json:"position"`
	Year     int         `json:"year"`
	Stats    PlayerStats `json:"-"`
}

// Pitch is one entry of a pitcher's arsenal.
type Pitch struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	AvgSpeed   float64 `json:"avg_speed"`
}

// PitchArsenal is the set of pitches a pitcher throws, keyed by pitch code.
type PitchArsenal struct {
	Pitches map[string]Pitch `json:"pitches"`
	Primary string           `json:"primary"`
}

// RandomPitch draws a pitch code weighted by usage percentage.
func (a PitchArsenal) RandomPitch(roll float64) Pitch {
	var total float64
	for _, p := range a.Pitches {
		total += p.Percentage
	}
	if total <= 0 {
		return a.Pitches[a.Primary]
	}
	target := roll * total
	var acc float64
	for _, code := range sortedPitchCodes(a.Pitches) {
		p := a.Pitches[code]
		acc += p.Percentage
		if target <= acc {
			return p
		}
	}
	return a.Pitches[a.Primary]
}

// Lookup returns the arsenal entry for a pitch code, falling back to the
// primary pitch and then the league default.
func (a PitchArsenal) Lookup(code string) Pitch {
	if p, ok := a.Pitches[strings.ToUpper(code)]; ok {
		return p
	}
	if p, ok := a.Pitches[a.Primary]; ok {
		return p
	}
	return Pitch{Code: DefaultPitchType, Name: DefaultPitchName, AvgSpeed: DefaultPitchVelocity, Percentage: 100}
}

func sortedPitchCodes(pitches map[string]Pitch) []string {
	codes := make([]string, 0, len(pitches))
	for c := range pitches {
		codes = append(codes, c)
	}
	// insertion sort keeps this allocation-light for tiny maps
	for i := 1; i < len(codes); i++ {
		for j := i; j > 0 && codes[j] < codes[j-1]; j-- {
			codes[j], codes[j-1] = codes[j-1], codes[j]
		}
	}
	return codes
}

// DefaultArsenal is a fastball-heavy arsenal for pitchers with no pitch
// tracking data (anything before the Statcast era).
func DefaultArsenal() PitchArsenal {
	return PitchArsenal{
		Primary: "FF",
		Pitches: map[string]Pitch{
			"FF": {Code: "FF", Name: "Four-Seam Fastball", Percentage: 60, AvgSpeed: 92.5},
			"SL": {Code: "SL", Name: "Slider", Percentage: 15, AvgSpeed: 84.0},
			"CU": {Code: "CU", Name: "Curveball", Percentage: 15, AvgSpeed: 78.0},
			"CH": {Code: "CH", Name: "Changeup", Percentage: 10, AvgSpeed: 83.5},
		},
	}
}

// DefaultBattingSnapshot carries league-average rates for players whose
// season line is missing or unparseable.
func DefaultBattingSnapshot(year int) BattingSnapshot {
	return BattingSnapshot{
		Year:             year,
		GamesPlayed:      100,
		AVG:              0.248,
		OBP:              0.317,
		SLG:              0.411,
		OPS:              0.728,
		BABIP:            0.300,
		WOBA:             0.320,
		AtBats:           400,
		PlateAppearances: 450,
		SacFlies:         3,
		Hits:             99,
		Walks:            36,
		Singles:          63,
		Doubles:          20,
		Triples:          2,
		HomeRuns:         14,
		Strikeouts:       103,
		GroundOuts:       120,
		AirOuts:          110,
		StrikeoutsPerPA:  0.23,
		WalksPerPA:       0.08,
		BatSide:          "R",
		LaunchSpeed:      MetricBand{Avg: 88.0, Min: 60.0, Max: 112.0},
		LaunchAngle:      MetricBand{Avg: 12.0, Min: -30.0, Max: 50.0},
		Distance:         MetricBand{Avg: 180.0, Min: 10.0, Max: 420.0},
		EffectiveSpeed:   MetricBand{Avg: 92.0, Min: 85.0, Max: 100.0},
	}
}

// DefaultPitchingSnapshot carries league-average rates for pitchers whose
// season line is missing or unparseable.
func DefaultPitchingSnapshot(year int) PitchingSnapshot {
	return PitchingSnapshot{
		Year:           year,
		GamesPlayed:    30,
		ERA:            4.25,
		WHIP:           1.30,
		BABIP:          0.300,
		XFIP:           4.25,
		InningsPitched: 150.0,
		BattersFaced:   635,
		AtBats:         570,
		SacFlies:       4,
		Hits:           145,
		Walks:          50,
		Singles:        95,
		Doubles:        28,
		Triples:        3,
		HomeRuns:       19,
		Strikeouts:     140,
		KPerPA:         0.22,
		BBPerPA:        0.08,
		PitchHand:      "R",
		LaunchSpeed:    MetricBand{Avg: 88.0, Min: 60.0, Max: 112.0},
		LaunchAngle:    MetricBand{Avg: 12.0, Min: -30.0, Max: 50.0},
		Distance:       MetricBand{Avg: 180.0, Min: 10.0, Max: 420.0},
		EffectiveSpeed: MetricBand{Avg: 92.0, Min: 85.0, Max: 100.0},
		ReleaseSpeed:   MetricBand{Avg: 92.5, Min: 85.0, Max: 105.0},
	}
}

// Provider stat payloads mix numbers, numeric strings (".248", "1.2"), and
// nulls for the same field across eras. These coercions absorb that.

func statFloat(m map[string]any, key string, def float64) float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "-" || s == "-.--" || s == "*.**" {
			return def
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func statInt(m map[string]any, key string, def int) int {
	return int(statFloat(m, key, float64(def)))
}

func statString(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func statBand(m map[string]any, key string, def MetricBand) MetricBand {
	v, ok := m[key]
	if !ok {
		return def
	}
	band, ok := v.(map[string]any)
	if !ok {
		return def
	}
	return MetricBand{
		Avg: statFloat(band, "avg", def.Avg),
		Min: statFloat(band, "min", def.Min),
		Max: statFloat(band, "max", def.Max),
	}
}

// parseInnings converts the provider's "162.1" innings notation (where .1
// and .2 are thirds of an inning) to a true decimal.
func parseInnings(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	whole, frac, found := strings.Cut(raw, ".")
	w, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return 0
	}
	if !found {
		return w
	}
	switch frac {
	case "1":
		return w + 1.0/3.0
	case "2":
		return w + 2.0/3.0
	}
	f, err := strconv.ParseFloat("0."+frac, 64)
	if err != nil {
		return w
	}
	return w + f
}

// BattingSnapshotFromStats builds a snapshot from a combined provider stat
// map (career + advanced + sabermetric sections merged). Missing fields
// fall back to league-average defaults.
func BattingSnapshotFromStats(stats map[string]any, year int) BattingSnapshot {
	def := DefaultBattingSnapshot(year)
	if len(stats) == 0 {
		return def
	}
	s := BattingSnapshot{
		Year:             year,
		GamesPlayed:      statInt(stats, "gamesPlayed", def.GamesPlayed),
		AVG:              statFloat(stats, "avg", def.AVG),
		OBP:              statFloat(stats, "obp", def.OBP),
		SLG:              statFloat(stats, "slg", def.SLG),
		OPS:              statFloat(stats, "ops", def.OPS),
		BABIP:            statFloat(stats, "babip", def.BABIP),
		WOBA:             statFloat(stats, "woba", def.WOBA),
		AtBats:           statInt(stats, "atBats", def.AtBats),
		PlateAppearances: statInt(stats, "plateAppearances", 0),
		SacFlies:         statInt(stats, "sacFlies", def.SacFlies),
		Hits:             statInt(stats, "hits", def.Hits),
		Walks:            statInt(stats, "baseOnBalls", def.Walks),
		Doubles:          statInt(stats, "doubles", def.Doubles),
		Triples:          statInt(stats, "triples", def.Triples),
		HomeRuns:         statInt(stats, "homeRuns", def.HomeRuns),
		Strikeouts:       statInt(stats, "strikeOuts", def.Strikeouts),
		GroundOuts:       statInt(stats, "groundOuts", def.GroundOuts),
		AirOuts:          statInt(stats, "airOuts", def.AirOuts),
		BatSide:          statString(stats, "batSide", "R"),
		LaunchSpeed:      statBand(stats, "launch_speed", def.LaunchSpeed),
		LaunchAngle:      statBand(stats, "launch_angle", def.LaunchAngle),
		Distance:         statBand(stats, "distance", def.Distance),
		EffectiveSpeed:   statBand(stats, "effective_speed", def.EffectiveSpeed),
	}
	if s.PlateAppearances == 0 {
		s.PlateAppearances = s.AtBats + s.Walks + s.SacFlies
	}
	s.Singles = s.Hits - s.Doubles - s.Triples - s.HomeRuns
	if s.Singles < 0 {
		s.Singles = 0
	}
	if s.PlateAppearances > 0 {
		s.StrikeoutsPerPA = float64(s.Strikeouts) / float64(s.PlateAppearances)
		s.WalksPerPA = float64(s.Walks) / float64(s.PlateAppearances)
	} else {
		s.StrikeoutsPerPA = def.StrikeoutsPerPA
		s.WalksPerPA = def.WalksPerPA
	}
	return s
}

// PitchingSnapshotFromStats builds a snapshot from a combined provider
// stat map. Missing fields fall back to league-average defaults.
func PitchingSnapshotFromStats(stats map[string]any, year int) PitchingSnapshot {
	def := DefaultPitchingSnapshot(year)
	if len(stats) == 0 {
		return def
	}
	innings := def.InningsPitched
	if v, ok := stats["inningsPitched"]; ok {
		switch t := v.(type) {
		case string:
			innings = parseInnings(t)
		case float64:
			innings = t
		}
	}
	s := PitchingSnapshot{
		Year:           year,
		GamesPlayed:    statInt(stats, "gamesPlayed", def.GamesPlayed),
		ERA:            statFloat(stats, "era", def.ERA),
		WHIP:           statFloat(stats, "whip", def.WHIP),
		BABIP:          statFloat(stats, "babip", def.BABIP),
		XFIP:           statFloat(stats, "xfip", def.XFIP),
		InningsPitched: innings,
		BattersFaced:   statInt(stats, "battersFaced", 0),
		AtBats:         statInt(stats, "atBats", def.AtBats),
		SacFlies:       statInt(stats, "sacFlies", def.SacFlies),
		Hits:           statInt(stats, "hits", def.Hits),
		Walks:          statInt(stats, "baseOnBalls", def.Walks),
		Doubles:        statInt(stats, "doubles", def.Doubles),
		Triples:        statInt(stats, "triples", def.Triples),
		HomeRuns:       statInt(stats, "homeRuns", def.HomeRuns),
		Strikeouts:     statInt(stats, "strikeOuts", def.Strikeouts),
		PitchHand:      statString(stats, "pitchSide", "R"),
		LaunchSpeed:    statBand(stats, "launch_speed", def.LaunchSpeed),
		LaunchAngle:    statBand(stats, "launch_angle", def.LaunchAngle),
		Distance:       statBand(stats, "distance", def.Distance),
		EffectiveSpeed: statBand(stats, "effective_speed", def.EffectiveSpeed),
		ReleaseSpeed:   statBand(stats, "release_speed", def.ReleaseSpeed),
	}
	if s.BattersFaced == 0 {
		s.BattersFaced = s.AtBats + s.Walks + s.SacFlies
	}
	s.Singles = s.Hits - s.Doubles - s.Triples - s.HomeRuns
	if s.Singles < 0 {
		s.Singles = 0
	}
	if s.BattersFaced > 0 {
		s.KPerPA = float64(s.Strikeouts) / float64(s.BattersFaced)
		s.BBPerPA = float64(s.Walks) / float64(s.BattersFaced)
	} else {
		s.KPerPA = def.KPerPA
		s.BBPerPA = def.BBPerPA
	}
	return s
}
