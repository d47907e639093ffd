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
	_ "embed"
	"encoding/json"
	"log"
	"math"
	"sort"
	"sync"
)

//go:embed league_totals.json
var leagueTotalsJSON []byte

// leagueSeason is one year of league-wide totals, summed over every team.
// The same totals serve both sides of the ball: the league's batters faced
// the league's pitchers.
type leagueSeason struct {
	Year             int     `json:"year"`
	GamesPlayed      int     `json:"games_played"`
	PlateAppearances int     `json:"plate_appearances"`
	AtBats           int     `json:"at_bats"`
	Hits             int     `json:"hits"`
	Doubles          int     `json:"doubles"`
	Triples          int     `json:"triples"`
	HomeRuns         int     `json:"home_runs"`
	Walks            int     `json:"walks"`
	Strikeouts       int     `json:"strikeouts"`
	SacFlies         int     `json:"sac_flies"`
	BattersFaced     int     `json:"batters_faced"`
	InningsPitched   float64 `json:"innings_pitched"`
}

var (
	leagueOnce    sync.Once
	leagueSeasons []leagueSeason
)

func loadLeagueSeasons() []leagueSeason {
	leagueOnce.Do(func() {
		if err := json.Unmarshal(leagueTotalsJSON, &leagueSeasons); err != nil {
			log.Printf("league totals dataset unreadable: %v", err)
			return
		}
		sort.Slice(leagueSeasons, func(i, j int) bool {
			return leagueSeasons[i].Year < leagueSeasons[j].Year
		})
	})
	return leagueSeasons
}

// LeagueBaseline carries per-opportunity league rates for one season. The
// hit-type shares are fractions of total hits.
type LeagueBaseline struct {
	Year int

	HitsPerPA       float64
	WalksPerPA      float64
	StrikeoutsPerPA float64
	AtBatsPerPA     float64
	SacFliesPerPA   float64

	SingleShare  float64
	DoubleShare  float64
	TripleShare  float64
	HomeRunShare float64

	ERA  float64
	WHIP float64
}

func baselineFromSeason(s leagueSeason) LeagueBaseline {
	b := LeagueBaseline{Year: s.Year}
	pa := float64(s.PlateAppearances)
	if pa <= 0 {
		return b
	}
	b.HitsPerPA = float64(s.Hits) / pa
	b.WalksPerPA = float64(s.Walks) / pa
	b.StrikeoutsPerPA = float64(s.Strikeouts) / pa
	b.AtBatsPerPA = float64(s.AtBats) / pa
	b.SacFliesPerPA = float64(s.SacFlies) / pa

	if s.Hits > 0 {
		hits := float64(s.Hits)
		singles := s.Hits - s.Doubles - s.Triples - s.HomeRuns
		b.SingleShare = float64(singles) / hits
		b.DoubleShare = float64(s.Doubles) / hits
		b.TripleShare = float64(s.Triples) / hits
		b.HomeRunShare = float64(s.HomeRuns) / hits
	}
	if s.InningsPitched > 0 {
		hitsWalks := float64(s.Hits + s.Walks)
		b.WHIP = hitsWalks / s.InningsPitched
		b.ERA = 9.0 * (hitsWalks * 0.5) / s.InningsPitched
	}
	return b
}

// LeagueBaselineForYear returns the league-wide rates for a season. Years
// outside the dataset resolve to the nearest recorded season.
func LeagueBaselineForYear(year int) LeagueBaseline {
	seasons := loadLeagueSeasons()
	if len(seasons) == 0 {
		return baselineFromSeason(leagueSeason{
			Year: year, PlateAppearances: 180000, AtBats: 161000, Hits: 41000,
			Doubles: 8000, Triples: 800, HomeRuns: 5000, Walks: 15000,
			Strikeouts: 38000, SacFlies: 1200, InningsPitched: 43000,
		})
	}
	best := seasons[0]
	for _, s := range seasons {
		if abs(s.Year-year) < abs(best.Year-year) {
			best = s
		}
	}
	b := baselineFromSeason(best)
	b.Year = year
	return b
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// NormalizedBatting is a batter's line re-expressed at league-average
// rates for their era. Opportunity counts stay the player's own; event
// counts are redistributed by the league baseline, with hit types split by
// the player's own hit mix.
type NormalizedBatting struct {
	GamesPlayed      int     `json:"games_played"`
	PlateAppearances int     `json:"plate_appearances"`
	AtBats           int     `json:"at_bats"`
	Hits             int     `json:"hits"`
	Walks            int     `json:"walks"`
	Strikeouts       int     `json:"strikeouts"`
	SacFlies         int     `json:"sac_flies"`
	Singles          int     `json:"singles"`
	Doubles          int     `json:"doubles"`
	Triples          int     `json:"triples"`
	HomeRuns         int     `json:"home_runs"`
	AVG              float64 `json:"avg"`
	OBP              float64 `json:"obp"`
	SLG              float64 `json:"slg"`
	OPS              float64 `json:"ops"`
	BABIP            float64 `json:"babip"`
	StrikeoutsPerPA  float64 `json:"strikeouts_per_pa"`
	WalksPerPA       float64 `json:"walks_per_pa"`
}

// NormalizedPitching is a pitcher's line re-expressed at league-average
// rates for their era.
type NormalizedPitching struct {
	GamesPlayed    int     `json:"games_played"`
	BattersFaced   int     `json:"batters_faced"`
	InningsPitched float64 `json:"innings_pitched"`
	AtBats         int     `json:"at_bats"`
	Hits           int     `json:"hits"`
	Walks          int     `json:"walks"`
	Strikeouts     int     `json:"strikeouts"`
	SacFlies       int     `json:"sac_flies"`
	Singles        int     `json:"singles"`
	Doubles        int     `json:"doubles"`
	Triples        int     `json:"triples"`
	HomeRuns       int     `json:"home_runs"`
	ERA            float64 `json:"era"`
	WHIP           float64 `json:"whip"`
	XFIP           float64 `json:"xfip"`
	BABIP          float64 `json:"babip"`
	KPerPA         float64 `json:"k_per_pa"`
	BBPerPA        float64 `json:"bb_per_pa"`
}

func roundN(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// NormalizeBatting rescales a batter's line to the league baseline for
// their year. A player with zero plate appearances normalizes to the zero
// value.
func NormalizeBatting(s BattingSnapshot, base LeagueBaseline) NormalizedBatting {
	pa := s.PlateAppearances
	if pa <= 0 {
		return NormalizedBatting{}
	}
	fpa := float64(pa)
	n := NormalizedBatting{
		GamesPlayed:      s.GamesPlayed,
		PlateAppearances: pa,
		AtBats:           int(math.Round(fpa * base.AtBatsPerPA)),
		Hits:             int(math.Round(fpa * base.HitsPerPA)),
		Walks:            int(math.Round(fpa * base.WalksPerPA)),
		Strikeouts:       int(math.Round(fpa * base.StrikeoutsPerPA)),
		SacFlies:         int(math.Round(fpa * base.SacFliesPerPA)),
	}

	// The player keeps their own hit mix; only the volume is rescaled.
	if s.Hits > 0 {
		hits := float64(s.Hits)
		nh := float64(n.Hits)
		n.Singles = int(math.Round(nh * float64(s.Singles) / hits))
		n.Doubles = int(math.Round(nh * float64(s.Doubles) / hits))
		n.Triples = int(math.Round(nh * float64(s.Triples) / hits))
		n.HomeRuns = int(math.Round(nh * float64(s.HomeRuns) / hits))
	} else {
		n.Singles = int(math.Round(float64(n.Hits) * base.SingleShare))
		n.Doubles = int(math.Round(float64(n.Hits) * base.DoubleShare))
		n.Triples = int(math.Round(float64(n.Hits) * base.TripleShare))
		n.HomeRuns = int(math.Round(float64(n.Hits) * base.HomeRunShare))
	}

	if n.AtBats > 0 {
		n.AVG = roundN(float64(n.Hits)/float64(n.AtBats), 3)
		n.SLG = roundN(float64(n.Singles+2*n.Doubles+3*n.Triples+4*n.HomeRuns)/float64(n.AtBats), 3)
	}
	n.OBP = roundN(float64(n.Hits+n.Walks)/fpa, 3)
	n.OPS = roundN(n.OBP+n.SLG, 3)
	if d := n.AtBats - n.Strikeouts - n.HomeRuns + n.SacFlies; d > 0 {
		n.BABIP = roundN(float64(n.Hits-n.HomeRuns)/float64(d), 3)
	}
	n.StrikeoutsPerPA = roundN(float64(n.Strikeouts)/fpa, 3)
	n.WalksPerPA = roundN(float64(n.Walks)/fpa, 3)
	return n
}

// NormalizePitching rescales a pitcher's line to the league baseline for
// their year. A pitcher with zero batters faced normalizes to the zero
// value.
func NormalizePitching(s PitchingSnapshot, base LeagueBaseline) NormalizedPitching {
	bf := s.BattersFaced
	if bf <= 0 {
		return NormalizedPitching{}
	}
	fbf := float64(bf)
	innings := s.InningsPitched
	if innings <= 0 {
		innings = fbf / 3.0
	}
	n := NormalizedPitching{
		GamesPlayed:    s.GamesPlayed,
		BattersFaced:   bf,
		InningsPitched: innings,
		AtBats:         int(math.Round(fbf * base.AtBatsPerPA)),
		Hits:           int(math.Round(fbf * base.HitsPerPA)),
		Walks:          int(math.Round(fbf * base.WalksPerPA)),
		Strikeouts:     int(math.Round(fbf * base.StrikeoutsPerPA)),
		SacFlies:       int(math.Round(fbf * base.SacFliesPerPA)),
	}

	if s.Hits > 0 {
		hits := float64(s.Hits)
		nh := float64(n.Hits)
		n.Singles = int(math.Round(nh * float64(s.Singles) / hits))
		n.Doubles = int(math.Round(nh * float64(s.Doubles) / hits))
		n.Triples = int(math.Round(nh * float64(s.Triples) / hits))
		n.HomeRuns = int(math.Round(nh * float64(s.HomeRuns) / hits))
	} else {
		n.Singles = int(math.Round(float64(n.Hits) * base.SingleShare))
		n.Doubles = int(math.Round(float64(n.Hits) * base.DoubleShare))
		n.Triples = int(math.Round(float64(n.Hits) * base.TripleShare))
		n.HomeRuns = int(math.Round(float64(n.Hits) * base.HomeRunShare))
	}

	if innings > 0 {
		hitsWalks := float64(n.Hits + n.Walks)
		// Earned runs are estimated from baserunners at the league-average
		// scoring rate.
		runs := math.Round(hitsWalks * 0.13 * 9)
		n.ERA = roundN(runs/innings*9, 2)
		n.WHIP = roundN(hitsWalks/innings, 3)
	}
	n.XFIP = roundN(float64(13*n.HomeRuns+3*(n.Walks+n.Strikeouts))/fbf, 3)
	if d := n.AtBats - n.Strikeouts - n.HomeRuns + n.SacFlies; d > 0 {
		n.BABIP = roundN(float64(n.Hits-n.HomeRuns)/float64(d), 3)
	}
	n.KPerPA = roundN(float64(n.Strikeouts)/fbf, 3)
	n.BBPerPA = roundN(float64(n.Walks)/fbf, 3)
	return n
}
