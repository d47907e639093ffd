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
	"fmt"
	"sort"
)

// BatterLine is one batter's accumulated line for a single game.
type BatterLine struct {
	Name       string `json:"name"`
	Team       string `json:"team"`
	AtBats     int    `json:"at_bats"`
	Hits       int    `json:"hits"`
	Singles    int    `json:"singles"`
	Doubles    int    `json:"doubles"`
	Triples    int    `json:"triples"`
	HomeRuns   int    `json:"home_runs"`
	RBIs       int    `json:"rbis"`
	Walks      int    `json:"walks"`
	Strikeouts int    `json:"strikeouts"`
	Runs       int    `json:"runs"`
}

// PitcherLine is one pitcher's accumulated line for a single game.
type PitcherLine struct {
	Name         string `json:"name"`
	Team         string `json:"team"`
	OutsRecorded int    `json:"outs_recorded"`
	Strikeouts   int    `json:"strikeouts"`
	Walks        int    `json:"walks"`
	HitsAllowed  int    `json:"hits_allowed"`
	EarnedRuns   int    `json:"earned_runs"`
	FieldedOuts  int    `json:"fielded_outs"`
}

// InningsPitched converts recorded outs to innings.
func (p PitcherLine) InningsPitched() float64 {
	return float64(p.OutsRecorded) / 3.0
}

// Performance weights. Power counts most for batters; run prevention
// dominates for pitchers.
var battingWeights = map[string]float64{
	"hits":       2.0,
	"doubles":    1.5,
	"triples":    2.5,
	"home_runs":  4.0,
	"rbis":       1.5,
	"walks":      0.75,
	"strikeouts": -0.75,
}

var pitchingWeights = map[string]float64{
	"innings_pitched": 3.0,
	"strikeouts":      2.5,
	"earned_runs":     -3.0,
	"fielded_outs":    0.5,
	"hits_allowed":    -1.5,
	"walks":           -1.5,
}

// Score is a batter's weighted game-performance value.
func (b BatterLine) Score() float64 {
	return float64(b.Hits)*battingWeights["hits"] +
		float64(b.Doubles)*battingWeights["doubles"] +
		float64(b.Triples)*battingWeights["triples"] +
		float64(b.HomeRuns)*battingWeights["home_runs"] +
		float64(b.RBIs)*battingWeights["rbis"] +
		float64(b.Walks)*battingWeights["walks"] +
		float64(b.Strikeouts)*battingWeights["strikeouts"]
}

// Score is a pitcher's weighted game-performance value.
func (p PitcherLine) Score() float64 {
	return p.InningsPitched()*pitchingWeights["innings_pitched"] +
		float64(p.Strikeouts)*pitchingWeights["strikeouts"] +
		float64(p.EarnedRuns)*pitchingWeights["earned_runs"] +
		float64(p.FieldedOuts)*pitchingWeights["fielded_outs"] +
		float64(p.HitsAllowed)*pitchingWeights["hits_allowed"] +
		float64(p.Walks)*pitchingWeights["walks"]
}

// GameSummary is the final report of a finished matchup.
type GameSummary struct {
	GameID        string         `json:"game_id"`
	FinalScore    map[string]int `json:"final_score"`
	Innings       int            `json:"innings"`
	Winner        string         `json:"winner"`
	MVP           string         `json:"mvp"`
	TopPitcher    string         `json:"top_pitcher"`
	Highlights    []string       `json:"highlights"`
	BattingLines  []BatterLine   `json:"batting_lines"`
	PitchingLines []PitcherLine  `json:"pitching_lines"`
}

// GameStatsManager accumulates per-player stat lines over the course of
// one game and builds the end-of-game summary. It is owned by the single
// game goroutine, so no locking.
type GameStatsManager struct {
	batters    map[string]*BatterLine
	pitchers   map[string]*PitcherLine
	highlights []string
}

func NewGameStatsManager() *GameStatsManager {
	return &GameStatsManager{
		batters:  make(map[string]*BatterLine),
		pitchers: make(map[string]*PitcherLine),
	}
}

func (m *GameStatsManager) batter(name, team string) *BatterLine {
	if b, ok := m.batters[name]; ok {
		return b
	}
	b := &BatterLine{Name: name, Team: team}
	m.batters[name] = b
	return b
}

func (m *GameStatsManager) pitcher(name, team string) *PitcherLine {
	if p, ok := m.pitchers[name]; ok {
		return p
	}
	p := &PitcherLine{Name: name, Team: team}
	m.pitchers[name] = p
	return p
}

// RecordPlay folds one committed at-bat into the game's stat lines.
func (m *GameStatsManager) RecordPlay(outcome *AtBatOutcome, battingTeam, fieldingTeam string) {
	b := m.batter(outcome.BatterName, battingTeam)
	p := m.pitcher(outcome.PitcherName, fieldingTeam)

	runs := len(outcome.ScoredRunners)

	switch outcome.Result {
	case ResultHit:
		b.AtBats++
		b.Hits++
		b.RBIs += runs
		p.HitsAllowed++
		switch outcome.Hit {
		case HitSingle:
			b.Singles++
		case HitDouble:
			b.Doubles++
		case HitTriple:
			b.Triples++
		case HitHomeRun:
			b.HomeRuns++
			m.highlights = append(m.highlights,
				fmt.Sprintf("%s homers off %s (%.0f ft)", outcome.BatterName, outcome.PitcherName, outcome.Distance))
		}
	case ResultWalk:
		b.Walks++
		b.RBIs += runs
		p.Walks++
	case ResultStrikeout:
		b.AtBats++
		b.Strikeouts++
		p.Strikeouts++
		p.OutsRecorded++
	case ResultFieldedOut:
		b.AtBats++
		b.RBIs += runs
		p.OutsRecorded++
		p.FieldedOuts++
	}

	p.EarnedRuns += runs
	for _, scorer := range outcome.ScoredRunners {
		m.batter(scorer, battingTeam).Runs++
	}

	if outcome.Result == ResultHit && outcome.Hit != HitHomeRun && runs >= 2 {
		m.highlights = append(m.highlights,
			fmt.Sprintf("%s drives in %d with a %s", outcome.BatterName, runs, hitNoun(outcome.Hit)))
	}
}

func hitNoun(hit string) string {
	switch hit {
	case HitSingle:
		return "single"
	case HitDouble:
		return "double"
	case HitTriple:
		return "triple"
	}
	return "hit"
}

// Summary builds the end-of-game report: winner, MVP by batting score,
// top pitcher by pitching score, and collected highlights.
func (m *GameStatsManager) Summary(gameID string, score map[string]int, innings int, awayName, homeName string) *GameSummary {
	s := &GameSummary{
		GameID:     gameID,
		FinalScore: score,
		Innings:    innings,
		Highlights: m.highlights,
	}

	switch {
	case score[homeName] > score[awayName]:
		s.Winner = homeName
	case score[awayName] > score[homeName]:
		s.Winner = awayName
	default:
		s.Winner = ""
	}

	for _, b := range m.batters {
		s.BattingLines = append(s.BattingLines, *b)
	}
	sort.Slice(s.BattingLines, func(i, j int) bool {
		return s.BattingLines[i].Score() > s.BattingLines[j].Score()
	})
	if len(s.BattingLines) > 0 {
		s.MVP = s.BattingLines[0].Name
	}

	for _, p := range m.pitchers {
		s.PitchingLines = append(s.PitchingLines, *p)
	}
	sort.Slice(s.PitchingLines, func(i, j int) bool {
		return s.PitchingLines[i].Score() > s.PitchingLines[j].Score()
	})
	if len(s.PitchingLines) > 0 {
		s.TopPitcher = s.PitchingLines[0].Name
	}

	return s
}
