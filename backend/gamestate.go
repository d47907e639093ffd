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
	"math/rand"
)

// GameState is the single owner of one game's mutable state. It is not
// safe for concurrent use: one goroutine drives a game from first pitch to
// last, one at-bat at a time.
type GameState struct {
	Inning      int
	TopOfInning bool
	Outs        int
	Bases       BaseState
	Score       map[string]int

	Away *TeamRoster
	Home *TeamRoster

	MaxRegulationInnings int
	MaxExtraInnings      int
	// MaxInnings tracks the current inning ceiling for display; ties at a
	// bottom-half boundary push it out one inning at a time.
	MaxInnings int

	Venue VenueProfile

	awayBatter int
	homeBatter int
	over       bool

	rng *rand.Rand
}

// NewGameState validates both rosters and sets up the first inning. The
// away team bats first; the game is played in the home team's park.
func NewGameState(away, home *TeamRoster, regulation, extra int, rng *rand.Rand) (*GameState, error) {
	if err := away.Validate(); err != nil {
		return nil, fmt.Errorf("away roster: %w", err)
	}
	if err := home.Validate(); err != nil {
		return nil, fmt.Errorf("home roster: %w", err)
	}
	if regulation <= 0 {
		regulation = DefaultRegulationInnings
	}
	if extra < 0 {
		extra = DefaultExtraInnings
	}
	return &GameState{
		Inning:               1,
		TopOfInning:          true,
		Away:                 away,
		Home:                 home,
		Score:                map[string]int{away.Name: 0, home.Name: 0},
		MaxRegulationInnings: regulation,
		MaxExtraInnings:      extra,
		MaxInnings:           regulation,
		Venue:                home.Venue,
		rng:                  rng,
	}, nil
}

// BattingTeam returns the roster currently at the plate.
func (g *GameState) BattingTeam() *TeamRoster {
	if g.TopOfInning {
		return g.Away
	}
	return g.Home
}

// FieldingTeam returns the roster currently in the field.
func (g *GameState) FieldingTeam() *TeamRoster {
	if g.TopOfInning {
		return g.Home
	}
	return g.Away
}

// CurrentBatter resolves the batting cursor against the lineup.
func (g *GameState) CurrentBatter() Player {
	team := g.BattingTeam()
	if g.TopOfInning {
		return team.Lineup[g.awayBatter%len(team.Lineup)]
	}
	return team.Lineup[g.homeBatter%len(team.Lineup)]
}

// CurrentPitcher returns the fielding team's starter.
func (g *GameState) CurrentPitcher() Player {
	return g.FieldingTeam().Pitcher
}

// CurrentArsenal returns the pitch mix of the pitcher on the mound.
func (g *GameState) CurrentArsenal() PitchArsenal {
	return g.FieldingTeam().Arsenal
}

// AdvanceBatter moves the batting cursor one slot, wrapping around the
// lineup.
func (g *GameState) AdvanceBatter() {
	if g.TopOfInning {
		g.awayBatter = (g.awayBatter + 1) % len(g.Away.Lineup)
	} else {
		g.homeBatter = (g.homeBatter + 1) % len(g.Home.Lineup)
	}
}

// BatterCursor exposes the active lineup cursor.
func (g *GameState) BatterCursor() int {
	if g.TopOfInning {
		return g.awayBatter
	}
	return g.homeBatter
}

// ApplyResult commits a sanitized at-bat outcome: outs, base movement,
// scoring, batting cursor, and (at three outs) the half-inning transition.
// It returns the out count to report for the play, where a rally-ending
// play reports 3 even though the stored count resets.
func (g *GameState) ApplyResult(res *AtBatOutcome) int {
	outsBefore := g.Outs

	// A recognized fielded-out phrase overrides a mislabeled result.
	if canonicalOuts[res.FieldedOut] {
		res.Result = ResultFieldedOut
	}

	switch res.Result {
	case ResultStrikeout, ResultFieldedOut:
		g.Outs++
	}

	var plan MovementPlan
	var scored []string
	batterRuns := 0

	switch res.Result {
	case ResultHit:
		plan, scored = DetermineAdvancement(res.Hit, g.Bases, g.rng)
		if plan.BatterTo == DestHome {
			batterRuns = 1
		}
		g.Bases = ApplyMovement(g.Bases, res.BatterName, plan)
	case ResultWalk:
		plan, scored = DetermineAdvancement(ResultWalk, g.Bases, g.rng)
		g.Bases = ApplyMovement(g.Bases, res.BatterName, plan)
	case ResultFieldedOut:
		// Runners can still score on the out itself (sacrifice fly,
		// run-scoring ground out); anything beyond that is cancelled by
		// the third out.
		plan, scored = ProcessOut(res.FieldedOut, res.Location, g.Bases, outsBefore)
		g.Bases = ApplyMovement(g.Bases, "", plan)
	}

	if runs := len(scored) + batterRuns; runs > 0 {
		g.Score[g.BattingTeam().Name] += runs
	}
	if batterRuns > 0 {
		scored = append(scored, res.BatterName)
	}
	res.ScoredRunners = scored

	g.AdvanceBatter()

	finalOuts := g.Outs
	if g.Outs >= 3 {
		finalOuts = 3
		if g.IsGameOver() {
			g.over = true
		} else {
			g.nextHalfInning()
		}
	}
	return finalOuts
}

func (g *GameState) nextHalfInning() {
	g.Outs = 0
	g.Bases = BaseState{}
	if g.TopOfInning {
		g.TopOfInning = false
	} else {
		g.TopOfInning = true
		g.Inning++
	}
}

// IsGameOver evaluates termination. Below regulation the game always
// continues. At or past regulation: the home team ahead in the bottom half
// ends it; a tie at the bottom-half three-out boundary extends the game by
// one inning until the extra-innings window is spent, after which ties
// stand.
func (g *GameState) IsGameOver() bool {
	if g.over {
		return true
	}
	if g.Inning > g.MaxRegulationInnings+g.MaxExtraInnings {
		return true
	}
	if g.Inning < g.MaxRegulationInnings {
		return false
	}
	if !g.TopOfInning {
		if g.IsHomeAhead() {
			return true
		}
		if g.IsTied() && g.Outs >= 3 {
			if g.Inning < g.MaxRegulationInnings+g.MaxExtraInnings {
				g.MaxInnings++
				return false
			}
			return true
		}
		return false
	}
	return g.Outs >= 3 && g.IsHomeAhead()
}

// IsTied reports whether the score is level.
func (g *GameState) IsTied() bool {
	return g.Score[g.Home.Name] == g.Score[g.Away.Name]
}

// IsHomeAhead reports whether the home team leads strictly.
func (g *GameState) IsHomeAhead() bool {
	return g.Score[g.Home.Name] > g.Score[g.Away.Name]
}

// HalfLabel renders the half-inning for play-by-play output.
func (g *GameState) HalfLabel() string {
	if g.TopOfInning {
		return "top"
	}
	return "bottom"
}

// ScoreLine renders the running score, away team first.
func (g *GameState) ScoreLine() string {
	return fmt.Sprintf("%s: %d, %s: %d", g.Away.Name, g.Score[g.Away.Name], g.Home.Name, g.Score[g.Home.Name])
}
