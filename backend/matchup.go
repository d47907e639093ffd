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
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// PlayUpdate is what observers see after every at-bat: where the game
// stood when the batter stepped in, what happened, and the score after
// the play was committed.
type PlayUpdate struct {
	GameID   string `json:"game_id"`
	Sequence int    `json:"sequence"`

	Inning     int    `json:"inning"`
	Half       string `json:"half"`
	OutsBefore int    `json:"outs_before"`
	OutsAfter  int    `json:"outs_after"`
	Bases      string `json:"bases"`

	BattingTeam  string `json:"batting_team"`
	FieldingTeam string `json:"fielding_team"`

	Outcome *AtBatOutcome  `json:"outcome"`
	Score   map[string]int `json:"score"`
}

// PlaySink receives game events as they happen. Implementations must not
// block for long: the game goroutine delivers updates inline between
// at-bats.
type PlaySink interface {
	PlayResult(update *PlayUpdate)
	GameOver(summary *GameSummary)
}

// MatchupOptions tune one game. Zero values fall back to the defaults.
type MatchupOptions struct {
	RegulationInnings int
	ExtraInnings      int
	PlayDelay         time.Duration
	Rand              *rand.Rand
}

func (o MatchupOptions) withDefaults() MatchupOptions {
	if o.RegulationInnings <= 0 {
		o.RegulationInnings = DefaultRegulationInnings
	}
	if o.ExtraInnings < 0 {
		o.ExtraInnings = DefaultExtraInnings
	}
	if o.PlayDelay < 0 {
		o.PlayDelay = DefaultPlayDelaySeconds * time.Second
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// MatchupSimulator drives one game from the first pitch to the final out.
// Each game runs on its own goroutine and owns its state exclusively;
// observers are fed through the sink.
type MatchupSimulator struct {
	GameID string

	state *GameState
	sim   *AtBatSimulator
	stats *GameStatsManager
	sink  PlaySink
	delay time.Duration
}

// NewMatchupSimulator validates both rosters and prepares a game. The
// returned simulator is ready for a single Run call.
func NewMatchupSimulator(away, home *TeamRoster, oracle Oracle, sink PlaySink, opts MatchupOptions) (*MatchupSimulator, error) {
	opts = opts.withDefaults()
	state, err := NewGameState(away, home, opts.RegulationInnings, opts.ExtraInnings, opts.Rand)
	if err != nil {
		return nil, err
	}
	return &MatchupSimulator{
		GameID: uuid.New().String(),
		state:  state,
		sim:    NewAtBatSimulator(oracle, opts.Rand),
		stats:  NewGameStatsManager(),
		sink:   sink,
		delay:  opts.PlayDelay,
	}, nil
}

// State exposes the underlying game state for inspection. Callers must
// not touch it while Run is in flight.
func (m *MatchupSimulator) State() *GameState {
	return m.state
}

// Run plays the game to completion, emitting a PlayUpdate after every
// at-bat and a GameSummary at the end. It pauses between plays so that
// live observers can follow along. A cancelled context stops the game
// without a summary.
func (m *MatchupSimulator) Run(ctx context.Context) (*GameSummary, error) {
	g := m.state
	sequence := 0

	log.Printf("Game %s: %s (%d) at %s (%d)", m.GameID, g.Away.Name, g.Away.Year, g.Home.Name, g.Home.Year)

	for !g.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inning := g.Inning
		half := g.HalfLabel()
		outsBefore := g.Outs
		bases := g.Bases.Describe()
		battingTeam := g.BattingTeam().Name
		fieldingTeam := g.FieldingTeam().Name

		outcome := m.sim.SimulateAtBat(ctx, g)
		outsAfter := g.ApplyResult(outcome)
		m.stats.RecordPlay(outcome, battingTeam, fieldingTeam)

		sequence++
		update := &PlayUpdate{
			GameID:       m.GameID,
			Sequence:     sequence,
			Inning:       inning,
			Half:         half,
			OutsBefore:   outsBefore,
			OutsAfter:    outsAfter,
			Bases:        bases,
			BattingTeam:  battingTeam,
			FieldingTeam: fieldingTeam,
			Outcome:      outcome,
			Score:        scoreCopy(g.Score),
		}
		if m.sink != nil {
			m.sink.PlayResult(update)
		}

		if g.IsGameOver() {
			break
		}
		if m.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.delay):
			}
		}
	}

	summary := m.stats.Summary(m.GameID, scoreCopy(g.Score), g.Inning, g.Away.Name, g.Home.Name)
	log.Printf("Game %s final: %s", m.GameID, g.ScoreLine())
	if m.sink != nil {
		m.sink.GameOver(summary)
	}
	return summary, nil
}

func scoreCopy(score map[string]int) map[string]int {
	out := make(map[string]int, len(score))
	for k, v := range score {
		out[k] = v
	}
	return out
}
