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

	"github.com/google/uuid"
)

// PitchRecord is one pitch of a committed at-bat.
type PitchRecord struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	Velocity float64 `json:"velocity"`
	Call     string  `json:"call"`
}

// AtBatOutcome is a fully resolved at-bat, ready to be applied to the
// game state and emitted to playback clients.
type AtBatOutcome struct {
	PlayID      string `json:"play_id"`
	BatterName  string `json:"batter"`
	PitcherName string `json:"pitcher"`

	Result     string `json:"result"`
	Hit        string `json:"hit,omitempty"`
	FieldedOut string `json:"fielded_out,omitempty"`
	Rationale  string `json:"rationale,omitempty"`

	FinalPitch    string  `json:"final_pitch"`
	PitchVelocity float64 `json:"pitch_velocity"`
	ExitVelocity  float64 `json:"exit_velocity,omitempty"`
	Distance      float64 `json:"distance,omitempty"`
	Location      string  `json:"location,omitempty"`

	Pitches       []PitchRecord `json:"pitches"`
	ScoredRunners []string      `json:"scored_runners,omitempty"`
}

// AtBatSimulator resolves one at-bat: it asks the oracle for a proposed
// play, sanitizes the reply, and fills in the physics. It never fails:
// oracle errors degrade to the sanitizer's league-average fallback.
type AtBatSimulator struct {
	oracle Oracle
	san    *Sanitizer
	rng    *rand.Rand
}

func NewAtBatSimulator(oracle Oracle, rng *rand.Rand) *AtBatSimulator {
	return &AtBatSimulator{
		oracle: oracle,
		san:    NewSanitizer(rng),
		rng:    rng,
	}
}

// SimulateAtBat resolves the current batter/pitcher matchup. The only
// blocking operation is the oracle call, bounded by ctx.
func (s *AtBatSimulator) SimulateAtBat(ctx context.Context, g *GameState) *AtBatOutcome {
	batter := g.CurrentBatter()
	pitcher := g.CurrentPitcher()

	batterSnap, ok := batter.Stats.Batting()
	if !ok {
		batterSnap = DefaultBattingSnapshot(batter.Year)
	}
	pitcherSnap, ok := pitcher.Stats.Pitching()
	if !ok {
		pitcherSnap = DefaultPitchingSnapshot(pitcher.Year)
	}

	// Each player is rescaled to the opposing team's era so the matchup
	// happens on one scale.
	normBatter := NormalizeBatting(batterSnap, LeagueBaselineForYear(g.FieldingTeam().Year))
	normPitcher := NormalizePitching(pitcherSnap, LeagueBaselineForYear(g.BattingTeam().Year))

	pc := PlayContext{
		BattingTeam:  g.BattingTeam().Name,
		FieldingTeam: g.FieldingTeam().Name,
		Batter:       batter.Name,
		Pitcher:      pitcher.Name,
		Inning:       g.Inning,
		Half:         g.HalfLabel(),
		Outs:         g.Outs,
		Score:        g.Score,
		Bases:        g.Bases.Describe(),
		HomeYear:     g.Home.Year,
		Batting:      normBatter,
		Pitching:     normPitcher,
		Arsenal:      g.CurrentArsenal(),
	}

	payload, err := s.oracle.ProposePlay(ctx, pc)
	if err != nil {
		log.Printf("oracle failed for %s vs %s: %v", batter.Name, pitcher.Name, err)
		payload = ""
	}

	final := s.san.ExtractFinalPlay(payload)
	sequence := s.san.ExtractPitchSequence(payload)
	sequence = confirmPitchSequence(sequence, final.Result)

	arsenal := g.CurrentArsenal()
	outcome := &AtBatOutcome{
		PlayID:      uuid.New().String(),
		BatterName:  batter.Name,
		PitcherName: pitcher.Name,
		Result:      final.Result,
		Hit:         final.Hit,
		FieldedOut:  final.FieldedOut,
		Rationale:   final.Rationale,
		FinalPitch:  arsenal.Lookup(final.Pitch).Code,
	}

	for _, pd := range sequence {
		p := arsenal.Lookup(pd.PitchType)
		outcome.Pitches = append(outcome.Pitches, PitchRecord{
			Type:     p.Code,
			Name:     p.Name,
			Velocity: EstimatePitchVelocity(pitcherSnap, p.Code, s.rng),
			Call:     pd.Call,
		})
	}

	outcome.PitchVelocity = EstimatePitchVelocity(pitcherSnap, outcome.FinalPitch, s.rng)

	if final.Result == ResultHit || final.Result == ResultFieldedOut {
		outcome.ExitVelocity = EstimateExitVelocity(batterSnap, outcome.PitchVelocity, s.rng)
		outcome.Distance, outcome.Location = CalculateHit(batterSnap, pitcherSnap, outcome.ExitVelocity, final.Hit, g.Venue, s.rng)
	}

	return outcome
}

// confirmPitchSequence reconciles the sanitized pitch list with the
// declared result: a strikeout must show its full strike count and a walk
// its full ball count, and the total stays within the pitch cap. In-play
// results get a terminal in-play pitch.
func confirmPitchSequence(seq []PitchDetail, result string) []PitchDetail {
	strikes, balls := 0, 0
	for _, p := range seq {
		switch p.Call {
		case CallStrike:
			strikes++
		case CallBall:
			balls++
		}
	}

	switch result {
	case ResultStrikeout:
		for strikes < MaxStrikes {
			seq = append(seq, PitchDetail{PitchType: DefaultPitchType, Call: CallStrike, Velocity: DefaultPitchVelocity})
			strikes++
		}
	case ResultWalk:
		for balls < MaxBalls {
			seq = append(seq, PitchDetail{PitchType: DefaultPitchType, Call: CallBall, Velocity: DefaultPitchVelocity})
			balls++
		}
	default:
		if len(seq) == 0 || seq[len(seq)-1].Call != CallInPlay {
			seq = append(seq, PitchDetail{PitchType: DefaultPitchType, Call: CallInPlay, Velocity: DefaultPitchVelocity})
		}
	}

	// Trim surplus pitches from the front if the cap is exceeded; the
	// calls that justify the result are never removed.
	for len(seq) > MaxPitches {
		removed := false
		for i, p := range seq {
			surplus := false
			switch p.Call {
			case CallStrike:
				if result != ResultStrikeout {
					surplus = true
					strikes--
				}
			case CallBall:
				if result != ResultWalk {
					surplus = true
					balls--
				}
			}
			if surplus {
				seq = append(seq[:i], seq[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			seq = seq[:MaxPitches]
		}
	}
	return seq
}
