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
	"strings"
	"testing"
)

func TestRecordPlayAccounting(t *testing.T) {
	m := NewGameStatsManager()

	// Two-run homer: batter drives in a runner and themself.
	m.RecordPlay(&AtBatOutcome{
		BatterName:    "Slugger",
		PitcherName:   "Starter",
		Result:        ResultHit,
		Hit:           HitHomeRun,
		Distance:      415,
		ScoredRunners: []string{"Speedster", "Slugger"},
	}, "Away", "Home")

	// Strikeout.
	m.RecordPlay(&AtBatOutcome{
		BatterName:  "Whiffer",
		PitcherName: "Starter",
		Result:      ResultStrikeout,
	}, "Away", "Home")

	// Sacrifice fly scoring one.
	m.RecordPlay(&AtBatOutcome{
		BatterName:    "Contact",
		PitcherName:   "Starter",
		Result:        ResultFieldedOut,
		FieldedOut:    OutFly,
		ScoredRunners: []string{"Speedster"},
	}, "Away", "Home")

	// Walk.
	m.RecordPlay(&AtBatOutcome{
		BatterName:  "Patient",
		PitcherName: "Starter",
		Result:      ResultWalk,
	}, "Away", "Home")

	slugger := m.batter("Slugger", "Away")
	if slugger.AtBats != 1 || slugger.Hits != 1 || slugger.HomeRuns != 1 {
		t.Errorf("Slugger line wrong: %+v", slugger)
	}
	if slugger.RBIs != 2 || slugger.Runs != 1 {
		t.Errorf("Slugger RBIs=%d Runs=%d, want 2/1", slugger.RBIs, slugger.Runs)
	}

	speedster := m.batter("Speedster", "Away")
	if speedster.Runs != 2 {
		t.Errorf("Speedster Runs=%d, want 2", speedster.Runs)
	}

	patient := m.batter("Patient", "Away")
	if patient.AtBats != 0 || patient.Walks != 1 {
		t.Errorf("A walk is not an at-bat: %+v", patient)
	}

	starter := m.pitcher("Starter", "Home")
	if starter.HitsAllowed != 1 || starter.Walks != 1 || starter.Strikeouts != 1 {
		t.Errorf("Starter line wrong: %+v", starter)
	}
	if starter.OutsRecorded != 2 || starter.FieldedOuts != 1 {
		t.Errorf("Starter outs wrong: %+v", starter)
	}
	if starter.EarnedRuns != 3 {
		t.Errorf("Starter EarnedRuns=%d, want 3", starter.EarnedRuns)
	}
}

func TestHighlights(t *testing.T) {
	m := NewGameStatsManager()
	m.RecordPlay(&AtBatOutcome{
		BatterName:    "Slugger",
		PitcherName:   "Starter",
		Result:        ResultHit,
		Hit:           HitHomeRun,
		Distance:      441,
		ScoredRunners: []string{"Slugger"},
	}, "Away", "Home")
	m.RecordPlay(&AtBatOutcome{
		BatterName:    "Gap Power",
		PitcherName:   "Starter",
		Result:        ResultHit,
		Hit:           HitDouble,
		ScoredRunners: []string{"A", "B"},
	}, "Away", "Home")

	s := m.Summary("g1", map[string]int{"Away": 3, "Home": 0}, 2, "Away", "Home")
	if len(s.Highlights) != 2 {
		t.Fatalf("Highlights = %v", s.Highlights)
	}
	if !strings.Contains(s.Highlights[0], "441 ft") {
		t.Errorf("Homer highlight missing distance: %q", s.Highlights[0])
	}
	if !strings.Contains(s.Highlights[1], "drives in 2") {
		t.Errorf("Two-RBI highlight wrong: %q", s.Highlights[1])
	}
}

func TestSummaryWinnerAndAwards(t *testing.T) {
	m := NewGameStatsManager()

	m.RecordPlay(&AtBatOutcome{
		BatterName:    "Hero",
		PitcherName:   "Loser",
		Result:        ResultHit,
		Hit:           HitHomeRun,
		ScoredRunners: []string{"Hero"},
	}, "Away", "Home")
	m.RecordPlay(&AtBatOutcome{
		BatterName:  "Bystander",
		PitcherName: "Loser",
		Result:      ResultStrikeout,
	}, "Away", "Home")
	for i := 0; i < 6; i++ {
		m.RecordPlay(&AtBatOutcome{
			BatterName:  "Quiet Bat",
			PitcherName: "Winner",
			Result:      ResultStrikeout,
		}, "Home", "Away")
	}

	s := m.Summary("g1", map[string]int{"Away": 1, "Home": 0}, 2, "Away", "Home")
	if s.Winner != "Away" {
		t.Errorf("Winner = %q, want Away", s.Winner)
	}
	if s.MVP != "Hero" {
		t.Errorf("MVP = %q, want the home-run hitter", s.MVP)
	}
	if s.TopPitcher != "Winner" {
		t.Errorf("TopPitcher = %q, want the strikeout pitcher", s.TopPitcher)
	}
	if s.Innings != 2 || s.GameID != "g1" {
		t.Errorf("Summary header wrong: %+v", s)
	}

	// Lines are sorted best-first.
	if len(s.BattingLines) == 0 || s.BattingLines[0].Name != "Hero" {
		t.Errorf("Batting lines not sorted: %+v", s.BattingLines)
	}
}

func TestSummaryTieHasNoWinner(t *testing.T) {
	m := NewGameStatsManager()
	s := m.Summary("g2", map[string]int{"Away": 2, "Home": 2}, 4, "Away", "Home")
	if s.Winner != "" {
		t.Errorf("Tie should have no winner, got %q", s.Winner)
	}
}

func TestPitcherInningsPitched(t *testing.T) {
	p := PitcherLine{OutsRecorded: 7}
	if got := p.InningsPitched(); got < 2.33 || got > 2.34 {
		t.Errorf("InningsPitched = %v, want 7/3", got)
	}
}
