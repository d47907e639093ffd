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
	"math/rand"
	"strings"
)

// BaseState tracks the occupant of each base by player name. An empty
// string means the base is open.
type BaseState struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// Occupied counts occupied bases.
func (b BaseState) Occupied() int {
	n := 0
	if b.First != "" {
		n++
	}
	if b.Second != "" {
		n++
	}
	if b.Third != "" {
		n++
	}
	return n
}

// Runners lists the current occupants, first base first.
func (b BaseState) Runners() []string {
	var runners []string
	for _, name := range []string{b.First, b.Second, b.Third} {
		if name != "" {
			runners = append(runners, name)
		}
	}
	return runners
}

// Describe renders the state for play-by-play output.
func (b BaseState) Describe() string {
	if b.Occupied() == 0 {
		return "bases empty"
	}
	var parts []string
	if b.First != "" {
		parts = append(parts, b.First+" on first")
	}
	if b.Second != "" {
		parts = append(parts, b.Second+" on second")
	}
	if b.Third != "" {
		parts = append(parts, b.Third+" on third")
	}
	return strings.Join(parts, ", ")
}

// Base destinations in a MovementPlan. DestHold leaves a runner in place.
const (
	DestHold = iota
	DestFirst
	DestSecond
	DestThird
	DestHome
)

// MovementPlan is the per-runner outcome of a play: where the batter and
// each existing runner end up. Application and decision are split so the
// plan can be inspected and logged before the bases change.
type MovementPlan struct {
	BatterTo int
	FirstTo  int
	SecondTo int
	ThirdTo  int
}

// DetermineAdvancement builds the movement plan for a hit or walk and
// lists the runners who score. With a runner on second and a single, a
// seeded coin flip decides whether they try for home or stop at third.
func DetermineAdvancement(playType string, bases BaseState, rng *rand.Rand) (MovementPlan, []string) {
	var plan MovementPlan
	var scored []string

	switch playType {
	case HitHomeRun:
		plan.BatterTo = DestHome
		plan.FirstTo, plan.SecondTo, plan.ThirdTo = DestHome, DestHome, DestHome
		for _, r := range []string{bases.Third, bases.Second, bases.First} {
			if r != "" {
				scored = append(scored, r)
			}
		}

	case HitTriple:
		plan.BatterTo = DestThird
		plan.FirstTo, plan.SecondTo, plan.ThirdTo = DestHome, DestHome, DestHome
		for _, r := range []string{bases.Third, bases.Second, bases.First} {
			if r != "" {
				scored = append(scored, r)
			}
		}

	case HitDouble:
		plan.BatterTo = DestSecond
		if bases.Third != "" {
			plan.ThirdTo = DestHome
			scored = append(scored, bases.Third)
		}
		if bases.Second != "" {
			plan.SecondTo = DestHome
			scored = append(scored, bases.Second)
		}
		if bases.First != "" {
			plan.FirstTo = DestThird
		}

	case HitSingle:
		plan.BatterTo = DestFirst
		if bases.Third != "" {
			plan.ThirdTo = DestHome
			scored = append(scored, bases.Third)
		}
		if bases.Second != "" {
			// Aggressive send half the time; otherwise hold at third.
			if rng.Float64() < 0.5 {
				plan.SecondTo = DestHome
				scored = append(scored, bases.Second)
			} else {
				plan.SecondTo = DestThird
			}
		}
		if bases.First != "" {
			plan.FirstTo = DestSecond
		}

	case ResultWalk:
		// Force advancement only: a runner moves exactly one base when
		// every base behind them is occupied.
		plan.BatterTo = DestFirst
		if bases.First != "" {
			plan.FirstTo = DestSecond
			if bases.Second != "" {
				plan.SecondTo = DestThird
				if bases.Third != "" {
					plan.ThirdTo = DestHome
					scored = append(scored, bases.Third)
				}
			}
		}
	}

	return plan, scored
}

// ProcessOut builds the movement plan for a fielded out. A third-base
// occupant scores on a ground out; on a fly out to the outfield they tag
// and score only with fewer than two outs at the time of the play. With
// fewer than two outs a ground ball also moves the trail runners up.
// Lineouts and popouts freeze the runners.
func ProcessOut(outType, location string, bases BaseState, outsBefore int) (MovementPlan, []string) {
	var plan MovementPlan
	var scored []string

	switch {
	case strings.Contains(outType, "ground"):
		if bases.Third != "" {
			plan.ThirdTo = DestHome
			scored = append(scored, bases.Third)
		}
		if outsBefore < 2 {
			if bases.Second != "" {
				plan.SecondTo = DestThird
			}
			if bases.First != "" {
				plan.FirstTo = DestSecond
			}
		}

	case strings.Contains(outType, "fl"):
		if bases.Third != "" && outsBefore < 2 && IsOutfieldLocation(location) {
			plan.ThirdTo = DestHome
			scored = append(scored, bases.Third)
		}
	}

	return plan, scored
}

// ApplyMovement advances the bases according to a plan. Runners whose
// destination is home leave the bases entirely; the batter is placed last
// so a force chain never overwrites them.
func ApplyMovement(bases BaseState, batter string, plan MovementPlan) BaseState {
	var next BaseState

	place := func(name string, dest int) {
		switch dest {
		case DestFirst:
			next.First = name
		case DestSecond:
			next.Second = name
		case DestThird:
			next.Third = name
		}
	}

	if bases.Third != "" && plan.ThirdTo == DestHold {
		next.Third = bases.Third
	} else if bases.Third != "" {
		place(bases.Third, plan.ThirdTo)
	}
	if bases.Second != "" && plan.SecondTo == DestHold {
		next.Second = bases.Second
	} else if bases.Second != "" {
		place(bases.Second, plan.SecondTo)
	}
	if bases.First != "" && plan.FirstTo == DestHold {
		next.First = bases.First
	} else if bases.First != "" {
		place(bases.First, plan.FirstTo)
	}

	place(batter, plan.BatterTo)
	return next
}
