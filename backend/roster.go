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

// TeamRoster is one side of a matchup: an ordered batting lineup, a
// defensive alignment, and a starting pitcher with their arsenal.
type TeamRoster struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Year    int               `json:"year"`
	Lineup  []Player          `json:"lineup"`
	Defense map[string]Player `json:"defense"`
	Pitcher Player            `json:"pitcher"`
	Arsenal PitchArsenal      `json:"arsenal"`
	Venue   VenueProfile      `json:"venue"`
}

// Validate reports the fatal configuration errors: an empty lineup or a
// missing starting pitcher cannot be simulated around.
func (t *TeamRoster) Validate() error {
	if t == nil {
		return fmt.Errorf("no roster")
	}
	if len(t.Lineup) == 0 {
		return fmt.Errorf("team %q (%d): empty lineup", t.Name, t.ID)
	}
	if t.Pitcher.Name == "" {
		return fmt.Errorf("team %q (%d): no starting pitcher", t.Name, t.ID)
	}
	return nil
}

func battingMetric(p Player, metric string) float64 {
	b, ok := p.Stats.Batting()
	if !ok {
		return 0
	}
	switch metric {
	case "obp":
		return b.OBP
	case "ops":
		return b.OPS
	case "avg":
		return b.AVG
	case "slg":
		return b.SLG
	}
	return 0
}

// lineupSlots pairs each batting-order slot with the stat that fills it:
// on-base ability leads off, power hits in the middle.
var lineupSlots = []string{"obp", "ops", "avg", "ops", "slg"}

// OptimizeLineup orders batters for run production. The first five slots
// each take the remaining leader in a slot-specific stat; the rest are
// ordered by OPS. At most nine batters make the lineup.
func OptimizeLineup(batters []Player) []Player {
	pool := make([]Player, len(batters))
	copy(pool, batters)

	takeBest := func(metric string) (Player, bool) {
		if len(pool) == 0 {
			return Player{}, false
		}
		best := 0
		for i := 1; i < len(pool); i++ {
			if battingMetric(pool[i], metric) > battingMetric(pool[best], metric) {
				best = i
			}
		}
		p := pool[best]
		pool = append(pool[:best], pool[best+1:]...)
		return p, true
	}

	var lineup []Player
	for _, metric := range lineupSlots {
		p, ok := takeBest(metric)
		if !ok {
			break
		}
		lineup = append(lineup, p)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return battingMetric(pool[i], "ops") > battingMetric(pool[j], "ops")
	})
	lineup = append(lineup, pool...)

	if len(lineup) > 9 {
		lineup = lineup[:9]
	}
	return lineup
}

// AssignDefense fills the required positions from the lineup. A player's
// listed position wins; any outfielder covers an open outfield slot; the
// leftovers plug remaining holes in lineup order.
func AssignDefense(lineup []Player) map[string]Player {
	defense := make(map[string]Player, len(RequiredPositions))
	used := make(map[int]bool, len(lineup))

	for _, pos := range RequiredPositions {
		for i, p := range lineup {
			if used[i] {
				continue
			}
			if p.Position == pos {
				defense[pos] = p
				used[i] = true
				break
			}
		}
	}

	for _, pos := range RequiredPositions {
		if _, ok := defense[pos]; ok || !outfieldPositions[pos] {
			continue
		}
		for i, p := range lineup {
			if used[i] {
				continue
			}
			if outfieldPositions[p.Position] {
				defense[pos] = p
				used[i] = true
				break
			}
		}
	}

	for _, pos := range RequiredPositions {
		if _, ok := defense[pos]; ok {
			continue
		}
		for i, p := range lineup {
			if used[i] {
				continue
			}
			defense[pos] = p
			used[i] = true
			break
		}
	}

	return defense
}

// SelectStartingPitcher picks the team's innings-pitched leader from the
// leaders payload, falling back to the first rostered pitcher.
func SelectStartingPitcher(leaders map[string]any, pitchers []Player) (Player, error) {
	if len(pitchers) == 0 {
		return Player{}, fmt.Errorf("no pitchers on roster")
	}
	teamLeaders, _ := leaders["teamLeaders"].([]any)
	for _, tl := range teamLeaders {
		entry, ok := tl.(map[string]any)
		if !ok {
			continue
		}
		ranked, _ := entry["leaders"].([]any)
		for _, r := range ranked {
			row, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if statInt(row, "rank", 0) != 1 {
				continue
			}
			person, ok := row["person"].(map[string]any)
			if !ok {
				continue
			}
			id := statInt(person, "id", 0)
			for _, p := range pitchers {
				if p.ID == id {
					return p, nil
				}
			}
		}
	}
	return pitchers[0], nil
}
