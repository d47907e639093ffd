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
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
)

// DefaultStatsBaseURL is the public historical stats service.
const DefaultStatsBaseURL = "https://statsapi.mlb.com/api/v1"

// pitchNames maps provider pitch codes to display names.
var pitchNames = map[string]string{
	"FA": "Fastball",
	"FF": "Four-Seam Fastball",
	"FT": "Two-Seam Fastball",
	"FC": "Cutter",
	"FO": "Forkball",
	"SI": "Sinker",
	"SL": "Slider",
	"ST": "Sweeper",
	"CH": "Changeup",
	"CU": "Curveball",
	"KC": "Knuckle-Curve",
	"KN": "Knuckleball",
	"SF": "Split-Finger",
	"SC": "Screwball",
	"CS": "Slow Curve",
	"FS": "Splitter",
}

// StatsProvider fetches team rosters, player stat lines, venue dimensions,
// and pitch arsenals from the stats service. Responses are memoized in
// memory and mirrored to disk, so a season's worth of matchups between the
// same clubs costs one round of requests.
type StatsProvider struct {
	BaseURL string

	client  *http.Client
	storage *storage.Storage

	mu   sync.Mutex
	memo map[string]map[string]any
}

// NewStatsProvider creates a provider. The storage handle may be nil, in
// which case responses are only cached in memory.
func NewStatsProvider(baseURL string, s *storage.Storage) *StatsProvider {
	if baseURL == "" {
		baseURL = DefaultStatsBaseURL
	}
	return &StatsProvider{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		storage: s,
		memo:    make(map[string]map[string]any),
	}
}

// Cached payloads are decoded JSON maps; gob needs the generic container
// types registered before it can mirror them to disk.
func init() {
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

func cacheFilename(key string) string {
	return filepath.Join("statcache", url.PathEscape(key)+".json")
}

func (sp *StatsProvider) fetch(ctx context.Context, path string, params url.Values) (map[string]any, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	sp.mu.Lock()
	if cached, ok := sp.memo[key]; ok {
		sp.mu.Unlock()
		return cached, nil
	}
	sp.mu.Unlock()

	if sp.storage != nil {
		var cached map[string]any
		if err := sp.storage.ReadDataFile(cacheFilename(key), &cached); err == nil && cached != nil {
			sp.remember(key, cached)
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sp.BaseURL+key, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	resp, err := sp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", path, resp.Status)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if sp.storage != nil {
		if err := sp.storage.SaveDataFile(cacheFilename(key), payload); err != nil {
			log.Printf("statcache: SaveDataFile %s: %v", key, err)
		}
	}
	sp.remember(key, payload)
	return payload, nil
}

func (sp *StatsProvider) remember(key string, payload map[string]any) {
	sp.mu.Lock()
	sp.memo[key] = payload
	sp.mu.Unlock()
}

// TeamDetails returns the team's name, first year of play, and venue for
// the given season.
func (sp *StatsProvider) TeamDetails(ctx context.Context, teamID, year int) (map[string]any, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(year))
	params.Set("hydrate", "venue")
	params.Set("fields", "teams,id,name,firstYearOfPlay,venue")
	return sp.fetch(ctx, fmt.Sprintf("/teams/%d", teamID), params)
}

// RosterWithStats returns the active roster with each player's career,
// advanced, sabermetric, and batted-ball metric sections hydrated.
func (sp *StatsProvider) RosterWithStats(ctx context.Context, teamID, year int) (map[string]any, error) {
	params := url.Values{}
	params.Set("rosterType", "Active")
	params.Set("season", strconv.Itoa(year))
	params.Set("hydrate", "person(stats(group=[hitting,pitching],type=[career,careerAdvanced,metricAverages,sabermetrics],metrics=[launchSpeed,distance,launchAngle,releaseSpeed]))")
	return sp.fetch(ctx, fmt.Sprintf("/teams/%d/roster", teamID), params)
}

// VenueForTeam resolves the team's home park and its field dimensions.
// Any gap in the payload falls back to league-average dimensions.
func (sp *StatsProvider) VenueForTeam(ctx context.Context, teamID, year int) (VenueProfile, error) {
	details, err := sp.TeamDetails(ctx, teamID, year)
	if err != nil {
		return DefaultVenue(), err
	}
	teams, _ := details["teams"].([]any)
	if len(teams) == 0 {
		return DefaultVenue(), fmt.Errorf("team %d: empty teams payload", teamID)
	}
	info, _ := teams[0].(map[string]any)
	venue, _ := info["venue"].(map[string]any)
	venueID := statInt(venue, "id", 0)
	if venueID == 0 {
		return DefaultVenue(), nil
	}

	params := url.Values{}
	params.Set("venueIds", strconv.Itoa(venueID))
	params.Set("hydrate", "location,fieldInfo")
	payload, err := sp.fetch(ctx, "/venues", params)
	if err != nil {
		return DefaultVenue(), err
	}
	return VenueFromAPI(payload), nil
}

// PitchingLeaders returns the team's innings-pitched leaderboard for the
// season.
func (sp *StatsProvider) PitchingLeaders(ctx context.Context, teamID, year int) (map[string]any, error) {
	params := url.Values{}
	params.Set("leaderCategories", "inningsPitched")
	params.Set("season", strconv.Itoa(year))
	return sp.fetch(ctx, fmt.Sprintf("/teams/%d/leaders", teamID), params)
}

// PitcherArsenal returns the pitcher's tracked pitch mix. Pitchers who
// predate tracking get the default arsenal.
func (sp *StatsProvider) PitcherArsenal(ctx context.Context, pitcherID, year int) (PitchArsenal, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(year))
	params.Set("hydrate", fmt.Sprintf("stats(group=[pitching],type=[pitchArsenal,career],season=%d)", year))
	payload, err := sp.fetch(ctx, fmt.Sprintf("/people/%d", pitcherID), params)
	if err != nil {
		return DefaultArsenal(), err
	}
	return ParseArsenal(payload), nil
}

// ParseArsenal extracts a pitch arsenal from a hydrated people payload.
// The highest-usage pitch becomes the primary.
func ParseArsenal(payload map[string]any) PitchArsenal {
	people, _ := payload["people"].([]any)
	if len(people) == 0 {
		return DefaultArsenal()
	}
	person, _ := people[0].(map[string]any)
	sections, _ := person["stats"].([]any)
	section := findStatSection(sections, "pitchArsenal", "")
	if section == nil {
		return DefaultArsenal()
	}
	splits, _ := section["splits"].([]any)

	arsenal := PitchArsenal{Pitches: make(map[string]Pitch)}
	var maxPct float64
	for _, s := range splits {
		split, ok := s.(map[string]any)
		if !ok {
			continue
		}
		stat, _ := split["stat"].(map[string]any)
		pitchType, _ := stat["type"].(map[string]any)
		code := statString(pitchType, "code", "")
		if code == "" {
			continue
		}
		name, ok := pitchNames[code]
		if !ok {
			name = "Unknown Pitch"
		}
		pct := statFloat(stat, "percentage", 0) * 100
		arsenal.Pitches[code] = Pitch{
			Code:       code,
			Name:       name,
			Percentage: pct,
			AvgSpeed:   statFloat(stat, "averageSpeed", 0),
		}
		if pct > maxPct {
			maxPct = pct
			arsenal.Primary = code
		}
	}
	if len(arsenal.Pitches) == 0 {
		return DefaultArsenal()
	}
	return arsenal
}

// findStatSection locates a hydrated stat section by its type display name
// and, when group is non-empty, its stat group.
func findStatSection(sections []any, displayName, group string) map[string]any {
	for _, s := range sections {
		section, ok := s.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := section["type"].(map[string]any)
		if statString(typ, "displayName", "") != displayName {
			continue
		}
		if group != "" {
			g, _ := section["group"].(map[string]any)
			if statString(g, "displayName", "") != group {
				continue
			}
		}
		return section
	}
	return nil
}

func firstSplitStat(section map[string]any) map[string]any {
	if section == nil {
		return nil
	}
	splits, _ := section["splits"].([]any)
	if len(splits) == 0 {
		return nil
	}
	split, _ := splits[0].(map[string]any)
	stat, _ := split["stat"].(map[string]any)
	return stat
}

// metricKeys maps the provider's camelCase metric names to the snapshot
// band fields.
var metricKeys = map[string]string{
	"launchSpeed":    "launch_speed",
	"launchAngle":    "launch_angle",
	"distance":       "distance",
	"effectiveSpeed": "effective_speed",
	"releaseSpeed":   "release_speed",
}

// aggregateMetrics folds the metricAverages splits into per-metric bands
// weighted by occurrence count.
func aggregateMetrics(sections []any) map[string]any {
	type group struct {
		total       float64
		occurrences float64
		min, max    float64
		seeded      bool
	}
	groups := make(map[string]*group)

	metrics := findStatSection(sections, "metricAverages", "")
	if metrics == nil {
		return nil
	}
	splits, _ := metrics["splits"].([]any)
	for _, s := range splits {
		split, ok := s.(map[string]any)
		if !ok {
			continue
		}
		stat, _ := split["stat"].(map[string]any)
		metric, ok := stat["metric"].(map[string]any)
		if !ok {
			continue
		}
		key, ok := metricKeys[statString(metric, "name", "")]
		if !ok {
			continue
		}
		occurrences := statFloat(split, "numOccurrences", 0)
		if occurrences <= 0 {
			continue
		}
		value := statFloat(metric, "averageValue", 0)
		minVal := statFloat(metric, "minValue", value)
		maxVal := statFloat(metric, "maxValue", value)

		g, ok := groups[key]
		if !ok {
			g = &group{min: minVal, max: maxVal}
			groups[key] = g
		}
		g.total += value * occurrences
		g.occurrences += occurrences
		if !g.seeded {
			g.min, g.max = minVal, maxVal
			g.seeded = true
		} else {
			if minVal < g.min {
				g.min = minVal
			}
			if maxVal > g.max {
				g.max = maxVal
			}
		}
	}

	out := make(map[string]any, len(groups))
	for key, g := range groups {
		if g.occurrences <= 0 {
			continue
		}
		out[key] = map[string]any{
			"avg": roundN(g.total/g.occurrences, 1),
			"min": roundN(g.min, 1),
			"max": roundN(g.max, 1),
		}
	}
	return out
}

// BuildTeamRoster assembles one side of a matchup: roster with stat
// snapshots, optimized lineup, defensive alignment, starting pitcher, pitch
// arsenal, and home venue. A provider failure here aborts the matchup;
// there is no sensible game without real rosters.
func (sp *StatsProvider) BuildTeamRoster(ctx context.Context, teamID, year int) (*TeamRoster, error) {
	name, ok := Teams[teamID]
	if !ok {
		name = fmt.Sprintf("Team %d", teamID)
	}

	rosterPayload, err := sp.RosterWithStats(ctx, teamID, year)
	if err != nil {
		return nil, fmt.Errorf("roster for %s (%d): %w", name, year, err)
	}

	var batters, pitchers []Player
	rosterRaw, _ := rosterPayload["roster"].([]any)
	for _, r := range rosterRaw {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}
		player, ok := sp.buildPlayer(entry, year)
		if !ok {
			continue
		}
		if player.Position == "P" {
			pitchers = append(pitchers, player)
		} else {
			batters = append(batters, player)
		}
	}
	if len(batters) == 0 {
		return nil, fmt.Errorf("roster for %s (%d): no position players with stats", name, year)
	}

	leaders, err := sp.PitchingLeaders(ctx, teamID, year)
	if err != nil {
		log.Printf("pitching leaders for %s (%d): %v", name, year, err)
		leaders = nil
	}
	pitcher, err := SelectStartingPitcher(leaders, pitchers)
	if err != nil {
		return nil, fmt.Errorf("roster for %s (%d): %w", name, year, err)
	}

	arsenal, err := sp.PitcherArsenal(ctx, pitcher.ID, year)
	if err != nil {
		log.Printf("arsenal for %s: %v", pitcher.Name, err)
		arsenal = DefaultArsenal()
	}

	venue, err := sp.VenueForTeam(ctx, teamID, year)
	if err != nil {
		log.Printf("venue for %s (%d): %v", name, year, err)
		venue = DefaultVenue()
	}

	lineup := OptimizeLineup(batters)
	return &TeamRoster{
		ID:      teamID,
		Name:    name,
		Year:    year,
		Lineup:  lineup,
		Defense: AssignDefense(lineup),
		Pitcher: pitcher,
		Arsenal: arsenal,
		Venue:   venue,
	}, nil
}

// buildPlayer converts one hydrated roster entry into a Player with a
// batting or pitching snapshot. Entries with no career stats are skipped.
func (sp *StatsProvider) buildPlayer(entry map[string]any, year int) (Player, bool) {
	person, ok := entry["person"].(map[string]any)
	if !ok {
		return Player{}, false
	}
	id := statInt(person, "id", 0)
	fullName := statString(person, "fullName", "")
	primary, _ := person["primaryPosition"].(map[string]any)
	position := statString(primary, "abbreviation", "")
	if id == 0 || fullName == "" || position == "" {
		return Player{}, false
	}

	group := "hitting"
	if position == "P" {
		group = "pitching"
	}

	sections, _ := person["stats"].([]any)
	basic := firstSplitStat(findStatSection(sections, "career", group))
	if basic == nil {
		return Player{}, false
	}

	combined := make(map[string]any, len(basic))
	for k, v := range basic {
		combined[k] = v
	}
	for k, v := range firstSplitStat(findStatSection(sections, "careerAdvanced", group)) {
		combined[k] = v
	}
	for k, v := range firstSplitStat(findStatSection(sections, "sabermetrics", group)) {
		combined[k] = v
	}
	for k, v := range aggregateMetrics(sections) {
		combined[k] = v
	}

	if position == "P" {
		hand, _ := person["pitchHand"].(map[string]any)
		combined["pitchSide"] = statString(hand, "code", "R")
	} else {
		side, _ := person["batSide"].(map[string]any)
		combined["batSide"] = statString(side, "code", "R")
	}

	player := Player{ID: id, Name: fullName, Position: position, Year: year}
	if position == "P" {
		player.Stats = PitchingStats(PitchingSnapshotFromStats(combined, year))
	} else {
		player.Stats = BattingStats(BattingSnapshotFromStats(combined, year))
	}
	return player, true
}
