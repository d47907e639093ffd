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
	"regexp"
	"time"
)

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// MinSeasonYear is the first season with usable league-wide records.
const MinSeasonYear = 1901

// MatchupRequest is the POST body that starts a game: each side is a
// franchise paired with the season whose roster and stats it brings.
type MatchupRequest struct {
	AwayTeamID int `json:"awayTeamId"`
	AwayYear   int `json:"awayYear"`
	HomeTeamID int `json:"homeTeamId"`
	HomeYear   int `json:"homeYear"`
}

func validateTeamID(id int, name string) error {
	if _, ok := Teams[id]; !ok {
		return fmt.Errorf("unknown %s team ID: %d", name, id)
	}
	return nil
}

func validateSeasonYear(year int, name string) error {
	if year < MinSeasonYear || year > time.Now().Year() {
		return fmt.Errorf("invalid %s season year: %d", name, year)
	}
	return nil
}

// ValidateMatchupRequest checks that both sides name a known franchise and
// a playable season. The same franchise may appear on both sides; cross-era
// games of a club against itself are the point.
func ValidateMatchupRequest(req *MatchupRequest) error {
	if req == nil {
		return fmt.Errorf("missing request body")
	}
	if err := validateTeamID(req.AwayTeamID, "away"); err != nil {
		return err
	}
	if err := validateTeamID(req.HomeTeamID, "home"); err != nil {
		return err
	}
	if err := validateSeasonYear(req.AwayYear, "away"); err != nil {
		return err
	}
	if err := validateSeasonYear(req.HomeYear, "home"); err != nil {
		return err
	}
	return nil
}
