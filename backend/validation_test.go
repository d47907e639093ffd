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
	"testing"
	"time"
)

func TestIsValidUUID(t *testing.T) {
	if !isValidUUID("10000000-0000-4000-8000-000000000001") {
		t.Error("Valid UUID rejected")
	}
	for _, bad := range []string{"", "not-a-uuid", "10000000-0000-4000-8000-00000000000g", "../../etc/passwd"} {
		if isValidUUID(bad) {
			t.Errorf("Invalid UUID accepted: %q", bad)
		}
	}
}

func TestValidateMatchupRequest(t *testing.T) {
	good := &MatchupRequest{AwayTeamID: 121, AwayYear: 1986, HomeTeamID: 147, HomeYear: 1998}
	if err := ValidateMatchupRequest(good); err != nil {
		t.Errorf("Valid request rejected: %v", err)
	}

	// The same franchise on both sides is a legitimate cross-era matchup.
	sameTeam := &MatchupRequest{AwayTeamID: 147, AwayYear: 1927, HomeTeamID: 147, HomeYear: 1998}
	if err := ValidateMatchupRequest(sameTeam); err != nil {
		t.Errorf("Same-franchise matchup rejected: %v", err)
	}

	cases := []struct {
		name string
		req  *MatchupRequest
	}{
		{"nil", nil},
		{"unknown away team", &MatchupRequest{AwayTeamID: 999, AwayYear: 1986, HomeTeamID: 147, HomeYear: 1998}},
		{"unknown home team", &MatchupRequest{AwayTeamID: 121, AwayYear: 1986, HomeTeamID: 1, HomeYear: 1998}},
		{"year before the modern era", &MatchupRequest{AwayTeamID: 121, AwayYear: 1871, HomeTeamID: 147, HomeYear: 1998}},
		{"future year", &MatchupRequest{AwayTeamID: 121, AwayYear: time.Now().Year() + 1, HomeTeamID: 147, HomeYear: 1998}},
		{"zero year", &MatchupRequest{AwayTeamID: 121, AwayYear: 1986, HomeTeamID: 147}},
	}
	for _, c := range cases {
		if err := ValidateMatchupRequest(c.req); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

