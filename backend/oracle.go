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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Oracle proposes the outcome of one at-bat given the full game context.
// Its reply is untrusted free text: everything it returns goes through the
// sanitizer before the engine sees it.
type Oracle interface {
	ProposePlay(ctx context.Context, pc PlayContext) (string, error)
}

// PlayContext is everything the oracle gets to see for one at-bat.
type PlayContext struct {
	BattingTeam  string             `json:"batting_team"`
	FieldingTeam string             `json:"fielding_team"`
	Batter       string             `json:"batter"`
	Pitcher      string             `json:"pitcher"`
	Inning       int                `json:"inning"`
	Half         string             `json:"half"`
	Outs         int                `json:"outs"`
	Score        map[string]int     `json:"score"`
	Bases        string             `json:"bases"`
	HomeYear     int                `json:"home_year"`
	Batting      NormalizedBatting  `json:"normalized_batter"`
	Pitching     NormalizedPitching `json:"normalized_pitcher"`
	Arsenal      PitchArsenal       `json:"arsenal"`
}

// BuildPlayPrompt renders the natural-language request sent to the
// decision oracle. The reply contract it states matches what the sanitizer
// expects back.
func BuildPlayPrompt(pc PlayContext) string {
	arsenal := pc.Arsenal
	if len(arsenal.Pitches) == 0 {
		arsenal = DefaultArsenal()
	}
	var arsenalDesc []string
	for _, code := range sortedPitchCodes(arsenal.Pitches) {
		p := arsenal.Pitches[code]
		arsenalDesc = append(arsenalDesc, fmt.Sprintf("%s (%.1f%%, %.1f mph)", p.Name, p.Percentage, p.AvgSpeed))
	}

	batterStats, _ := json.Marshal(pc.Batting)
	pitcherStats, _ := json.Marshal(pc.Pitching)
	score, _ := json.Marshal(pc.Score)
	codes := strings.Join(rawPitchCodes, "|")

	var b strings.Builder
	fmt.Fprintf(&b, "Simulate the final result of an at-bat between %s of the %s and %s of the %s.\n",
		pc.Batter, pc.BattingTeam, pc.Pitcher, pc.FieldingTeam)
	fmt.Fprintf(&b, "This game is taking place between teams of different eras, so stats for the players have been normalized for the year %d.\n\n", pc.HomeYear)
	b.WriteString("Use the normalized stats. Give heavy weighting to strong contact hitters and sluggers for successful at-bat results.\n")
	b.WriteString("Do not assume the pitcher knows any of the batter's statistics or tendencies. Each player plays to their own strengths and weaknesses.\n\n")
	fmt.Fprintf(&b, "Game Situation:\nInning: %d (%s)\nOuts: %d\nScore: %s\nBase Runners: %s\n\n",
		pc.Inning, pc.Half, pc.Outs, score, pc.Bases)
	fmt.Fprintf(&b, "Batter Normalized Stats: %s\n\nPitcher Normalized Stats: %s\n\n", batterStats, pitcherStats)
	fmt.Fprintf(&b, "Pitch Arsenal: %s\n\n", strings.Join(arsenalDesc, " | "))
	b.WriteString("Rules for generating your response:\n")
	b.WriteString("- When considering a fielded out, sometimes choose a hit type instead. Not all batted balls are fielded out.\n")
	b.WriteString("- Your rationale should ONLY discuss the batter/pitcher matchup and game situation.\n")
	b.WriteString("- Generate a logical pitch sequence using the provided pitch arsenal and game situation.\n")
	fmt.Fprintf(&b, "- Strikeouts require %d strikes, walks require %d balls.\n", MaxStrikes, MaxBalls)
	b.WriteString("- Return pitch codes only, not pitch names.\n")
	b.WriteString("- Do not specify fielding positions or hit locations.\n\n")
	b.WriteString("Use ONLY this JSON format for your reply:\n")
	fmt.Fprintf(&b, "```json\n{\n    \"final_play\": {\n        \"final_pitch\": \"One of %s\",\n", codes)
	b.WriteString("        \"final_result\": \"strikeout|walk|hit|fielded out\",\n")
	b.WriteString("        \"final_hit\": \"singles|doubles|triples|hits a home run\",\n")
	b.WriteString("        \"final_fielded_out\": \"grounds out|flies out|lines out\",\n")
	b.WriteString("        \"final_rationale\": \"Statistical analysis of the overall play result\"\n    },\n")
	fmt.Fprintf(&b, "    \"pitches\": {\n        \"pitch1\": {\n            \"play_result\": \"strike|ball\",\n            \"pitch_type\": \"One of %s\"\n        }\n    }\n}\n```", codes)
	return b.String()
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, pc PlayContext) (string, error)

func (f OracleFunc) ProposePlay(ctx context.Context, pc PlayContext) (string, error) {
	return f(ctx, pc)
}

// HTTPOracle asks a text-completion service for play outcomes. The reply
// body is returned verbatim; the sanitizer deals with whatever comes back.
type HTTPOracle struct {
	URL    string
	Client *http.Client
}

func NewHTTPOracle(url string) *HTTPOracle {
	return &HTTPOracle{
		URL:    url,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *HTTPOracle) ProposePlay(ctx context.Context, pc PlayContext) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": BuildPlayPrompt(pc)})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", o.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("POST %s: %s", o.URL, resp.Status)
	}
	var reply struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("decode oracle reply: %w", err)
	}
	return reply.Text, nil
}
