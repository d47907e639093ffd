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
	"encoding/json"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The oracle replies in prose with a fenced JSON block that is frequently
// malformed: nulls where strings belong, arrays where objects belong,
// unquoted keys. The sanitizer repairs what it can and substitutes a
// league-average outcome for what it cannot. It never returns an error:
// every payload, including garbage, yields a valid play.

// PitchDetail is one sanitized pitch of an at-bat.
type PitchDetail struct {
	PitchType string  `json:"pitch_type"`
	Call      string  `json:"call"`
	Velocity  float64 `json:"velocity"`
}

// FinalPlay is the sanitized terminal outcome of an at-bat. Exactly one of
// Hit and FieldedOut is non-empty, and only when Result warrants it.
type FinalPlay struct {
	Pitch      string `json:"final_pitch"`
	Result     string `json:"final_result"`
	Hit        string `json:"final_hit"`
	FieldedOut string `json:"final_fielded_out"`
	Rationale  string `json:"final_rationale"`
}

// Sanitizer repairs oracle payloads. The random source drives fallback
// outcomes and default pitch sequences, so a fixed seed gives a
// reproducible game.
type Sanitizer struct {
	rng *rand.Rand
}

func NewSanitizer(rng *rand.Rand) *Sanitizer {
	return &Sanitizer{rng: rng}
}

// rawPitchCodes seed default pitch sequences.
var rawPitchCodes = []string{"FF", "FT", "FC", "SL", "CH", "CU", "KC", "SF", "EP", "KN"}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	bareKeyRe    = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	pitchNumRe   = regexp.MustCompile(`\d+`)
)

// repairJSON applies the blunt substitutions that fix the oracle's usual
// mistakes: nulls for strings, brackets for braces, unquoted keys, and
// trailing commas.
func repairJSON(s string) string {
	s = strings.ReplaceAll(s, "null", `""`)
	s = strings.ReplaceAll(s, "[{", "{")
	s = strings.ReplaceAll(s, "}]", "}")
	s = strings.ReplaceAll(s, "[", "{")
	s = strings.ReplaceAll(s, "]", "}")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = strings.ReplaceAll(s, ",}", "}")
	return s
}

func parseRepaired(s string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, true
	}
	if err := json.Unmarshal([]byte(repairJSON(s)), &out); err == nil {
		return out, true
	}
	return nil, false
}

// ExtractPitchSequence pulls the pitch-by-pitch record out of an oracle
// payload, enforcing the count caps. Unusable payloads yield a default
// three-pitch sequence.
func (s *Sanitizer) ExtractPitchSequence(payload string) []PitchDetail {
	m := fencedJSONRe.FindStringSubmatch(payload)
	if m == nil {
		return s.DefaultPitchSequence(3)
	}
	data, ok := parseRepaired(m[1])
	if !ok {
		return s.DefaultPitchSequence(3)
	}

	var pitches map[string]any
	switch t := data["pitches"].(type) {
	case map[string]any:
		pitches = t
	case []any:
		if len(t) == 0 {
			return s.DefaultPitchSequence(3)
		}
		if inner, ok := t[0].(map[string]any); ok {
			pitches = inner
		} else if str, ok := t[0].(string); ok {
			pitches, _ = parseRepaired(str)
		}
	case string:
		pitches, _ = parseRepaired(t)
	}
	if len(pitches) == 0 {
		return s.DefaultPitchSequence(3)
	}

	return s.walkPitchSequence(pitches)
}

// sortPitchKeys orders "pitch1", "pitch2", ... by numeric suffix; keys
// without a number sort last in lexical order.
func sortPitchKeys(pitches map[string]any) []string {
	keys := make([]string, 0, len(pitches))
	for k := range pitches {
		keys = append(keys, k)
	}
	num := func(k string) int {
		m := pitchNumRe.FindString(k)
		if m == "" {
			return 1 << 30
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 1 << 30
		}
		return n
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := num(keys[i]), num(keys[j])
		if ni != nj {
			return ni < nj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// walkPitchSequence replays the proposed pitches in order, keeping only
// those consistent with the count caps. A pitch that reaches a cap is the
// last pitch kept; a ball put in play truncates the sequence.
func (s *Sanitizer) walkPitchSequence(pitches map[string]any) []PitchDetail {
	var kept []PitchDetail
	strikes, balls := 0, 0

	for _, key := range sortPitchKeys(pitches) {
		entry, ok := pitches[key].(map[string]any)
		if !ok {
			continue
		}
		result := strings.ToLower(strings.TrimSpace(statString(entry, "play_result", "")))
		if result == "" {
			return s.DefaultPitchSequence(3)
		}
		pitchType := strings.ToUpper(statString(entry, "pitch_type", DefaultPitchType))

		switch {
		case strings.Contains(result, "foul"):
			// A foul counts as a strike only while it cannot be the
			// strikeout pitch; otherwise it is dropped.
			if strikes < MaxStrikes-1 {
				strikes++
				kept = append(kept, PitchDetail{PitchType: pitchType, Call: CallStrike, Velocity: DefaultPitchVelocity})
			}

		case IsStrikeoutResult(result), strings.Contains(result, "strike"):
			strikes++
			kept = append(kept, PitchDetail{PitchType: pitchType, Call: CallStrike, Velocity: DefaultPitchVelocity})
			if strikes >= MaxStrikes {
				return capLength(kept)
			}

		case strings.Contains(result, "ball") && !IsBallInPlay(result):
			balls++
			kept = append(kept, PitchDetail{PitchType: pitchType, Call: CallBall, Velocity: DefaultPitchVelocity})
			if balls >= MaxBalls {
				return capLength(kept)
			}

		case IsBallInPlay(result):
			// The at-bat ended here; the terminal pitch is represented by
			// the final play, not the sequence.
			return capLength(kept)

		default:
			// Unrecognized call: drop the pitch rather than guess at the
			// count.
		}

		if len(kept) >= MaxPitches {
			return capLength(kept)
		}
	}

	if len(kept) == 0 {
		return s.DefaultPitchSequence(3)
	}
	return kept
}

func capLength(kept []PitchDetail) []PitchDetail {
	if len(kept) > MaxPitches {
		return kept[:MaxPitches]
	}
	return kept
}

// DefaultPitchSequence fabricates a plausible sequence of n pitches that
// respects the count caps.
func (s *Sanitizer) DefaultPitchSequence(n int) []PitchDetail {
	if n <= 0 {
		n = 3
	}
	if n > MaxPitches {
		n = MaxPitches
	}
	// The fabricated pitches precede the terminal pitch, so neither count
	// may reach its cap.
	strikes, balls := 0, 0
	out := make([]PitchDetail, 0, n)
	for i := 0; i < n; i++ {
		code := rawPitchCodes[s.rng.Intn(len(rawPitchCodes))]
		call := CallBall
		switch {
		case strikes >= MaxStrikes-1 && balls >= MaxBalls-1:
			return out
		case strikes >= MaxStrikes-1:
			call = CallBall
		case balls >= MaxBalls-1:
			call = CallStrike
		default:
			if s.rng.Float64() < 0.5 {
				call = CallStrike
			}
		}
		if call == CallStrike {
			strikes++
		} else {
			balls++
		}
		out = append(out, PitchDetail{PitchType: code, Call: call, Velocity: DefaultPitchVelocity})
	}
	return out
}

// ExtractFinalPlay pulls the terminal play out of an oracle payload and
// standardizes it. Unusable payloads yield a weighted league-average
// fallback.
func (s *Sanitizer) ExtractFinalPlay(payload string) FinalPlay {
	raw := payload
	if m := fencedJSONRe.FindStringSubmatch(payload); m != nil {
		raw = m[1]
	}
	data, ok := parseRepaired(raw)
	if !ok {
		return s.FallbackFinalPlay()
	}

	fp := findFinalPlay(data)
	if fp == nil {
		return s.FallbackFinalPlay()
	}

	play := FinalPlay{
		Pitch:      statString(fp, "final_pitch", DefaultPitchType),
		Result:     strings.ToLower(strings.TrimSpace(statString(fp, "final_result", ""))),
		Hit:        MapAction(strings.ToLower(statString(fp, "final_hit", ""))),
		FieldedOut: MapAction(strings.ToLower(statString(fp, "final_fielded_out", ""))),
		Rationale:  statString(fp, "final_rationale", ""),
	}
	return s.standardize(play)
}

func findFinalPlay(data map[string]any) map[string]any {
	if fp, ok := data["final_play"].(map[string]any); ok {
		return fp
	}
	// Some payloads put the fields at the top level.
	if _, ok := data["final_result"]; ok {
		return data
	}
	return nil
}

var canonicalHits = map[string]bool{
	HitSingle:  true,
	HitDouble:  true,
	HitTriple:  true,
	HitHomeRun: true,
}

var canonicalOuts = map[string]bool{
	OutGround:  true,
	OutFly:     true,
	OutLine:    true,
	OutPop:     true,
	"flys out": true,
}

var validResults = map[string]bool{
	ResultHit:        true,
	ResultFieldedOut: true,
	ResultStrikeout:  true,
	ResultWalk:       true,
}

// standardize forces a final play into the canonical vocabulary: the
// result decides which of Hit/FieldedOut survives, and anything
// unrecognizable becomes a single.
func (s *Sanitizer) standardize(play FinalPlay) FinalPlay {
	if canonicalOuts[play.FieldedOut] {
		play.Result = ResultFieldedOut
		play.Hit = ""
	}
	if canonicalHits[play.Hit] {
		play.Result = ResultHit
		play.FieldedOut = ""
	}
	if IsStrikeoutResult(play.Result) {
		play.Result = ResultStrikeout
		play.Hit = ""
		play.FieldedOut = ""
	}
	if play.Result == ResultWalk {
		play.Hit = ""
		play.FieldedOut = ""
	}
	if play.Result == ResultFieldedOut {
		if !canonicalOuts[play.FieldedOut] {
			play.FieldedOut = OutGround
		}
		play.Hit = ""
	}
	if play.Result == ResultHit {
		if !canonicalHits[play.Hit] {
			play.Hit = HitSingle
		}
		play.FieldedOut = ""
	}
	if !validResults[play.Result] {
		play.Result = ResultHit
		play.Hit = HitSingle
		play.FieldedOut = ""
		play.Rationale = "The batter hits a single."
	}
	if play.Pitch == "" {
		play.Pitch = DefaultPitchType
	}
	return play
}

// FallbackFinalPlay draws a league-average outcome when the payload is
// beyond repair.
func (s *Sanitizer) FallbackFinalPlay() FinalPlay {
	play := FinalPlay{
		Pitch:     DefaultPitchType,
		Rationale: "Result based on MLB averages",
	}
	roll := s.rng.Float64()
	switch {
	case roll < 0.25:
		play.Result = ResultHit
	case roll < 0.70:
		play.Result = ResultFieldedOut
	case roll < 0.93:
		play.Result = ResultStrikeout
	default:
		play.Result = ResultWalk
	}

	switch play.Result {
	case ResultHit:
		hits := []string{HitSingle, HitDouble, HitTriple, HitHomeRun}
		play.Hit = hits[s.rng.Intn(len(hits))]
	case ResultFieldedOut:
		outs := []string{OutGround, OutFly, OutLine}
		play.FieldedOut = outs[s.rng.Intn(len(outs))]
	}
	return play
}
