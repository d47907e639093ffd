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
	"regexp"
	"strings"
)

// Count caps. A pitch that reaches a cap is the last pitch of the at-bat.
const (
	MaxStrikes = 2
	MaxBalls   = 3
	MaxPitches = 7
)

// Innings. Regulation plus a bounded extra-innings window; a tie at the
// bottom-half boundary extends the tracked inning ceiling by one until the
// window is spent.
const (
	DefaultRegulationInnings = 2
	DefaultExtraInnings      = 2
)

// Pitch calls recorded per pitch in a sanitized sequence. Fouls are
// recorded as strikes; they never occur past the strike cap.
const (
	CallStrike = "strike"
	CallBall   = "ball"
	CallInPlay = "in_play"
)

// Canonical at-bat results.
const (
	ResultHit        = "hit"
	ResultFieldedOut = "fielded out"
	ResultStrikeout  = "strikeout"
	ResultWalk       = "walk"
)

// Canonical hit classifications.
const (
	HitSingle  = "singles"
	HitDouble  = "doubles"
	HitTriple  = "triples"
	HitHomeRun = "hits a home run"
)

// Canonical fielded-out classifications.
const (
	OutGround = "grounds out"
	OutFly    = "flies out"
	OutLine   = "lines out"
	OutPop    = "pops out"
)

// DefaultPitchType is substituted when a proposed play names no usable
// pitch.
const (
	DefaultPitchType     = "FF"
	DefaultPitchName     = "Four-Seam Fastball"
	DefaultPitchVelocity = 92.5
)

// Physical bounds for calculated ball flight, in feet.
const (
	MaxHitDistance     = 500.0
	MaxInfieldDistance = 150.0
	HomeRunRedrawBand  = 75.0
)

// DefaultPlayDelaySeconds paces committed plays so playback clients can
// keep up.
const DefaultPlayDelaySeconds = 4

// hitTerms identify a hit in free-form play text, most specific first.
var hitTerms = []string{
	HitHomeRun,
	"home run",
	HitSingle,
	HitDouble,
	HitTriple,
	"single",
	"double",
	"triple",
	"hit",
}

// outTerms identify a fielded out in free-form play text.
var outTerms = []string{
	OutGround,
	OutFly,
	OutLine,
	OutPop,
	"ground out",
	"fly out",
	"line out",
	"pop out",
	"groundout",
	"flyout",
	"lineout",
	"popout",
	"fielded out",
	"out",
}

var strikeoutTerms = []string{
	"strikeout",
	"strike out",
	"strikes out",
	"struck out",
	"punch out",
	"punches out",
}

var walkTerms = []string{
	"walk",
	"walks",
	"base on balls",
	"bb",
}

// inPlayTerms end a pitch sequence: any of these in a pitch's own result
// means the ball was put in play on that pitch. Fouls are excluded.
var inPlayTerms = []string{
	"hit",
	"single",
	"double",
	"triple",
	"home run",
	"ground",
	"fly",
	"line",
	"pop",
	"bunt",
	"out",
}

type termPattern struct {
	re    *regexp.Regexp
	canon string
}

// actionPatterns map free-form play descriptions onto the canonical result
// vocabulary. First match wins, so specific phrasings come before loose
// ones.
var actionPatterns = []termPattern{
	{regexp.MustCompile(`(?i)\bhits?\s+a\s+home\s*run\b`), HitHomeRun},
	{regexp.MustCompile(`(?i)\bhome\s*run\b`), HitHomeRun},
	{regexp.MustCompile(`(?i)\bhomers?\b`), HitHomeRun},
	{regexp.MustCompile(`(?i)\btriples?\b`), HitTriple},
	{regexp.MustCompile(`(?i)\bdoubles?\b`), HitDouble},
	{regexp.MustCompile(`(?i)\bsingles?\b`), HitSingle},
	{regexp.MustCompile(`(?i)\bgrounds?\s*(out|into)\b`), OutGround},
	{regexp.MustCompile(`(?i)\bground\s*(ball\s*)?out\b`), OutGround},
	{regexp.MustCompile(`(?i)\bflies\s*out\b`), OutFly},
	{regexp.MustCompile(`(?i)\bfly\s*(ball\s*)?out\b`), OutFly},
	{regexp.MustCompile(`(?i)\blines?\s*out\b`), OutLine},
	{regexp.MustCompile(`(?i)\bpops?\s*(out|up)\b`), OutPop},
	{regexp.MustCompile(`(?i)\bstrikes?\s*out\b`), ResultStrikeout},
	{regexp.MustCompile(`(?i)\bstruck\s*out\b`), ResultStrikeout},
	{regexp.MustCompile(`(?i)\bstrikeout\b`), ResultStrikeout},
	{regexp.MustCompile(`(?i)\bwalks?\b`), ResultWalk},
	{regexp.MustCompile(`(?i)\bbase\s+on\s+balls\b`), ResultWalk},
	{regexp.MustCompile(`(?i)\bhits?\b`), ResultHit},
}

// locationPatterns map free-form locations onto canonical field areas.
var locationPatterns = []termPattern{
	{regexp.MustCompile(`(?i)\bleft[\s-]*center\b`), "left-center field"},
	{regexp.MustCompile(`(?i)\bright[\s-]*center\b`), "right-center field"},
	{regexp.MustCompile(`(?i)\bleft\s*field\b|\bleft\b|\blf\b`), "left field"},
	{regexp.MustCompile(`(?i)\bright\s*field\b|\bright\b|\brf\b`), "right field"},
	{regexp.MustCompile(`(?i)\bcenter\s*field\b|\bcenter\b|\bcf\b`), "center field"},
	{regexp.MustCompile(`(?i)\bshortstop\b|\bss\b`), "shortstop"},
	{regexp.MustCompile(`(?i)\bthird\s*base\b|\b3b\b`), "third base"},
	{regexp.MustCompile(`(?i)\bsecond\s*base\b|\b2b\b`), "second base"},
	{regexp.MustCompile(`(?i)\bfirst\s*base\b|\b1b\b`), "first base"},
	{regexp.MustCompile(`(?i)\bpitcher\b|\bmound\b`), "pitcher"},
	{regexp.MustCompile(`(?i)\bcatcher\b|\bplate\b`), "catcher"},
	{regexp.MustCompile(`(?i)\binfield\b`), "infield"},
	{regexp.MustCompile(`(?i)\boutfield\b`), "center field"},
}

// MapAction normalizes a free-form play description to the canonical
// vocabulary. The input is returned unchanged when nothing matches.
func MapAction(text string) string {
	for _, p := range actionPatterns {
		if p.re.MatchString(text) {
			return p.canon
		}
	}
	return text
}

// MapLocation normalizes a free-form field location. Defaults to center
// field when nothing matches.
func MapLocation(text string) string {
	for _, p := range locationPatterns {
		if p.re.MatchString(text) {
			return p.canon
		}
	}
	return "center field"
}

func containsTerm(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// IsHitResult reports whether the text describes any hit.
func IsHitResult(text string) bool { return containsTerm(text, hitTerms) }

// IsOutResult reports whether the text describes a fielded out.
func IsOutResult(text string) bool { return containsTerm(text, outTerms) }

// IsStrikeoutResult reports whether the text describes a strikeout.
func IsStrikeoutResult(text string) bool { return containsTerm(text, strikeoutTerms) }

// IsWalkResult reports whether the text describes a walk.
func IsWalkResult(text string) bool { return containsTerm(text, walkTerms) }

// IsBallInPlay reports whether a single pitch's result text describes the
// ball being put in play. Fouls are not in play.
func IsBallInPlay(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "foul") {
		return false
	}
	return containsTerm(lower, inPlayTerms)
}

var outfieldLocations = map[string]bool{
	"left field":         true,
	"center field":       true,
	"right field":        true,
	"left-center field":  true,
	"right-center field": true,
	"LF":                 true,
	"CF":                 true,
	"RF":                 true,
}

// IsOutfieldLocation reports whether a canonical location is deep enough
// for a tagging runner to score on a fly out.
func IsOutfieldLocation(loc string) bool {
	if outfieldLocations[loc] {
		return true
	}
	return strings.Contains(strings.ToLower(loc), "field")
}

// RequiredPositions is the defensive alignment filled when building a
// lineup, in assignment order.
var RequiredPositions = []string{"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF"}

// outfieldPositions can stand in for any unfilled outfield slot.
var outfieldPositions = map[string]bool{"LF": true, "CF": true, "RF": true, "OF": true}

// Teams maps MLB team IDs to franchise names. IDs outside this map are
// rejected at the API boundary.
var Teams = map[int]string{
	108: "Los Angeles Angels",
	109: "Arizona Diamondbacks",
	110: "Baltimore Orioles",
	111: "Boston Red Sox",
	112: "Chicago Cubs",
	113: "Cincinnati Reds",
	114: "Cleveland Guardians",
	115: "Colorado Rockies",
	116: "Detroit Tigers",
	117: "Houston Astros",
	118: "Kansas City Royals",
	119: "Los Angeles Dodgers",
	120: "Washington Nationals",
	121: "New York Mets",
	133: "Oakland Athletics",
	134: "Pittsburgh Pirates",
	135: "San Diego Padres",
	136: "Seattle Mariners",
	137: "San Francisco Giants",
	138: "St. Louis Cardinals",
	139: "Tampa Bay Rays",
	140: "Texas Rangers",
	141: "Toronto Blue Jays",
	142: "Minnesota Twins",
	143: "Philadelphia Phillies",
	144: "Atlanta Braves",
	145: "Chicago White Sox",
	146: "Miami Marlins",
	147: "New York Yankees",
	158: "Milwaukee Brewers",
}
