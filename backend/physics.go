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
	"math"
	"math/rand"
)

// pitchTypeDelta adjusts a pitcher's release speed for the pitch thrown.
// Off-speed pitches subtract; fastballs add a touch.
var pitchTypeDelta = map[string]float64{
	"FF": 1.5,
	"FT": 1.0,
	"SI": 1.0,
	"FC": -2.0,
	"SL": -5.0,
	"ST": -5.0,
	"CH": -8.0,
	"CU": -8.0,
	"KC": -8.0,
	"SF": -4.0,
	"FS": -4.0,
	"EP": -20.0,
	"KN": -20.0,
}

// EstimatePitchVelocity derives a plausible velocity for one pitch from
// the pitcher's release-speed band, the pitch type, and a little jitter.
// The result stays within the pitcher's observed band and within 10% of
// their average.
func EstimatePitchVelocity(p PitchingSnapshot, pitchType string, rng *rand.Rand) float64 {
	release := p.ReleaseSpeed
	effective := p.EffectiveSpeed
	if release.Avg == 0 {
		release = MetricBand{Avg: 90.0, Min: 80.0, Max: 100.0}
	}
	if effective.Avg == 0 {
		effective = MetricBand{Avg: 88.0, Min: 78.0, Max: 98.0}
	}

	velocity := release.Avg
	velocity += pitchTypeDelta[pitchType]

	// Blend 10% toward effective speed: perceived velocity drags the
	// estimate for pitchers with long extension.
	velocity += (effective.Avg - velocity) * 0.1

	if release.Min != 0 && release.Max != 0 {
		velocity = clamp(velocity, release.Min, release.Max)
	} else {
		velocity = clamp(velocity, effective.Min, effective.Max)
	}

	if release.Avg > 0 {
		ratio := clamp(velocity/release.Avg, 0.9, 1.1)
		velocity = release.Avg * ratio
	}

	velocity += rng.Float64()*2.0 - 1.0
	return roundN(velocity, 1)
}

// exitVelocityBase converts pitch speed into a raw exit speed before
// batter adjustments: harder pitches come off the bat hotter.
func exitVelocityBase(pitchVelocity float64) float64 {
	multiplier := 1.45
	switch {
	case pitchVelocity < 80:
		multiplier = 1.35
	case pitchVelocity < 90:
		multiplier = 1.40
	}
	return pitchVelocity*multiplier - 20
}

// EstimateExitVelocity derives exit velocity for a ball in play from the
// pitch speed and the batter's observed launch-speed band.
func EstimateExitVelocity(b BattingSnapshot, pitchVelocity float64, rng *rand.Rand) float64 {
	launch := b.LaunchSpeed
	if launch.Avg == 0 {
		launch = MetricBand{Avg: 88.0, Min: 65.0, Max: 115.0}
	}

	exitVelocity := exitVelocityBase(pitchVelocity)

	historicalFactor := (launch.Avg - 85) / 25
	exitVelocity *= 0.85 + 0.3*historicalFactor

	exitVelocity += (pitchVelocity - 90) * 0.3
	exitVelocity += rng.Float64()*6.0 - 3.0

	exitVelocity = clamp(exitVelocity, launch.Min, launch.Max)
	return roundN(exitVelocity, 1)
}

// spraySectors are the lateral slices of the field a ball can be hit to.
var spraySectors = []string{"left line", "left center", "center", "right center", "right line"}

// sectorHomeRunLabel names the stands a home run lands in.
var sectorHomeRunLabel = map[string]string{
	"left line":    "Left Field",
	"left center":  "Left Center Field",
	"center":       "Center Field",
	"right center": "Right Center Field",
	"right line":   "Right Field",
}

// sectorPositions lists the fielders who could make a play in each sector,
// nearest-distance wins.
var sectorPositions = map[string][]string{
	"left line":    {"third base", "left field"},
	"left center":  {"shortstop", "left field"},
	"center":       {"second base", "center field", "pitcher"},
	"right center": {"first base", "right field"},
	"right line":   {"first base", "right field"},
}

// positionDepth is the typical fielding depth in feet per position.
var positionDepth = map[string]float64{
	"pitcher":      55,
	"first base":   90,
	"second base":  140,
	"shortstop":    140,
	"third base":   90,
	"left field":   300,
	"center field": 400,
	"right field":  300,
}

// CalculateHit turns an exit velocity into a landing distance and a field
// location, shaped by the pitcher's typical launch angle against, the
// batter's typical carry, and the park. Home runs are re-drawn into the
// band just beyond the sector's fence.
func CalculateHit(b BattingSnapshot, p PitchingSnapshot, exitVelocity float64, hitType string, venue VenueProfile, rng *rand.Rand) (float64, string) {
	launchAngle := p.LaunchAngle.Avg
	if p.LaunchAngle == (MetricBand{}) {
		launchAngle = 12.0
	}

	sector := spraySectors[rng.Intn(len(spraySectors))]

	distance := exitVelocity*exitVelocity*0.025 + exitVelocity*1.5

	switch {
	case launchAngle < 0:
		distance *= 0.4 // chopped into the ground
	case launchAngle < 10:
		distance *= 0.7
	case launchAngle < 20:
		distance *= 0.9
	case launchAngle < 30:
		distance *= 1.05 // optimal carry window
	case launchAngle < 40:
		distance *= 0.95
	case launchAngle < 50:
		distance *= 0.85
	default:
		distance *= 0.7
	}

	// Thin air carries the ball; dampened because games are not played in
	// a vacuum chamber.
	elevationFactor := 1.0 + float64(venue.Elevation)/5280*0.08
	distance *= 1 + (elevationFactor-1)*0.7

	velocityFactor := (exitVelocity - 85) * 1.5
	if exitVelocity > 100 {
		velocityFactor *= 1.1
	}

	avgDistance := b.Distance.Avg
	if avgDistance == 0 {
		avgDistance = 200.0
	}
	historicalFactor := (avgDistance - 200) / 80
	distance = distance*(0.9+0.2*historicalFactor) + velocityFactor

	if launchAngle < 10 {
		turfFactor := 1.0
		switch venue.TurfType {
		case "Artificial Turf":
			turfFactor = 1.1
		case "Dirt":
			turfFactor = 0.9
		}
		distance = math.Min(distance*turfFactor, MaxInfieldDistance)
	} else {
		distance = math.Min(distance, MaxHitDistance)
	}

	if hitType == HitHomeRun {
		fence := float64(venue.FenceDistance(sector))
		high := math.Min(fence+HomeRunRedrawBand, MaxHitDistance)
		if high <= fence {
			return fence, sectorHomeRunLabel[sector]
		}
		hrDistance := fence + rng.Float64()*(high-fence)
		return math.Round(hrDistance), sectorHomeRunLabel[sector]
	}

	positions := sectorPositions[sector]
	location := positions[0]
	bestDiff := math.Abs(positionDepth[location] - distance)
	for _, pos := range positions[1:] {
		if diff := math.Abs(positionDepth[pos] - distance); diff < bestDiff {
			location, bestDiff = pos, diff
		}
	}

	return roundN(distance, 1), location
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
