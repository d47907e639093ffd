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
	"testing"
)

func TestEstimatePitchVelocityStaysInBand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := DefaultPitchingSnapshot(2023)

	for _, code := range []string{"FF", "SL", "CH", "KN", "XX"} {
		for i := 0; i < 100; i++ {
			v := EstimatePitchVelocity(p, code, rng)
			if v < p.ReleaseSpeed.Min-1.0 || v > p.ReleaseSpeed.Max+1.0 {
				t.Fatalf("%s: velocity %.1f outside band [%.1f, %.1f]",
					code, v, p.ReleaseSpeed.Min, p.ReleaseSpeed.Max)
			}
			// Within 10% of the pitcher's average, plus jitter.
			if v < p.ReleaseSpeed.Avg*0.9-1.0 || v > p.ReleaseSpeed.Avg*1.1+1.0 {
				t.Fatalf("%s: velocity %.1f strays more than 10%% from avg %.1f",
					code, v, p.ReleaseSpeed.Avg)
			}
		}
	}
}

func TestEstimatePitchVelocityOffSpeedIsSlower(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := DefaultPitchingSnapshot(2023)

	var fastball, knuckler float64
	for i := 0; i < 200; i++ {
		fastball += EstimatePitchVelocity(p, "FF", rng)
		knuckler += EstimatePitchVelocity(p, "KN", rng)
	}
	if knuckler >= fastball {
		t.Errorf("Knuckleball averaged %.1f, fastball %.1f; off-speed should be slower",
			knuckler/200, fastball/200)
	}
}

func TestEstimatePitchVelocityMissingBands(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var p PitchingSnapshot // pre-tracking era, no bands at all

	v := EstimatePitchVelocity(p, "FF", rng)
	if v < 60 || v > 110 {
		t.Errorf("Velocity %.1f implausible for the fallback band", v)
	}
}

func TestEstimateExitVelocityClampsToLaunchBand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := DefaultBattingSnapshot(2023)

	for _, pitchV := range []float64{65.0, 85.0, 99.0} {
		for i := 0; i < 100; i++ {
			ev := EstimateExitVelocity(b, pitchV, rng)
			if ev < b.LaunchSpeed.Min || ev > b.LaunchSpeed.Max {
				t.Fatalf("pitch %.0f: exit velocity %.1f outside [%.1f, %.1f]",
					pitchV, ev, b.LaunchSpeed.Min, b.LaunchSpeed.Max)
			}
		}
	}
}

func TestCalculateHitCaps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := DefaultBattingSnapshot(2023)
	p := DefaultPitchingSnapshot(2023)
	venue := DefaultVenue()

	// Low launch angle keeps the ball on the infield.
	p.LaunchAngle = MetricBand{Avg: 4.0, Min: -10, Max: 20}
	for i := 0; i < 100; i++ {
		d, loc := CalculateHit(b, p, 115.0, HitSingle, venue, rng)
		if d > MaxInfieldDistance {
			t.Fatalf("Ground ball travelled %.1f ft, cap is %.0f", d, MaxInfieldDistance)
		}
		if loc == "" {
			t.Fatal("Hit has no location")
		}
	}

	// Even an absurd exit velocity in the air stays under the hard cap.
	p.LaunchAngle = MetricBand{Avg: 27.0, Min: 10, Max: 45}
	b.Distance = MetricBand{Avg: 300.0, Min: 100, Max: 450}
	for i := 0; i < 100; i++ {
		d, _ := CalculateHit(b, p, 120.0, HitDouble, venue, rng)
		if d > MaxHitDistance {
			t.Fatalf("Fly ball travelled %.1f ft, cap is %.0f", d, MaxHitDistance)
		}
	}
}

func TestCalculateHitHomeRunClearsFence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := DefaultBattingSnapshot(2023)
	p := DefaultPitchingSnapshot(2023)
	venue := DefaultVenue()

	shortest := float64(venue.RightLine)
	for i := 0; i < 200; i++ {
		d, loc := CalculateHit(b, p, 95.0, HitHomeRun, venue, rng)
		if d < shortest {
			t.Fatalf("Home run landed %.1f ft out, shortest fence is %.0f", d, shortest)
		}
		if d > MaxHitDistance {
			t.Fatalf("Home run travelled %.1f ft, cap is %.0f", d, MaxHitDistance)
		}
		if loc == "" || loc == "shortstop" {
			t.Fatalf("Home run location %q is not in the stands", loc)
		}
	}
}

func TestCalculateHitElevationCarries(t *testing.T) {
	b := DefaultBattingSnapshot(2023)
	p := DefaultPitchingSnapshot(2023)
	p.LaunchAngle = MetricBand{Avg: 25.0, Min: 10, Max: 45}

	seaLevel := DefaultVenue()
	seaLevel.Elevation = 0
	altitude := DefaultVenue()
	altitude.Elevation = 5280 // Coors

	var lowSum, highSum float64
	for i := 0; i < 200; i++ {
		d1, _ := CalculateHit(b, p, 95.0, HitDouble, seaLevel, rand.New(rand.NewSource(int64(i))))
		d2, _ := CalculateHit(b, p, 95.0, HitDouble, altitude, rand.New(rand.NewSource(int64(i))))
		lowSum += d1
		highSum += d2
	}
	if highSum <= lowSum {
		t.Errorf("Altitude average %.1f not above sea-level average %.1f", highSum/200, lowSum/200)
	}
}
