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

// VenueProfile carries the park dimensions and surface that feed hit
// distance calculations. Distances are fence depths in feet; elevation is
// feet above sea level.
type VenueProfile struct {
	Name        string `json:"name"`
	LeftLine    int    `json:"left_line"`
	LeftCenter  int    `json:"left_center"`
	Center      int    `json:"center"`
	RightCenter int    `json:"right_center"`
	RightLine   int    `json:"right_line"`
	Elevation   int    `json:"elevation"`
	TurfType    string `json:"turf_type"`
	RoofType    string `json:"roof_type"`
}

// DefaultVenue is a league-average open-air grass park.
func DefaultVenue() VenueProfile {
	return VenueProfile{
		Name:        "Unknown Venue",
		LeftLine:    332,
		LeftCenter:  375,
		Center:      405,
		RightCenter: 375,
		RightLine:   329,
		Elevation:   600,
		TurfType:    "grass",
		RoofType:    "open",
	}
}

// FenceDistance returns the fence depth for a spray sector.
func (v VenueProfile) FenceDistance(sector string) int {
	switch sector {
	case "left line":
		return v.LeftLine
	case "left center":
		return v.LeftCenter
	case "center":
		return v.Center
	case "right center":
		return v.RightCenter
	case "right line":
		return v.RightLine
	}
	return v.Center
}

// VenueFromAPI builds a profile from the provider's venue payload, filling
// gaps with league-average dimensions.
func VenueFromAPI(payload map[string]any) VenueProfile {
	v := DefaultVenue()
	venuesRaw, ok := payload["venues"].([]any)
	if !ok || len(venuesRaw) == 0 {
		return v
	}
	info, ok := venuesRaw[0].(map[string]any)
	if !ok {
		return v
	}
	v.Name = statString(info, "name", v.Name)
	if loc, ok := info["location"].(map[string]any); ok {
		v.Elevation = statInt(loc, "elevation", v.Elevation)
	}
	field, ok := info["fieldInfo"].(map[string]any)
	if !ok {
		return v
	}
	v.LeftLine = statInt(field, "leftLine", v.LeftLine)
	v.LeftCenter = statInt(field, "leftCenter", v.LeftCenter)
	v.Center = statInt(field, "center", v.Center)
	v.RightCenter = statInt(field, "rightCenter", v.RightCenter)
	v.RightLine = statInt(field, "rightLine", v.RightLine)
	v.TurfType = statString(field, "turfType", v.TurfType)
	v.RoofType = statString(field, "roofType", v.RoofType)
	return v
}
