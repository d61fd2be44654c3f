// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package geometry converts a robot-relative move (distance along the robot's
// heading) into a field-relative translation.
//
// Angles follow the usual math convention: 0° points along +x, 90° along +y,
// counter-clockwise positive. Headings are never wrapped, so -90 and 270
// produce the same delta up to floating-point error.
package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
)

// SidewaysOffset is added to the heading when moving sideways.
const SidewaysOffset = 90.0

// 🧭 Heading returns the effective heading in degrees
func Heading(headingDegrees float64, sideways bool) float64 {
	if sideways {
		return headingDegrees + SidewaysOffset
	}
	return headingDegrees
}

// 📐 Transform returns the field-relative delta for moving distance along
// headingDegrees, or along headingDegrees+90 when sideways is set.
func Transform(distance, headingDegrees float64, sideways bool) r2.Point {
	angle := s1.Angle(Heading(headingDegrees, sideways)) * s1.Degree
	return r2.Point{
		X: distance * math.Cos(angle.Radians()),
		Y: distance * math.Sin(angle.Radians()),
	}
}
