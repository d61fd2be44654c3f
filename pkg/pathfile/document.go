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

package pathfile

import (
	"bytes"
	"encoding/json"

	"github.com/golang/geo/r2"
	"gitlab.com/tozd/go/errors"
)

// JSON member names. Everything else is carried through as raw bytes.
const (
	keyWaypoints    = "waypoints"
	keyGoalEndState = "goalEndState"

	keyAnchor      = "anchor"
	keyPrevControl = "prevControl"
	keyNextControl = "nextControl"
	keyIsLocked    = "isLocked"
	keyLinkedName  = "linkedName"

	keyVelocity = "velocity"
	keyRotation = "rotation"

	keyX = "x"
	keyY = "y"
)

// 📍 Point is a field coordinate
type Point struct {
	X float64
	Y float64

	// Extra holds point members other than x and y.
	Extra Fields

	order []string
}

// Translate moves p by delta.
func (p *Point) Translate(delta r2.Point) {
	p.X += delta.X
	p.Y += delta.Y
}

// MarshalJSON encodes p as {"x":..,"y":..}, merging Extra back in.
func (p Point) MarshalJSON() ([]byte, error) {
	x, err := marshalRaw(p.X)
	if err != nil {
		return nil, errors.Errorf("encoding x: %w", err)
	}
	y, err := marshalRaw(p.Y)
	if err != nil {
		return nil, errors.Errorf("encoding y: %w", err)
	}
	return encodeMembers(mergeMembers(p.order, []member{
		{key: keyX, raw: x},
		{key: keyY, raw: y},
	}, &p.Extra))
}

// 🚩 Waypoint is one knot of the path spline. A nil control point means the
// segment on that side is a straight line.
type Waypoint struct {
	Anchor      Point
	PrevControl *Point
	NextControl *Point
	IsLocked    bool
	LinkedName  *string

	// Extra holds waypoint members pathshift does not model.
	Extra Fields

	order []string
}

// Translate moves the anchor and any control points by delta.
func (w *Waypoint) Translate(delta r2.Point) {
	w.Anchor.Translate(delta)
	if w.PrevControl != nil {
		w.PrevControl.Translate(delta)
	}
	if w.NextControl != nil {
		w.NextControl.Translate(delta)
	}
}

// MarshalJSON encodes the waypoint, merging Extra back in.
func (w *Waypoint) MarshalJSON() ([]byte, error) {
	anchor, err := w.Anchor.MarshalJSON()
	if err != nil {
		return nil, errors.Errorf("encoding anchor: %w", err)
	}
	prev, err := optionalPoint(w.PrevControl)
	if err != nil {
		return nil, errors.Errorf("encoding prevControl: %w", err)
	}
	next, err := optionalPoint(w.NextControl)
	if err != nil {
		return nil, errors.Errorf("encoding nextControl: %w", err)
	}
	locked, err := marshalRaw(w.IsLocked)
	if err != nil {
		return nil, errors.Errorf("encoding isLocked: %w", err)
	}
	linked, err := marshalRaw(w.LinkedName)
	if err != nil {
		return nil, errors.Errorf("encoding linkedName: %w", err)
	}

	return encodeMembers(mergeMembers(w.order, []member{
		{key: keyAnchor, raw: anchor},
		{key: keyPrevControl, raw: prev},
		{key: keyNextControl, raw: next},
		{key: keyIsLocked, raw: locked},
		{key: keyLinkedName, raw: linked},
	}, &w.Extra))
}

func optionalPoint(p *Point) (json.RawMessage, error) {
	if p == nil {
		return json.RawMessage("null"), nil
	}
	return p.MarshalJSON()
}

// 🏁 TerminalState is the robot state at the end of the path. Rotation is the
// final heading in degrees.
type TerminalState struct {
	Velocity float64
	Rotation float64

	// Extra holds goal state members pathshift does not model.
	Extra Fields

	order []string
}

// MarshalJSON encodes the state, merging Extra back in.
func (s *TerminalState) MarshalJSON() ([]byte, error) {
	velocity, err := marshalRaw(s.Velocity)
	if err != nil {
		return nil, errors.Errorf("encoding velocity: %w", err)
	}
	rotation, err := marshalRaw(s.Rotation)
	if err != nil {
		return nil, errors.Errorf("encoding rotation: %w", err)
	}
	return encodeMembers(mergeMembers(s.order, []member{
		{key: keyVelocity, raw: velocity},
		{key: keyRotation, raw: rotation},
	}, &s.Extra))
}

// 📄 Document is a parsed path file. Only waypoints and the goal end state are
// modeled; every other top-level member lives in Extra untouched.
type Document struct {
	Waypoints    []Waypoint
	GoalEndState TerminalState

	// Extra never holds "waypoints" or "goalEndState"; if it does, the typed
	// fields win when encoding.
	Extra Fields

	order []string
}

// Heading returns the terminal rotation used as the shift direction.
func (d *Document) Heading() float64 {
	return d.GoalEndState.Rotation
}

// Translate moves every waypoint by delta.
func (d *Document) Translate(delta r2.Point) {
	for i := range d.Waypoints {
		d.Waypoints[i].Translate(delta)
	}
}

// MarshalJSON encodes the document compactly.
func (d *Document) MarshalJSON() ([]byte, error) {
	var waypoints bytes.Buffer
	waypoints.WriteByte('[')
	for i := range d.Waypoints {
		if i > 0 {
			waypoints.WriteByte(',')
		}
		raw, err := d.Waypoints[i].MarshalJSON()
		if err != nil {
			return nil, errors.Errorf("encoding waypoints[%d]: %w", i, err)
		}
		waypoints.Write(raw)
	}
	waypoints.WriteByte(']')

	goal, err := d.GoalEndState.MarshalJSON()
	if err != nil {
		return nil, errors.Errorf("encoding goalEndState: %w", err)
	}

	return encodeMembers(mergeMembers(d.order, []member{
		{key: keyWaypoints, raw: waypoints.Bytes()},
		{key: keyGoalEndState, raw: goal},
	}, &d.Extra))
}

// 🎨 MarshalIndent encodes the document with two-space indentation and a
// trailing newline. Raw members keep their literal text; only whitespace
// between tokens changes.
func (d *Document) MarshalIndent() ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, errors.Errorf("indenting document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
