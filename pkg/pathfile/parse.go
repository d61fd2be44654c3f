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
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/walteh/pathshift/pkg/errcode"
)

// 🔍 Parse reads a path file. filename only labels errors. Any failure is
// an errcode.MalformedDocument error.
func Parse(data []byte, filename string) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errcode.New(errcode.MalformedDocument, filename, "not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errcode.New(errcode.MalformedDocument, filename, "top level is not an object")
	}

	p := parser{filename: filename}
	all := fieldsOf(root)

	doc := &Document{
		Extra: all.without(keyWaypoints, keyGoalEndState),
		order: all.Keys(),
	}

	waypoints, ok := all.Get(keyWaypoints)
	if !ok {
		return nil, p.fail("missing %s", keyWaypoints)
	}
	if doc.Waypoints, ok = p.waypoints(gjson.ParseBytes(waypoints)); !ok {
		return nil, p.err
	}

	goal, ok := all.Get(keyGoalEndState)
	if !ok {
		return nil, p.fail("missing %s", keyGoalEndState)
	}
	if doc.GoalEndState, ok = p.terminalState(gjson.ParseBytes(goal)); !ok {
		return nil, p.err
	}

	return doc, nil
}

// parser records the first schema violation.
type parser struct {
	filename string
	err      error
}

func (p *parser) fail(format string, args ...any) error {
	p.err = errcode.New(errcode.MalformedDocument, p.filename, fmt.Sprintf(format, args...))
	return p.err
}

func (p *parser) waypoints(arr gjson.Result) ([]Waypoint, bool) {
	if !arr.IsArray() {
		p.fail("%s is not an array", keyWaypoints)
		return nil, false
	}
	elems := arr.Array()
	out := make([]Waypoint, 0, len(elems))
	for i, elem := range elems {
		w, ok := p.waypoint(elem, fmt.Sprintf("%s[%d]", keyWaypoints, i))
		if !ok {
			return nil, false
		}
		out = append(out, w)
	}
	return out, true
}

func (p *parser) waypoint(obj gjson.Result, where string) (Waypoint, bool) {
	if !obj.IsObject() {
		p.fail("%s is not an object", where)
		return Waypoint{}, false
	}
	all := fieldsOf(obj)
	w := Waypoint{
		Extra: all.without(keyAnchor, keyPrevControl, keyNextControl, keyIsLocked, keyLinkedName),
		order: all.Keys(),
	}

	anchor, ok := all.Get(keyAnchor)
	if !ok {
		p.fail("%s: missing %s", where, keyAnchor)
		return Waypoint{}, false
	}
	if w.Anchor, ok = p.point(gjson.ParseBytes(anchor), where+"."+keyAnchor); !ok {
		return Waypoint{}, false
	}
	if w.PrevControl, ok = p.optionalPoint(&all, keyPrevControl, where); !ok {
		return Waypoint{}, false
	}
	if w.NextControl, ok = p.optionalPoint(&all, keyNextControl, where); !ok {
		return Waypoint{}, false
	}

	if raw, present := all.Get(keyIsLocked); present {
		v := gjson.ParseBytes(raw)
		switch v.Type {
		case gjson.True, gjson.False:
			w.IsLocked = v.Bool()
		default:
			p.fail("%s.%s is not a boolean", where, keyIsLocked)
			return Waypoint{}, false
		}
	}

	if raw, present := all.Get(keyLinkedName); present {
		v := gjson.ParseBytes(raw)
		switch v.Type {
		case gjson.Null:
		case gjson.String:
			name := v.Str
			w.LinkedName = &name
		default:
			p.fail("%s.%s is not a string", where, keyLinkedName)
			return Waypoint{}, false
		}
	}

	return w, true
}

// optionalPoint treats a missing member and an explicit null the same.
func (p *parser) optionalPoint(all *Fields, key, where string) (*Point, bool) {
	raw, present := all.Get(key)
	if !present {
		return nil, true
	}
	v := gjson.ParseBytes(raw)
	if v.Type == gjson.Null {
		return nil, true
	}
	pt, ok := p.point(v, where+"."+key)
	if !ok {
		return nil, false
	}
	return &pt, true
}

func (p *parser) point(obj gjson.Result, where string) (Point, bool) {
	if !obj.IsObject() {
		p.fail("%s is not an object", where)
		return Point{}, false
	}
	x, ok := p.number(obj, keyX, where)
	if !ok {
		return Point{}, false
	}
	y, ok := p.number(obj, keyY, where)
	if !ok {
		return Point{}, false
	}
	all := fieldsOf(obj)
	return Point{
		X:     x,
		Y:     y,
		Extra: all.without(keyX, keyY),
		order: all.Keys(),
	}, true
}

func (p *parser) terminalState(obj gjson.Result) (TerminalState, bool) {
	if !obj.IsObject() {
		p.fail("%s is not an object", keyGoalEndState)
		return TerminalState{}, false
	}
	all := fieldsOf(obj)
	s := TerminalState{
		Extra: all.without(keyVelocity, keyRotation),
		order: all.Keys(),
	}

	var ok bool
	if s.Rotation, ok = p.number(obj, keyRotation, keyGoalEndState); !ok {
		return TerminalState{}, false
	}
	if all.Has(keyVelocity) {
		if s.Velocity, ok = p.number(obj, keyVelocity, keyGoalEndState); !ok {
			return TerminalState{}, false
		}
	}
	return s, true
}

// number reads a required numeric member. Members are looked up through
// Fields, not gjson paths, so keys are matched literally.
func (p *parser) number(obj gjson.Result, key, where string) (float64, bool) {
	all := fieldsOf(obj)
	raw, present := all.Get(key)
	if !present {
		p.fail("%s: missing %s", where, key)
		return 0, false
	}
	v := gjson.ParseBytes(raw)
	if v.Type != gjson.Number {
		p.fail("%s.%s is not a number", where, key)
		return 0, false
	}
	return v.Num, true
}
