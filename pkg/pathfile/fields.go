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

	"github.com/tidwall/gjson"
	"gitlab.com/tozd/go/errors"
)

// 📦 Fields is an ordered set of JSON object members kept as raw bytes.
// The zero value is an empty set ready to use.
type Fields struct {
	keys []string
	raw  map[string]json.RawMessage
}

// Len returns the number of members.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns member names in document order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Get returns the raw value stored under key.
func (f *Fields) Get(key string) (json.RawMessage, bool) {
	raw, ok := f.raw[key]
	return raw, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.raw[key]
	return ok
}

// Set stores raw under key. An existing key keeps its position.
func (f *Fields) Set(key string, raw json.RawMessage) {
	if f.raw == nil {
		f.raw = make(map[string]json.RawMessage)
	}
	if _, ok := f.raw[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.raw[key] = raw
}

// fieldsOf collects the members of a gjson object in order. Duplicate keys
// keep their first position and last value, like encoding/json.
func fieldsOf(obj gjson.Result) Fields {
	var f Fields
	obj.ForEach(func(key, value gjson.Result) bool {
		f.Set(key.String(), json.RawMessage(value.Raw))
		return true
	})
	return f
}

// without returns a copy of f minus the given keys.
func (f *Fields) without(keys ...string) Fields {
	skip := make(map[string]bool, len(keys))
	for _, k := range keys {
		skip[k] = true
	}
	var out Fields
	for _, k := range f.keys {
		if skip[k] {
			continue
		}
		out.Set(k, f.raw[k])
	}
	return out
}

type member struct {
	key string
	raw json.RawMessage
}

// mergeMembers lays out an object: members named in order come first (typed
// values win over extra), then extra members added since parsing, then typed
// members the source never had.
func mergeMembers(order []string, typed []member, extra *Fields) []member {
	typedRaw := make(map[string]json.RawMessage, len(typed))
	for _, m := range typed {
		typedRaw[m.key] = m.raw
	}

	seen := make(map[string]bool, len(order)+len(typed)+extra.Len())
	out := make([]member, 0, len(order)+len(typed)+extra.Len())
	add := func(key string, raw json.RawMessage) {
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, member{key: key, raw: raw})
	}

	for _, k := range order {
		if raw, ok := typedRaw[k]; ok {
			add(k, raw)
			continue
		}
		if raw, ok := extra.Get(k); ok {
			add(k, raw)
		}
	}
	for _, k := range extra.keys {
		if _, ok := typedRaw[k]; ok {
			continue
		}
		add(k, extra.raw[k])
	}
	for _, m := range typed {
		add(m.key, m.raw)
	}
	return out
}

// encodeMembers writes members as a compact JSON object.
func encodeMembers(members []member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if len(m.raw) == 0 {
			return nil, errors.Errorf("member %q has no value", m.key)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalRaw(m.key)
		if err != nil {
			return nil, errors.Errorf("encoding key %q: %w", m.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping so strings keep their bytes.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
