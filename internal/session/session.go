package session

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Session is the key/value state threaded through a scenario run.
//
// A Session is a value: Set and Delete return a new Session and never touch
// the receiver, so a Session handed to a step body can be kept by the caller
// and reused for a retry attempt without copying. Keys keep the order in which
// they were first set; only the latest value per key is stored.
//
// The zero Session is empty and ready to use.
type Session struct {
	keys   []string
	values map[string]any
}

// New creates an empty session.
func New() Session {
	return Session{}
}

// FromMap builds a session from m. Keys are inserted in sorted order so the
// result does not depend on map iteration.
func FromMap(m map[string]any) Session {
	s := Session{}
	keys := slices.Sorted(maps.Keys(m))
	for _, k := range keys {
		s = s.Set(k, m[k])
	}
	return s
}

// Get returns the latest value stored under key.
func (s Session) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// GetString returns the value under key rendered as text.
func (s Session) GetString(key string) (string, bool) {
	v, ok := s.values[key]
	if !ok {
		return "", false
	}
	if str, ok := v.(string); ok {
		return str, true
	}
	return renderText(v), true
}

// Set returns a new session where key holds value.
func (s Session) Set(key string, value any) Session {
	values := make(map[string]any, len(s.values)+1)
	maps.Copy(values, s.values)

	keys := s.keys
	if _, exists := s.values[key]; !exists {
		// Clip so a sibling Set on the same parent can never write into our array.
		keys = append(slices.Clip(s.keys), key)
	}
	values[key] = value

	return Session{keys: keys, values: values}
}

// Delete returns a new session without key. Deleting a missing key returns s.
func (s Session) Delete(key string) Session {
	if _, exists := s.values[key]; !exists {
		return s
	}

	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		if k != key {
			values[k] = v
		}
	}
	keys := make([]string, 0, len(s.keys)-1)
	for _, k := range s.keys {
		if k != key {
			keys = append(keys, k)
		}
	}

	return Session{keys: keys, values: values}
}

// Pick returns a session holding only the given keys that are present in s,
// in the order they are listed.
func (s Session) Pick(keys ...string) Session {
	out := New()
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out = out.Set(k, v)
		}
	}
	return out
}

// Keys returns the keys in first-insertion order.
func (s Session) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s Session) Len() int {
	return len(s.keys)
}

// ToMap returns a copy of the contents as a plain map.
func (s Session) ToMap() map[string]any {
	m := make(map[string]any, len(s.values))
	maps.Copy(m, s.values)
	return m
}

// Equal reports whether both sessions hold the same keys, in the same order,
// with deeply equal values.
func (s Session) Equal(other Session) bool {
	if !slices.Equal(s.keys, other.keys) {
		return false
	}
	for _, k := range s.keys {
		if !reflect.DeepEqual(s.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// String renders the session one "key -> value" pair per line, in key order.
func (s Session) String() string {
	var b strings.Builder
	for i, k := range s.keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteString(" -> ")
		b.WriteString(renderText(s.values[k]))
	}
	return b.String()
}
