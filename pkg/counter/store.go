// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package counter holds the named integer counters referenced from template
// text as $counter.name[:start][:offset].
//
// The first read of a counter yields its start value (0 when none is given)
// and each later read yields the previous value plus one plus the offset
// given at that read. The start value is fixed by the first read; a later
// read that passes a different start is recorded as a StartConflict and has
// no effect on the value.
package counter

import "fmt"

type state struct {
	value int
	start *int
}

// StartConflict records a read that passed a start value different from
// the one fixed by the counter's first read.
type StartConflict struct {
	Name      string
	Sticky    *int
	Requested int
}

func (c StartConflict) String() string {
	sticky := "none"
	if c.Sticky != nil {
		sticky = fmt.Sprint(*c.Sticky)
	}
	return fmt.Sprintf("counter %q already started at %s, start %d ignored",
		c.Name, sticky, c.Requested)
}

// Store is a set of counters scoped to one generation run.
// It is not safe for concurrent use.
type Store struct {
	counters  map[string]*state
	conflicts []StartConflict
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{counters: make(map[string]*state)}
}

// Next advances the named counter and returns its new value.
func (s *Store) Next(name string, start *int, offset int) int {
	c, ok := s.counters[name]
	if !ok {
		c = &state{}
		if start != nil {
			v := *start
			c.start = &v
			c.value = v
		}
		s.counters[name] = c
		return c.value
	}

	if start != nil && (c.start == nil || *c.start != *start) {
		s.conflicts = append(s.conflicts, StartConflict{
			Name:      name,
			Sticky:    c.start,
			Requested: *start,
		})
	}

	c.value += 1 + offset
	return c.value
}

// Value returns the current value of a counter and whether it was read yet.
func (s *Store) Value(name string) (int, bool) {
	c, ok := s.counters[name]
	if !ok {
		return 0, false
	}
	return c.value, true
}

// Conflicts returns the start conflicts recorded so far and clears them.
func (s *Store) Conflicts() []StartConflict {
	out := s.conflicts
	s.conflicts = nil
	return out
}

// Reset forgets all counters.
func (s *Store) Reset() {
	s.counters = make(map[string]*state)
	s.conflicts = nil
}
