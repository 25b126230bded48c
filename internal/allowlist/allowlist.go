// Package allowlist holds the actors exempt from anti-nuke enforcement.
package allowlist

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Set is a copy-on-write set of actor ids. Contains never blocks; mutations replace
// the whole snapshot.
type Set struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[map[string]struct{}]
}

func New(ids ...string) *Set {
	s := &Set{}
	s.store(build(nil, ids))
	return s
}

func (s *Set) Contains(id string) bool {
	_, ok := (*s.snap.Load())[id]
	return ok
}

// Add inserts ids and reports how many were new.
func (s *Set) Add(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := *s.snap.Load()
	next := build(cur, ids)
	s.store(next)
	return len(next) - len(cur)
}

// Remove deletes ids and reports how many were present.
func (s *Set) Remove(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := *s.snap.Load()
	next := build(cur, nil)
	for _, id := range ids {
		delete(next, strings.TrimSpace(id))
	}
	s.store(next)
	return len(cur) - len(next)
}

// Replace swaps the whole set.
func (s *Set) Replace(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store(build(nil, ids))
}

// List returns the ids in sorted order.
func (s *Set) List() []string {
	cur := *s.snap.Load()
	out := make([]string, 0, len(cur))
	for id := range cur {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Set) Len() int { return len(*s.snap.Load()) }

func (s *Set) store(m map[string]struct{}) { s.snap.Store(&m) }

func build(base map[string]struct{}, ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(base)+len(ids))
	for id := range base {
		m[id] = struct{}{}
	}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			m[id] = struct{}{}
		}
	}
	return m
}
