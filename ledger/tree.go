package ledger

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// This file holds the machinery shared by both hierarchy kinds (account
// groups and categories): the balance-changed publication protocol and the
// sparse integer-keyed child map with its ordering algorithms.

// Subscription is the handle returned by Subscribe; pass it back to
// Unsubscribe to stop receiving notifications.
type Subscription struct {
	fn func()
}

// publisher is the subject half of the balance-changed protocol. Every
// hierarchy node embeds one; subscribers are invoked synchronously, in
// subscription order, on every publication.
type publisher struct {
	subs []*Subscription
}

// Subscribe registers a callback invoked on every balance publication.
func (p *publisher) Subscribe(fn func()) *Subscription {
	s := &Subscription{fn: fn}
	p.subs = append(p.subs, s)
	return s
}

// Unsubscribe removes a previously registered subscription.
func (p *publisher) Unsubscribe(s *Subscription) {
	for i, sub := range p.subs {
		if sub == s {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return
		}
	}
}

// publish invokes every subscriber. Propagation is synchronous and runs to
// completion before control returns to the mutator that triggered it.
func (p *publisher) publish() {
	for _, s := range p.subs {
		s.fn()
	}
}

// childMap stores children in a sparse integer-keyed map from sibling
// position to child. The sparse shape allows positional removal without
// renumbering the earlier siblings; after every mutation the keys form a
// contiguous 0..n-1 sequence again. An ordered view sorted by key is
// recomputed on each mutation.
type childMap[C comparable] struct {
	entries map[int]C
	ordered []C
}

func newChildMap[C comparable]() *childMap[C] {
	return &childMap[C]{entries: make(map[int]C)}
}

func (m *childMap[C]) len() int { return len(m.entries) }

// sorted returns the derived ordered view.
func (m *childMap[C]) sorted() []C { return m.ordered }

// indexOf scans the sparse map for the child and returns its key.
func (m *childMap[C]) indexOf(child C) (int, bool) {
	for k, v := range m.entries {
		if v == child {
			return k, true
		}
	}
	return 0, false
}

// add appends the child at the end. Every mutation recompacts the keys to
// 0..n-1, so the next free key is the current length.
func (m *childMap[C]) add(child C) {
	m.entries[len(m.entries)] = child
	m.refresh()
}

// insert places the child at index, shifting every sibling at or after
// index up by one. index must be in [0, len].
func (m *childMap[C]) insert(child C, index int) {
	for k := len(m.entries) - 1; k >= index; k-- {
		m.entries[k+1] = m.entries[k]
	}
	m.entries[index] = child
	m.refresh()
}

// remove compacts by left-shifting the tail: every key at or after the
// child's key pulls the value from key+1 and the final duplicate key is
// dropped. Earlier siblings keep their keys untouched.
func (m *childMap[C]) remove(child C) bool {
	key, ok := m.indexOf(child)
	if !ok {
		return false
	}

	last := len(m.entries) - 1
	for k := key; k < last; k++ {
		m.entries[k] = m.entries[k+1]
	}
	delete(m.entries, last)
	m.refresh()
	return true
}

func (m *childMap[C]) refresh() {
	keys := make([]int, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	m.ordered = make([]C, len(keys))
	for i, k := range keys {
		m.ordered[i] = m.entries[k]
	}
}

// maxNodeNameLength bounds hierarchy node names.
const maxNodeNameLength = 32

// validateNodeName checks a hierarchy node name: 1-32 characters, no slash.
// The slash is reserved as the path separator.
func validateNodeName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > maxNodeNameLength {
		return &InvalidNameError{Name: name, Reason: "must be 1 to 32 characters"}
	}
	if strings.Contains(name, "/") {
		return &InvalidNameError{Name: name, Reason: "must not contain '/'"}
	}
	return nil
}

// joinPath derives a node's path from its parent's path and its own name.
func joinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}
