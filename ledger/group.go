package ledger

import (
	"github.com/google/uuid"
)

// GroupChild is a node that can be attached under an AccountGroup: either a
// nested AccountGroup or a leaf Account. Both publish balance changes
// through the same protocol, which keeps aggregation uniform across leaves
// and internal nodes.
type GroupChild interface {
	Name() string
	ID() uuid.UUID
	Path() string
	Balance() *Balance

	Subscribe(fn func()) *Subscription
	Unsubscribe(s *Subscription)

	parentGroup() *AccountGroup
	setParentGroup(g *AccountGroup)
}

// AccountGroup is a container node of the account hierarchy. Its balance is
// the per-currency sum of its children's balances, recomputed whenever any
// child publishes a change and republished upward.
//
// The group only tracks its children's membership and ordering; it does not
// own their lifetime. Children may be detached, reattached elsewhere, or
// stand alone.
type AccountGroup struct {
	publisher

	name   string
	id     uuid.UUID
	parent *AccountGroup

	children      *childMap[GroupChild]
	subscriptions map[GroupChild]*Subscription

	balance *Balance
}

// NewAccountGroup creates a standalone group (parent = nil).
func NewAccountGroup(name string) (*AccountGroup, error) {
	if err := validateNodeName(name); err != nil {
		return nil, err
	}

	return &AccountGroup{
		name:          name,
		id:            uuid.New(),
		children:      newChildMap[GroupChild](),
		subscriptions: make(map[GroupChild]*Subscription),
		balance:       NewBalance(),
	}, nil
}

// Name returns the group's name.
func (g *AccountGroup) Name() string { return g.name }

// ID returns the group's stable identity.
func (g *AccountGroup) ID() uuid.UUID { return g.id }

// RestoreID replaces the generated identity with a persisted one. Only the
// loader calls this, before the group is referenced anywhere.
func (g *AccountGroup) RestoreID(id uuid.UUID) { g.id = id }

// Parent returns the parent group, or nil for a root.
func (g *AccountGroup) Parent() *AccountGroup { return g.parent }

// Path returns the parent's path joined with the group's own name, or the
// name alone for a root.
func (g *AccountGroup) Path() string {
	if g.parent == nil {
		return g.name
	}
	return joinPath(g.parent.Path(), g.name)
}

// Children returns the children ordered by sibling position.
func (g *AccountGroup) Children() []GroupChild {
	return g.children.sorted()
}

// Balance returns the group's current aggregate. The returned balance must
// not be mutated by the caller.
func (g *AccountGroup) Balance() *Balance { return g.balance }

// SetParent re-parents the group: a no-op if unchanged, otherwise the group
// detaches from its current parent (compacting the sibling positions) and
// appends itself to the new parent's children. Attaching a group under its
// own descendant is rejected before any mutation.
func (g *AccountGroup) SetParent(parent *AccountGroup) error {
	if parent != nil {
		for p := parent; p != nil; p = p.parent {
			if p == g {
				return &InvalidParentError{
					Node:   g.Path(),
					Parent: parent.Path(),
					Reason: "cannot attach a group under its own descendant",
				}
			}
		}
	}
	return setGroupParent(g, parent)
}

// SetChildIndex moves a current child to the given sibling index, shifting
// every sibling at or after that index up by one. Fails on a negative or
// out-of-range index and on a node that is not a current child; a no-op if
// the child is already at that index.
func (g *AccountGroup) SetChildIndex(child GroupChild, index int) error {
	if index < 0 || index >= g.children.len() {
		return &InvalidIndexError{Index: index}
	}
	current, ok := g.children.indexOf(child)
	if !ok {
		return &ChildNotFoundError{Parent: g.Path(), Child: child.Name()}
	}
	if current == index {
		return nil
	}

	g.children.remove(child)
	g.children.insert(child, index)
	return nil
}

// ChildIndex returns the sibling index of a current child. Callers must
// have validated membership; a missing child is an error.
func (g *AccountGroup) ChildIndex(child GroupChild) (int, error) {
	index, ok := g.children.indexOf(child)
	if !ok {
		return 0, &ChildNotFoundError{Parent: g.Path(), Child: child.Name()}
	}
	return index, nil
}

// addChild appends the child, subscribes the group's recompute callback to
// the child's publications, and recomputes.
func (g *AccountGroup) addChild(child GroupChild) {
	g.children.add(child)
	g.subscriptions[child] = child.Subscribe(g.recompute)
	g.recompute()
}

// removeChild unsubscribes from the child, detaches it with compaction, and
// recomputes.
func (g *AccountGroup) removeChild(child GroupChild) {
	if s, ok := g.subscriptions[child]; ok {
		child.Unsubscribe(s)
		delete(g.subscriptions, child)
	}
	g.children.remove(child)
	g.recompute()
}

// recompute rebuilds the aggregate by summing the children's balances per
// currency, then publishes unconditionally, even when the aggregate is
// unchanged. Callers that care whether it actually changed must diff
// themselves.
func (g *AccountGroup) recompute() {
	balance := NewBalance()
	for _, child := range g.children.sorted() {
		balance.Merge(child.Balance())
	}
	g.balance = balance
	g.publish()
}

func (g *AccountGroup) parentGroup() *AccountGroup     { return g.parent }
func (g *AccountGroup) setParentGroup(p *AccountGroup) { g.parent = p }

// setGroupParent implements the shared re-parenting sequence for group
// children: detach from the old parent, attach to the new one, update the
// weak back-reference. Attachment appends at the end; use SetChildIndex for
// an explicit target position.
func setGroupParent(child GroupChild, parent *AccountGroup) error {
	if child.parentGroup() == parent {
		return nil
	}

	if old := child.parentGroup(); old != nil {
		old.removeChild(child)
	}
	child.setParentGroup(parent)
	if parent != nil {
		parent.addChild(child)
	}
	return nil
}
