package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// CategoryType partitions the category hierarchy: a category's parent must
// share its type.
type CategoryType int

const (
	CategoryTypeIncome CategoryType = iota
	CategoryTypeExpense
	CategoryTypeDualPurpose
)

// String returns the type's book file keyword.
func (t CategoryType) String() string {
	switch t {
	case CategoryTypeIncome:
		return "income"
	case CategoryTypeExpense:
		return "expense"
	case CategoryTypeDualPurpose:
		return "dual"
	default:
		return "unknown"
	}
}

// ParseCategoryType parses a book file category type keyword.
func ParseCategoryType(s string) (CategoryType, error) {
	switch s {
	case "income":
		return CategoryTypeIncome, nil
	case "expense":
		return CategoryTypeExpense, nil
	case "dual":
		return CategoryTypeDualPurpose, nil
	default:
		return 0, fmt.Errorf("invalid category type %q", s)
	}
}

// Category is a node of the category hierarchy. It shares the account
// hierarchy's ordering and aggregation machinery; its aggregate is the sum
// of its own direct contributions (from categorized transactions) and its
// children's aggregates.
type Category struct {
	publisher

	name   string
	id     uuid.UUID
	typ    CategoryType
	parent *Category

	children      *childMap[*Category]
	subscriptions map[*Category]*Subscription

	// own collects the direct contributions of transactions categorized
	// under this node, kept apart from the children's aggregates.
	own     *Balance
	balance *Balance
}

// NewCategory creates a standalone category of the given type.
func NewCategory(name string, typ CategoryType) (*Category, error) {
	if err := validateNodeName(name); err != nil {
		return nil, err
	}

	return &Category{
		name:          name,
		id:            uuid.New(),
		typ:           typ,
		children:      newChildMap[*Category](),
		subscriptions: make(map[*Category]*Subscription),
		own:           NewBalance(),
		balance:       NewBalance(),
	}, nil
}

// Name returns the category's name.
func (c *Category) Name() string { return c.name }

// ID returns the category's stable identity.
func (c *Category) ID() uuid.UUID { return c.id }

// RestoreID replaces the generated identity with a persisted one. Only the
// loader calls this, before the category is referenced anywhere.
func (c *Category) RestoreID(id uuid.UUID) { c.id = id }

// Type returns the category type shared across this subtree.
func (c *Category) Type() CategoryType { return c.typ }

// Parent returns the parent category, or nil for a root.
func (c *Category) Parent() *Category { return c.parent }

// Path returns the parent's path joined with the category's name.
func (c *Category) Path() string {
	if c.parent == nil {
		return c.name
	}
	return joinPath(c.parent.Path(), c.name)
}

// Children returns the child categories ordered by sibling position.
func (c *Category) Children() []*Category {
	return c.children.sorted()
}

// Balance returns the category's aggregate: its own contributions plus its
// descendants'. Must not be mutated by the caller.
func (c *Category) Balance() *Balance { return c.balance }

// SetParent re-parents the category. The new parent must share the
// category's type; attaching under a descendant is rejected. Both checks
// run before any mutation.
func (c *Category) SetParent(parent *Category) error {
	if c.parent == parent {
		return nil
	}
	if parent != nil {
		if parent.typ != c.typ {
			return &CategoryTypeMismatchError{
				Child:      c.Path(),
				Parent:     parent.Path(),
				ChildType:  c.typ,
				ParentType: parent.typ,
			}
		}
		for p := parent; p != nil; p = p.parent {
			if p == c {
				return &InvalidParentError{
					Node:   c.Path(),
					Parent: parent.Path(),
					Reason: "cannot attach a category under its own descendant",
				}
			}
		}
	}

	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = parent
	if parent != nil {
		parent.addChild(c)
	}
	return nil
}

// SetChildIndex moves a current child to the given sibling index, shifting
// every sibling at or after it up by one.
func (c *Category) SetChildIndex(child *Category, index int) error {
	if index < 0 || index >= c.children.len() {
		return &InvalidIndexError{Index: index}
	}
	current, ok := c.children.indexOf(child)
	if !ok {
		return &ChildNotFoundError{Parent: c.Path(), Child: child.Name()}
	}
	if current == index {
		return nil
	}

	c.children.remove(child)
	c.children.insert(child, index)
	return nil
}

// ChildIndex returns the sibling index of a current child.
func (c *Category) ChildIndex(child *Category) (int, error) {
	index, ok := c.children.indexOf(child)
	if !ok {
		return 0, &ChildNotFoundError{Parent: c.Path(), Child: child.Name()}
	}
	return index, nil
}

func (c *Category) addChild(child *Category) {
	c.children.add(child)
	c.subscriptions[child] = child.Subscribe(c.recompute)
	c.recompute()
}

func (c *Category) removeChild(child *Category) {
	if s, ok := c.subscriptions[child]; ok {
		child.Unsubscribe(s)
		delete(c.subscriptions, child)
	}
	c.children.remove(child)
	c.recompute()
}

// contribute adds a direct transaction amount and cascades upward.
func (c *Category) contribute(amount CashAmount) {
	c.own.Add(amount)
	c.recompute()
}

// recompute rebuilds the aggregate from the category's own contributions
// and its children's aggregates, then publishes unconditionally.
func (c *Category) recompute() {
	balance := c.own.Copy()
	for _, child := range c.children.sorted() {
		balance.Merge(child.Balance())
	}
	c.balance = balance
	c.publish()
}
