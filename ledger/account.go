package ledger

import "strings"

// Separator joins account name segments into a full path, e.g. "Assets/Bank".
const Separator = "/"

// Account is a node in the account tree. The tree has a single unnamed root
// (NewTree's return value, by convention called "master"). Every account's
// FullName equals its parent's FullName plus Separator plus its Name; no two
// siblings share a Name.
//
// Parent is a weak, non-owning back-reference: the tree owns accounts
// top-down through Children, never the other way around.
type Account struct {
	Name     string
	FullName string
	Parent   *Account
	Children []*Account

	byName map[string]*Account
}

// NewTree creates the unnamed root account of a new account tree.
func NewTree() *Account {
	return &Account{byName: make(map[string]*Account)}
}

// IsRoot reports whether a is the unnamed root of its tree.
func (a *Account) IsRoot() bool {
	return a.Parent == nil
}

// IsLeaf reports whether a has no children.
func (a *Account) IsLeaf() bool {
	return len(a.Children) == 0
}

// Child returns a's direct child named name, creating it (and, recursively,
// any missing ancestors are never created here — Find does that) if it does
// not already exist.
func (a *Account) Child(name string) *Account {
	if c, ok := a.byName[name]; ok {
		return c
	}
	full := name
	if a.FullName != "" {
		full = a.FullName + Separator + name
	}
	c := &Account{
		Name:     name,
		FullName: full,
		Parent:   a,
		byName:   make(map[string]*Account),
	}
	if a.byName == nil {
		a.byName = make(map[string]*Account)
	}
	a.byName[name] = c
	a.Children = append(a.Children, c)
	return c
}

// Find walks (creating as needed) the path from a down to the account named
// by the slash-separated fullPath, e.g. Find("Assets/Bank/Checking").
// Calling Find on the root with a full account path is the usual way postings
// get attached to the tree while building a journal in tests or fixtures.
func (a *Account) Find(fullPath string) *Account {
	cur := a
	if fullPath == "" {
		return cur
	}
	for _, seg := range strings.Split(fullPath, Separator) {
		cur = cur.Child(seg)
	}
	return cur
}

// Walk visits a and every descendant in depth-first, children-in-insertion-
// order, traversal, calling visit(account) for each. Walk is the traversal
// the account-aggregation pass (§4.5) and the default AccountHandler driver
// use.
func (a *Account) Walk(visit func(*Account)) {
	visit(a)
	for _, c := range a.Children {
		c.Walk(visit)
	}
}
