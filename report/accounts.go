package report

import (
	"context"
	"sort"

	"github.com/presto8/ledger-mode/ledger"
	"github.com/presto8/ledger-mode/pipeline"
)

// BalanceNode is one row of an account-aggregation report: an account and
// its final total (own postings plus every descendant's), together with the
// same shape for its children.
type BalanceNode struct {
	Account  *ledger.Account
	Total    ledger.Value
	Children []*BalanceNode
}

// BalanceTree is the account-aggregation pass's default rendering: the
// Roots are the direct children of the master account RunAccounts walked
// from — this module's account tree carries no fixed type taxonomy (unlike
// beancount's five account-type roots), so "top of the report" is simply
// one level below the unnamed master account.
type BalanceTree struct {
	Roots []*BalanceNode

	// GrandTotal is the sum of every root's Total, set by AccountsReport.Flush
	// only when ShowGrandTotal is set; otherwise left at the null Value.
	GrandTotal ledger.Value

	nodes map[*ledger.Account]*BalanceNode
}

// NewBalanceTree returns an empty BalanceTree, ready to be used as a
// pipeline.AccountHandler via AccountsReport.
func NewBalanceTree() *BalanceTree {
	return &BalanceTree{nodes: make(map[*ledger.Account]*BalanceNode)}
}

// AccountsReport adapts a *BalanceTree into the pipeline.AccountHandler
// RunAccounts drives over the account tree's final phase: for every account
// visited (root first, depth-first, matching ledger.Account.Walk) it
// snapshots that account's xdata Total into a BalanceNode, linking it under
// its parent's node, or into Roots when the account is one level below the
// master account. On Flush, siblings are reordered at every level by SortKey
// when set (natural tree order otherwise), and GrandTotal is computed when
// ShowGrandTotal is set.
type AccountsReport struct {
	Tree *BalanceTree

	// SortKey, when set, reorders each level's siblings ascending by this
	// key expression evaluated against a synthetic posting carrying the
	// account and its total — nil keeps the default natural (tree) order.
	SortKey pipeline.KeyEvaluator

	// ShowGrandTotal, when set, makes Flush sum every root's Total into
	// Tree.GrandTotal.
	ShowGrandTotal bool
}

// NewAccountsReport returns an AccountsReport writing into tree, in natural
// tree order with no grand total.
func NewAccountsReport(tree *BalanceTree) *AccountsReport {
	return &AccountsReport{Tree: tree}
}

func (h *AccountsReport) Accept(ctx context.Context, a *ledger.Account) error {
	if a.IsRoot() {
		return nil
	}
	var total ledger.Value
	if store := ledger.XDataStoreFromContext(ctx); store != nil {
		x := store.AccountXData(a)
		total = x.Total
		x.Subtotal = x.Total
		x.Displayed = true
	}
	node := &BalanceNode{Account: a, Total: total}
	h.Tree.nodes[a] = node
	if a.Parent != nil && a.Parent.IsRoot() {
		h.Tree.Roots = append(h.Tree.Roots, node)
		return nil
	}
	if parent, ok := h.Tree.nodes[a.Parent]; ok {
		parent.Children = append(parent.Children, node)
	}
	return nil
}

func (h *AccountsReport) Flush(ctx context.Context) error {
	if h.SortKey != nil {
		if err := sortBalanceNodes(ctx, h.SortKey, h.Tree.Roots); err != nil {
			return err
		}
	}
	if h.ShowGrandTotal {
		var total ledger.Value
		for _, root := range h.Tree.Roots {
			total = total.Add(root.Total)
		}
		h.Tree.GrandTotal = total
	}
	return nil
}

// sortBalanceNodes reorders nodes in place, ascending by key evaluated
// against a synthetic one-posting entry per node (account and total, as
// pipeline.SortHandler evaluates keys against real postings), then recurses
// into every node's Children so the whole tree is consistently ordered.
func sortBalanceNodes(ctx context.Context, key pipeline.KeyEvaluator, nodes []*BalanceNode) error {
	if len(nodes) == 0 {
		return nil
	}

	keys := make([]ledger.Value, len(nodes))
	for i, n := range nodes {
		entry := &ledger.Entry{}
		p := entry.AddPosting(&ledger.Posting{Account: n.Account, Amount: n.Total})
		v, err := key.Eval(ctx, p)
		if err != nil {
			return err
		}
		keys[i] = v
	}

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]].Compare(keys[order[j]]) < 0
	})

	sorted := make([]*BalanceNode, len(nodes))
	for i, idx := range order {
		sorted[i] = nodes[idx]
	}
	copy(nodes, sorted)

	for _, n := range nodes {
		if err := sortBalanceNodes(ctx, key, n.Children); err != nil {
			return err
		}
	}
	return nil
}

var _ pipeline.AccountHandler = (*AccountsReport)(nil)
