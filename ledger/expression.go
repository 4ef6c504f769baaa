package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpressionError reports a failure evaluating an expression against a
// specific posting. report.EvaluationError wraps this when the pipeline
// surfaces it to a caller.
type ExpressionError struct {
	Expression string
	Posting    *Posting
	Err        error
}

func (e *ExpressionError) Error() string {
	if e.Posting != nil && e.Posting.Account != nil {
		return fmt.Sprintf("expression %q on posting to %s: %v", e.Expression, e.Posting.Account.FullName, e.Err)
	}
	return fmt.Sprintf("expression %q: %v", e.Expression, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

// program is the parsed form shared by PredicateExpr and KeyExpr — the
// predicate/key language is one grammar, pressed into two different
// external interfaces by their result type. Adapted from the arithmetic
// Pratt parser below (the teacher's `EvaluateExpression`/`exprLexer`),
// generalized from pure arithmetic to a small boolean expression language
// over posting/entry fields.
//
// Grammar, lowest to highest precedence:
//
//	expr    := or
//	or      := and ("or" and)*
//	and     := not ("and" not)*
//	not     := "not" not | cmp
//	cmp     := sum (("==" | "!=" | "<" | "<=" | ">" | ">=" | "=~") sum)?
//	sum     := term (("+" | "-") term)*
//	term    := unary (("*" | "/") unary)*
//	unary   := "-" unary | primary
//	primary := number | string | bareword | "(" expr ")"
//
// Barewords name fields: account, payee, code, commodity, amount, date,
// cleared, pending, uncleared. "=~" does a substring match, which stands
// in for the real grammar's regex match.
type program struct {
	src  string
	node exprNode
}

func compile(expr string) (*program, error) {
	toks, err := lexExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}
	p := &exprParser{toks: toks}
	n, err := p.parseExpr(0)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", expr, err)
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("expression %q: unexpected token %q", expr, p.peek().text)
	}
	return &program{src: expr, node: n}, nil
}

func (pr *program) eval(ctx context.Context, posting *Posting, entry *Entry) (Value, error) {
	var xdata *PostingXData
	if store := XDataStoreFromContext(ctx); store != nil && posting != nil {
		xdata = store.PostingXData(posting)
	}
	v, err := evalExprNode(pr.node, exprCtx{posting: posting, xdata: xdata, entry: entry})
	if err != nil {
		return NullValue, &ExpressionError{Expression: pr.src, Posting: posting, Err: err}
	}
	return v, nil
}

// PredicateExpr is the built-in PredicateEvaluator: given a posting and a
// string expression, returns a boolean.
type PredicateExpr struct{ prog *program }

// NewPredicateExpr parses expr as a boolean predicate.
func NewPredicateExpr(expr string) (*PredicateExpr, error) {
	prog, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return &PredicateExpr{prog: prog}, nil
}

// String returns the original expression text.
func (e *PredicateExpr) String() string { return e.prog.src }

// Eval implements PredicateEvaluator.
func (e *PredicateExpr) Eval(ctx context.Context, p *Posting) (bool, error) {
	v, err := e.prog.eval(ctx, p, nil)
	if err != nil {
		return false, err
	}
	return exprTruthy(v), nil
}

// KeyExpr is the built-in KeyEvaluator: given a posting or entry and a
// string expression, returns a Value usable as a sort key.
type KeyExpr struct{ prog *program }

// NewKeyExpr parses expr as a key expression.
func NewKeyExpr(expr string) (*KeyExpr, error) {
	prog, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return &KeyExpr{prog: prog}, nil
}

// String returns the original expression text.
func (e *KeyExpr) String() string { return e.prog.src }

// Eval implements KeyEvaluator for a posting.
func (e *KeyExpr) Eval(ctx context.Context, p *Posting) (Value, error) {
	return e.prog.eval(ctx, p, nil)
}

// EvalEntry implements KeyEvaluator for an entry (used by sort_entries,
// which has no posting in scope).
func (e *KeyExpr) EvalEntry(ctx context.Context, entry *Entry) (Value, error) {
	return e.prog.eval(ctx, nil, entry)
}

// ---- evaluation ----

type exprCtx struct {
	posting *Posting
	xdata   *PostingXData
	entry   *Entry
}

func (c exprCtx) entryOf() *Entry {
	if c.entry != nil {
		return c.entry
	}
	if c.posting != nil {
		return c.posting.Entry
	}
	return nil
}

// exprTruthy mirrors the usual predicate-language rule: a nonzero Value, or
// a nonempty string-shaped Value (encoded in the commodity slot by
// exprString), is true.
func exprTruthy(v Value) bool {
	if !v.IsZero() {
		return true
	}
	for _, c := range v.Commodities() {
		if c != "" {
			return true
		}
	}
	return false
}

func exprStringOf(v Value) string {
	a, ok := v.Amount()
	if !ok {
		return ""
	}
	return a.Commodity
}

// exprString encodes a bare string as a Value: quantity zero, commodity the
// string itself. This reuses Value's lexicographic commodity ordering (see
// value.go's Compare) to give string-valued fields a sort order for free,
// and lets key expressions like "account" feed directly into sort/collapse.
func exprString(s string) Value {
	return AmountValue(Amount{Quantity: decimal.Zero, Commodity: s})
}

func exprBool(b bool) Value {
	if b {
		return AmountValue(Amount{Quantity: decimal.NewFromInt(1)})
	}
	return NullValue
}

func evalExprNode(n exprNode, ctx exprCtx) (Value, error) {
	switch t := n.(type) {
	case numberNode:
		return AmountValue(Amount{Quantity: t.v}), nil
	case stringNode:
		return exprString(t.v), nil
	case fieldNode:
		return evalExprField(t.name, ctx)
	case unaryNode:
		v, err := evalExprNode(t.x, ctx)
		if err != nil {
			return NullValue, err
		}
		switch t.op {
		case "-":
			return v.Neg(), nil
		case "not":
			return exprBool(!exprTruthy(v)), nil
		}
		return NullValue, fmt.Errorf("unknown unary operator %q", t.op)
	case binaryNode:
		return evalExprBinary(t, ctx)
	default:
		return NullValue, fmt.Errorf("unhandled expression node %T", n)
	}
}

func evalExprField(name string, ctx exprCtx) (Value, error) {
	entry := ctx.entryOf()
	switch name {
	case "account":
		if ctx.posting == nil || ctx.posting.Account == nil {
			return NullValue, nil
		}
		return exprString(ctx.posting.Account.FullName), nil
	case "payee":
		if ctx.xdata != nil && ctx.xdata.PayeeOverride != nil {
			return exprString(*ctx.xdata.PayeeOverride), nil
		}
		if entry == nil {
			return NullValue, nil
		}
		return exprString(entry.Payee), nil
	case "code":
		if entry == nil {
			return NullValue, nil
		}
		return exprString(entry.Code), nil
	case "commodity":
		if ctx.posting == nil {
			return NullValue, nil
		}
		a, ok := ctx.xdata.EffectiveAmount(ctx.posting).Amount()
		if !ok {
			return NullValue, nil
		}
		return exprString(a.Commodity), nil
	case "amount":
		if ctx.posting == nil {
			return NullValue, nil
		}
		return ctx.xdata.EffectiveAmount(ctx.posting), nil
	case "date":
		var t time.Time
		switch {
		case ctx.xdata != nil && ctx.xdata.DateOverride != nil:
			t = *ctx.xdata.DateOverride
		case ctx.posting != nil:
			t = ctx.posting.EffectiveDate()
		case entry != nil:
			t = entry.EffectiveDate()
		default:
			return NullValue, nil
		}
		return AmountValue(Amount{Quantity: decimal.NewFromInt(t.Unix() / 86400)}), nil
	case "cleared":
		return exprBool(exprState(ctx) == Cleared), nil
	case "pending":
		return exprBool(exprState(ctx) == Pending), nil
	case "uncleared":
		return exprBool(exprState(ctx) == Uncleared), nil
	case "true":
		return exprBool(true), nil
	case "false":
		return exprBool(false), nil
	default:
		return NullValue, fmt.Errorf("unknown field %q", name)
	}
}

func exprState(ctx exprCtx) PostingState {
	if ctx.posting != nil {
		return ctx.posting.State
	}
	if ctx.entry != nil {
		return ctx.entry.State
	}
	return Uncleared
}

func evalExprBinary(n binaryNode, ctx exprCtx) (Value, error) {
	l, err := evalExprNode(n.l, ctx)
	if err != nil {
		return NullValue, err
	}

	if n.op == "and" {
		if !exprTruthy(l) {
			return exprBool(false), nil
		}
		r, err := evalExprNode(n.r, ctx)
		return exprBool(exprTruthy(r)), err
	}
	if n.op == "or" {
		if exprTruthy(l) {
			return exprBool(true), nil
		}
		r, err := evalExprNode(n.r, ctx)
		return exprBool(exprTruthy(r)), err
	}

	r, err := evalExprNode(n.r, ctx)
	if err != nil {
		return NullValue, err
	}

	cmp := l.Compare(r)
	la, lok := l.Amount()
	ra, rok := r.Amount()
	if lok && rok && (la.Commodity == "") != (ra.Commodity == "") {
		// A bare number against a single amount compares quantities only,
		// so "amount < 0" tests the sign whatever the commodity.
		cmp = la.Quantity.Cmp(ra.Quantity)
	}
	// Strings are zero-quantity amounts (see exprString), so Equal alone
	// would call any two of them equal; differing named commodities never are.
	equal := l.Equal(r) && !(lok && rok && la.Commodity != "" && ra.Commodity != "" && la.Commodity != ra.Commodity)

	switch n.op {
	case "+":
		return l.Add(r), nil
	case "-":
		return l.Sub(r), nil
	case "*":
		la, _ := l.Amount()
		ra, _ := r.Amount()
		return AmountValue(Amount{Quantity: la.Quantity.Mul(ra.Quantity), Commodity: la.Commodity}), nil
	case "/":
		la, _ := l.Amount()
		ra, _ := r.Amount()
		if ra.Quantity.IsZero() {
			return NullValue, fmt.Errorf("division by zero")
		}
		return AmountValue(Amount{Quantity: la.Quantity.Div(ra.Quantity), Commodity: la.Commodity}), nil
	case "==":
		return exprBool(equal), nil
	case "!=":
		return exprBool(!equal), nil
	case "<":
		return exprBool(cmp < 0), nil
	case "<=":
		return exprBool(cmp <= 0), nil
	case ">":
		return exprBool(cmp > 0), nil
	case ">=":
		return exprBool(cmp >= 0), nil
	case "=~":
		return exprBool(strings.Contains(exprStringOf(l), exprStringOf(r))), nil
	default:
		return NullValue, fmt.Errorf("unknown operator %q", n.op)
	}
}

// ---- AST ----

type exprNode interface{}

type numberNode struct{ v decimal.Decimal }
type stringNode struct{ v string }
type fieldNode struct{ name string }
type unaryNode struct {
	op string
	x  exprNode
}
type binaryNode struct {
	op   string
	l, r exprNode
}

// ---- lexer ----

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

func lexExpr(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string at position %d", i)
			}
			toks = append(toks, token{tokString, src[i+1 : j]})
			i = j + 1
		case isExprDigit(c):
			j := i
			for j < len(src) && (isExprDigit(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j]})
			i = j
		case isExprIdentStart(c):
			j := i
			for j < len(src) && isExprIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		default:
			op, n, err := lexExprOp(src[i:])
			if err != nil {
				return nil, fmt.Errorf("unexpected character %q at position %d", c, i)
			}
			toks = append(toks, token{tokOp, op})
			i += n
		}
	}
	return toks, nil
}

func lexExprOp(s string) (string, int, error) {
	twoChar := map[string]bool{"==": true, "!=": true, "<=": true, ">=": true, "=~": true}
	if len(s) >= 2 && twoChar[s[:2]] {
		return s[:2], 2, nil
	}
	oneChar := "+-*/<>!"
	if strings.IndexByte(oneChar, s[0]) >= 0 {
		return s[:1], 1, nil
	}
	return "", 0, fmt.Errorf("bad operator %q", s)
}

func isExprDigit(c byte) bool { return c >= '0' && c <= '9' }
func isExprIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isExprIdentPart(c byte) bool {
	return isExprIdentStart(c) || isExprDigit(c) || c == ':' || c == '/'
}

// ---- Pratt parser ----

type exprParser struct {
	toks []token
	pos  int
}

func (p *exprParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *exprParser) peek() token {
	if p.atEnd() {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) advance() token {
	t := p.peek()
	p.pos++
	return t
}

var exprPrecedence = map[string]int{
	"or": 1, "and": 2,
	"==": 4, "!=": 4, "<": 4, "<=": 4, ">": 4, ">=": 4, "=~": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
}

func (p *exprParser) parseExpr(minPrec int) (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		op := t.text
		if t.kind != tokOp && !(t.kind == tokIdent && (op == "and" || op == "or")) {
			break
		}
		prec, ok := exprPrecedence[op]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (exprNode, error) {
	t := p.peek()
	if t.kind == tokOp && t.text == "-" {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "-", x: x}, nil
	}
	if t.kind == tokIdent && t.text == "not" {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "not", x: x}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	t := p.peek()
	switch t.kind {
	case tokLParen:
		p.advance()
		n, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, fmt.Errorf("expected ')'")
		}
		p.advance()
		return n, nil
	case tokNumber:
		p.advance()
		d, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.text, err)
		}
		return numberNode{v: d}, nil
	case tokString:
		p.advance()
		return stringNode{v: t.text}, nil
	case tokIdent:
		p.advance()
		return fieldNode{name: t.text}, nil
	default:
		return nil, fmt.Errorf("unexpected token %q", t.text)
	}
}
