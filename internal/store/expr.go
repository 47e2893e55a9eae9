package store

import "fmt"

// Op enumerates comparison operators understood by every backend.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLte
	OpGt
	OpGte
	// OpContains is a case-insensitive literal substring match on string fields.
	OpContains
	// OpFieldLte compares two stored fields: Field <= Other.
	OpFieldLte
	// OpFieldGt compares two stored fields: Field > Other.
	OpFieldGt
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpContains:
		return "contains"
	case OpFieldLte:
		return "<= field"
	case OpFieldGt:
		return "> field"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Expr is a store-neutral predicate. Backends translate it into their own query
// language; callers never see backend syntax.
type Expr interface {
	isExpr()
}

// Cond compares one logical field against a value or another field.
type Cond struct {
	Field string
	Op    Op
	Value any
	Other string
}

// AndExpr matches when every operand matches. An empty AndExpr matches everything.
type AndExpr []Expr

// OrExpr matches when any operand matches. An empty OrExpr matches nothing.
type OrExpr []Expr

// NotExpr negates its operand.
type NotExpr struct {
	Expr Expr
}

func (Cond) isExpr()    {}
func (AndExpr) isExpr() {}
func (OrExpr) isExpr()  {}
func (NotExpr) isExpr() {}

func Eq(field string, value any) Expr  { return Cond{Field: field, Op: OpEq, Value: value} }
func Ne(field string, value any) Expr  { return Cond{Field: field, Op: OpNe, Value: value} }
func Lt(field string, value any) Expr  { return Cond{Field: field, Op: OpLt, Value: value} }
func Lte(field string, value any) Expr { return Cond{Field: field, Op: OpLte, Value: value} }
func Gt(field string, value any) Expr  { return Cond{Field: field, Op: OpGt, Value: value} }
func Gte(field string, value any) Expr { return Cond{Field: field, Op: OpGte, Value: value} }

// Contains matches fields containing needle, ignoring case.
func Contains(field, needle string) Expr {
	return Cond{Field: field, Op: OpContains, Value: needle}
}

// FieldLte matches documents where field <= other.
func FieldLte(field, other string) Expr {
	return Cond{Field: field, Op: OpFieldLte, Other: other}
}

// FieldGt matches documents where field > other.
func FieldGt(field, other string) Expr {
	return Cond{Field: field, Op: OpFieldGt, Other: other}
}

// And flattens nil operands away.
func And(exprs ...Expr) Expr {
	out := make(AndExpr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Or flattens nil operands away.
func Or(exprs ...Expr) Expr {
	out := make(OrExpr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Not negates e.
func Not(e Expr) Expr {
	return NotExpr{Expr: e}
}

// All matches every document.
func All() Expr {
	return AndExpr{}
}
