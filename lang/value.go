package lang

import (
	"fmt"
	"strings"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeSymbol
	TypeKeyword
	TypeList
	TypeVector
	TypeHashMap
	TypePrimitive
	TypeClosure
	TypeAtom
)

// Value represents any runtime object in the interpreter.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Str holds a string's decoded text together with the source token
// used to print it back readably.
type Str struct {
	Text  string
	Token string
}

// Seq backs lists, vectors and hash-maps. Hash-maps store alternating
// key/value entries; later entries shadow earlier ones with equal keys.
type Seq struct {
	Items []Value
	Meta  Value
}

// Primitive represents a built-in Go function exposed to the interpreter.
type Primitive func(*Evaluator, []Value) (Value, error)

// Builtin is a named primitive with attached metadata.
type Builtin struct {
	Name string
	Fn   Primitive
	Meta Value
}

// Closure represents a user-defined function with lexical scope.
type Closure struct {
	Params  Value
	Body    Value
	Env     *Env
	IsMacro bool
	Meta    Value
}

// Atom is a mutable single-slot cell.
type Atom struct {
	Value Value
}

// Nil is the singleton nil value.
var Nil = Value{Type: TypeNil}

// True and False are the boolean singletons.
var (
	True  = Value{Type: TypeBool, payload: true}
	False = Value{Type: TypeBool, payload: false}
)

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// NumberValue constructs a number Value.
func NumberValue(n int64) Value {
	return Value{Type: TypeNumber, payload: n}
}

// StringValue constructs a string Value from decoded text.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: &Str{Text: s, Token: quoteString(s)}}
}

// StringToken constructs a string Value that prints as the given source token.
func StringToken(text, token string) Value {
	return Value{Type: TypeString, payload: &Str{Text: text, Token: token}}
}

// SymbolValue constructs a symbol Value.
func SymbolValue(s string) Value {
	return Value{Type: TypeSymbol, payload: s}
}

// KeywordValue constructs a keyword Value. The leading colon is added
// when missing.
func KeywordValue(s string) Value {
	if !strings.HasPrefix(s, ":") {
		s = ":" + s
	}
	return Value{Type: TypeKeyword, payload: s}
}

// List constructs a list from the provided values.
func List(vals ...Value) Value {
	return ListValue(vals)
}

// ListValue wraps items as a list without copying.
func ListValue(items []Value) Value {
	return Value{Type: TypeList, payload: &Seq{Items: items, Meta: Nil}}
}

// VectorValue wraps items as a vector without copying.
func VectorValue(items []Value) Value {
	return Value{Type: TypeVector, payload: &Seq{Items: items, Meta: Nil}}
}

// HashMapValue wraps alternating key/value entries as a hash-map.
func HashMapValue(entries []Value) Value {
	return Value{Type: TypeHashMap, payload: &Seq{Items: entries, Meta: Nil}}
}

// PrimitiveValue wraps the primitive function under a name.
func PrimitiveValue(name string, fn Primitive) Value {
	return Value{Type: TypePrimitive, payload: &Builtin{Name: name, Fn: fn, Meta: Nil}}
}

// ClosureValue wraps a closure over env.
func ClosureValue(params, body Value, env *Env) Value {
	return Value{
		Type:    TypeClosure,
		payload: &Closure{Params: params, Body: body, Env: env, Meta: Nil},
	}
}

// AtomValue creates a new atom holding v.
func AtomValue(v Value) Value {
	return Value{Type: TypeAtom, payload: &Atom{Value: v}}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Number() int64 {
	if n, ok := v.payload.(int64); ok {
		return n
	}
	return 0
}

// Str returns the decoded text of a string.
func (v Value) Str() string {
	if s, ok := v.payload.(*Str); ok {
		return s.Text
	}
	return ""
}

// Token returns the readable source form of a string.
func (v Value) Token() string {
	if s, ok := v.payload.(*Str); ok {
		return s.Token
	}
	return ""
}

// Sym returns the text of a symbol or keyword.
func (v Value) Sym() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

// Items returns the elements of a list or vector, or the raw entries of
// a hash-map. The slice must not be modified.
func (v Value) Items() []Value {
	if s, ok := v.payload.(*Seq); ok {
		return s.Items
	}
	return nil
}

func (v Value) Builtin() *Builtin {
	if b, ok := v.payload.(*Builtin); ok {
		return b
	}
	return nil
}

func (v Value) Closure() *Closure {
	if c, ok := v.payload.(*Closure); ok {
		return c
	}
	return nil
}

func (v Value) Atom() *Atom {
	if a, ok := v.payload.(*Atom); ok {
		return a
	}
	return nil
}

// IsSequential reports whether v is a list or a vector.
func (v Value) IsSequential() bool {
	return v.Type == TypeList || v.Type == TypeVector
}

// IsFunction reports whether v can be called.
func (v Value) IsFunction() bool {
	return v.Type == TypePrimitive || v.Type == TypeClosure
}

// IsMacro reports whether v is a closure flagged as a macro.
func (v Value) IsMacro() bool {
	c := v.Closure()
	return c != nil && c.IsMacro
}

// IsSymbolNamed reports whether v is the symbol name.
func (v Value) IsSymbolNamed(name string) bool {
	return v.Type == TypeSymbol && v.Sym() == name
}

// Meta returns the metadata attached to v, or Nil.
func (v Value) Meta() Value {
	switch p := v.payload.(type) {
	case *Seq:
		return p.Meta
	case *Closure:
		return p.Meta
	case *Builtin:
		return p.Meta
	default:
		return Nil
	}
}

// WithMeta returns a shallow copy of v carrying meta. The original value
// is left untouched.
func (v Value) WithMeta(meta Value) (Value, error) {
	switch p := v.payload.(type) {
	case *Seq:
		return Value{Type: v.Type, payload: &Seq{Items: p.Items, Meta: meta}}, nil
	case *Closure:
		cp := *p
		cp.Meta = meta
		return Value{Type: v.Type, payload: &cp}, nil
	case *Builtin:
		cp := *p
		cp.Meta = meta
		return Value{Type: v.Type, payload: &cp}, nil
	default:
		return Value{}, fmt.Errorf("with-meta: cannot attach metadata to %s", v.TypeName())
	}
}

// AsMacro returns a copy of the closure v flagged as a macro.
func (v Value) AsMacro() Value {
	c := v.Closure()
	if c == nil {
		return v
	}
	cp := *c
	cp.IsMacro = true
	return Value{Type: TypeClosure, payload: &cp}
}

// TypeName describes the value's category for error messages.
func (v Value) TypeName() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeKeyword:
		return "keyword"
	case TypeList:
		return "list"
	case TypeVector:
		return "vector"
	case TypeHashMap:
		return "hash-map"
	case TypePrimitive:
		return "primitive"
	case TypeClosure:
		if v.IsMacro() {
			return "macro"
		}
		return "closure"
	case TypeAtom:
		return "atom"
	default:
		return "unknown"
	}
}

func (v Value) String() string {
	return Render(v, true)
}

// IsTruthy reports whether a value counts as true. Only nil and false
// are falsy.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}
