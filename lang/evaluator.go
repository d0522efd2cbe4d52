package lang

import (
	"errors"
	"fmt"
)

// Evaluator executes programs against a global environment.
type Evaluator struct {
	Global *Env
}

// NewEvaluator constructs an evaluator rooted at a new global environment.
func NewEvaluator() *Evaluator {
	global := NewEnv(nil)
	return &Evaluator{Global: global}
}

// Eval evaluates a single expression within the provided environment.
func (ev *Evaluator) Eval(expr Value, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	state := &evalState{
		expr: expr,
		env:  env,
	}
	return ev.run(state)
}

// Apply invokes a function with already evaluated arguments.
func (ev *Evaluator) Apply(fn Value, args []Value) (Value, error) {
	state := &evalState{env: ev.Global}
	if err := ev.invokeProcedure(state, fn, args); err != nil {
		return Value{}, err
	}
	return ev.run(state)
}

// EvalAll evaluates a sequence of expressions and returns the last result.
func (ev *Evaluator) EvalAll(exprs []Value, env *Env) (Value, error) {
	result := Nil
	for _, expr := range exprs {
		val, err := ev.Eval(expr, env)
		if err != nil {
			return Value{}, err
		}
		result = val
	}
	return result, nil
}

// MacroExpand repeatedly expands ast while its head names a macro.
func (ev *Evaluator) MacroExpand(ast Value, env *Env) (Value, error) {
	if env == nil {
		env = ev.Global
	}
	for {
		macro, ok := macroFor(ast, env)
		if !ok {
			return ast, nil
		}
		expanded, err := ev.Apply(macro, ast.Items()[1:])
		if err != nil {
			return Value{}, err
		}
		ast = expanded
	}
}

func macroFor(ast Value, env *Env) (Value, bool) {
	if ast.Type != TypeList {
		return Value{}, false
	}
	items := ast.Items()
	if len(items) == 0 || items[0].Type != TypeSymbol {
		return Value{}, false
	}
	val, ok := env.Lookup(items[0].Sym())
	if !ok || !val.IsMacro() {
		return Value{}, false
	}
	return val, true
}

func (ev *Evaluator) run(state *evalState) (Value, error) {
	for {
		var err error
		if state.returning {
			if len(state.cont) == 0 {
				return state.value, nil
			}
			frame := state.pop()
			err = frame.apply(ev, state.value, state)
		} else {
			err = ev.evaluateCurrent(state)
		}
		if err != nil && !state.unwind(err) {
			return Value{}, err
		}
	}
}

type evalState struct {
	expr      Value
	env       *Env
	cont      []frame
	value     Value
	returning bool
}

func (st *evalState) push(f frame) {
	st.cont = append(st.cont, f)
}

func (st *evalState) pop() frame {
	l := len(st.cont)
	if l == 0 {
		return nil
	}
	f := st.cont[l-1]
	st.cont = st.cont[:l-1]
	return f
}

func (st *evalState) setExpr(expr Value, env *Env) {
	st.expr = expr
	if env != nil {
		st.env = env
	}
	st.returning = false
}

func (st *evalState) setValue(val Value) {
	st.value = val
	st.returning = true
}

// unwind drops frames up to the nearest try* handler and resumes in its
// catch body. It reports false when err is not a thrown value or no
// handler is active.
func (st *evalState) unwind(err error) bool {
	var thrown *ThrownError
	if !errors.As(err, &thrown) {
		return false
	}
	for len(st.cont) > 0 {
		handler, ok := st.pop().(*tryFrame)
		if !ok {
			continue
		}
		env := NewEnv(handler.env)
		env.Set(handler.name, thrown.Value)
		st.setExpr(handler.body, env)
		return true
	}
	return false
}

type frame interface {
	apply(ev *Evaluator, val Value, state *evalState) error
}

func (ev *Evaluator) evaluateCurrent(state *evalState) error {
	switch state.expr.Type {
	case TypeSymbol:
		val, err := state.env.Get(state.expr.Sym())
		if err != nil {
			return err
		}
		state.setValue(val)
		return nil
	case TypeVector, TypeHashMap:
		f := &collectFrame{
			kind: state.expr.Type,
			src:  state.expr.Items(),
			env:  state.env,
		}
		f.advance(state)
		return nil
	case TypeList:
		return ev.evaluateList(state)
	default:
		state.setValue(state.expr)
		return nil
	}
}

func (ev *Evaluator) evaluateList(state *evalState) error {
	list := state.expr
	items := list.Items()
	if len(items) == 0 {
		state.setValue(list)
		return nil
	}

	if macro, ok := macroFor(list, state.env); ok {
		expanded, err := ev.Apply(macro, items[1:])
		if err != nil {
			return err
		}
		state.setExpr(expanded, state.env)
		return nil
	}

	head := items[0]
	if head.Type == TypeSymbol {
		args := items[1:]
		switch head.Sym() {
		case "def!":
			return ev.evalDefine(args, state, false)
		case "defmacro!":
			return ev.evalDefine(args, state, true)
		case "macroexpand":
			return ev.evalMacroExpand(args, state)
		case "let*":
			return ev.evalLet(args, state)
		case "quote":
			return ev.evalQuote(args, state)
		case "quasiquote":
			return ev.evalQuasiQuote(args, state, false)
		case "quasiquoteexpand":
			return ev.evalQuasiQuote(args, state, true)
		case "do":
			return ev.evalDo(args, state)
		case "if":
			return ev.evalIf(args, state)
		case "try*":
			return ev.evalTry(args, state)
		case "fn*":
			return ev.evalFn(args, state)
		}
	}

	state.push(&callFrame{
		env:       state.env,
		remaining: items[1:],
	})
	state.setExpr(head, state.env)
	return nil
}

type defineFrame struct {
	name  string
	env   *Env
	macro bool
}

func (f *defineFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	if f.macro && val.Type == TypeClosure {
		val = val.AsMacro()
	}
	f.env.Set(f.name, val)
	state.setValue(val)
	return nil
}

func (ev *Evaluator) evalDefine(args []Value, state *evalState, macro bool) error {
	form := "def!"
	if macro {
		form = "defmacro!"
	}
	if len(args) != 2 {
		return fmt.Errorf("%s expects a name and a value", form)
	}
	if args[0].Type != TypeSymbol {
		return fmt.Errorf("%s name must be a symbol, got %s", form, args[0].TypeName())
	}
	state.push(&defineFrame{name: args[0].Sym(), env: state.env, macro: macro})
	state.setExpr(args[1], state.env)
	return nil
}

func (ev *Evaluator) evalMacroExpand(args []Value, state *evalState) error {
	if len(args) != 1 {
		return fmt.Errorf("macroexpand expects 1 argument")
	}
	expanded, err := ev.MacroExpand(args[0], state.env)
	if err != nil {
		return err
	}
	state.setValue(expanded)
	return nil
}

type letFrame struct {
	bindings []Value
	next     int
	body     Value
	env      *Env
}

func (f *letFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	f.env.Set(f.bindings[f.next].Sym(), val)
	f.next += 2
	f.step(state)
	return nil
}

func (f *letFrame) step(state *evalState) {
	if f.next >= len(f.bindings) {
		state.setExpr(f.body, f.env)
		return
	}
	state.push(f)
	state.setExpr(f.bindings[f.next+1], f.env)
}

func (ev *Evaluator) evalLet(args []Value, state *evalState) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("let* expects bindings and a body")
	}
	if !args[0].IsSequential() {
		return fmt.Errorf("let* bindings must be a list or vector, got %s", args[0].TypeName())
	}
	bindings := args[0].Items()
	if len(bindings)%2 != 0 {
		return fmt.Errorf("let* bindings must come in pairs, got %d forms", len(bindings))
	}
	for i := 0; i < len(bindings); i += 2 {
		if bindings[i].Type != TypeSymbol {
			return fmt.Errorf("let* binding name must be a symbol, got %s", bindings[i].TypeName())
		}
	}
	body := Nil
	if len(args) == 2 {
		body = args[1]
	}
	f := &letFrame{
		bindings: bindings,
		body:     body,
		env:      NewEnv(state.env),
	}
	f.step(state)
	return nil
}

func (ev *Evaluator) evalQuote(args []Value, state *evalState) error {
	if len(args) != 1 {
		return fmt.Errorf("quote expects 1 argument")
	}
	state.setValue(args[0])
	return nil
}

func (ev *Evaluator) evalQuasiQuote(args []Value, state *evalState, expandOnly bool) error {
	if len(args) != 1 {
		return fmt.Errorf("quasiquote expects 1 argument")
	}
	expanded := QuasiquoteExpand(args[0])
	if expandOnly {
		state.setValue(expanded)
		return nil
	}
	state.setExpr(expanded, state.env)
	return nil
}

type beginFrame struct {
	exprs []Value
	env   *Env
}

func (f *beginFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	next := f.exprs[0]
	rest := f.exprs[1:]
	if len(rest) > 0 {
		state.push(&beginFrame{exprs: rest, env: f.env})
	}
	state.setExpr(next, f.env)
	return nil
}

func (ev *Evaluator) evalDo(args []Value, state *evalState) error {
	if len(args) == 0 {
		state.setValue(Nil)
		return nil
	}
	if len(args) > 1 {
		state.push(&beginFrame{exprs: args[1:], env: state.env})
	}
	state.setExpr(args[0], state.env)
	return nil
}

type ifFrame struct {
	consequent Value
	alternate  Value
	hasAlt     bool
	env        *Env
}

func (f *ifFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	if IsTruthy(val) {
		state.setExpr(f.consequent, f.env)
		return nil
	}
	if !f.hasAlt {
		state.setValue(Nil)
		return nil
	}
	state.setExpr(f.alternate, f.env)
	return nil
}

func (ev *Evaluator) evalIf(args []Value, state *evalState) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("if expects 2 or 3 arguments")
	}
	f := &ifFrame{
		consequent: args[1],
		env:        state.env,
	}
	if len(args) == 3 {
		f.alternate = args[2]
		f.hasAlt = true
	}
	state.push(f)
	state.setExpr(args[0], state.env)
	return nil
}

// tryFrame marks an active try* handler. A normal return passes through.
type tryFrame struct {
	name string
	body Value
	env  *Env
}

func (f *tryFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	state.setValue(val)
	return nil
}

func (ev *Evaluator) evalTry(args []Value, state *evalState) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("try* expects a body and an optional catch* clause")
	}
	if len(args) == 1 {
		state.setExpr(args[0], state.env)
		return nil
	}
	clause := args[1]
	parts := clause.Items()
	if clause.Type != TypeList || len(parts) < 2 || len(parts) > 3 || !parts[0].IsSymbolNamed("catch*") {
		return fmt.Errorf("try* clause must have the form (catch* name handler)")
	}
	if parts[1].Type != TypeSymbol {
		return fmt.Errorf("catch* binding must be a symbol, got %s", parts[1].TypeName())
	}
	handler := Nil
	if len(parts) == 3 {
		handler = parts[2]
	}
	state.push(&tryFrame{name: parts[1].Sym(), body: handler, env: state.env})
	state.setExpr(args[0], state.env)
	return nil
}

func (ev *Evaluator) evalFn(args []Value, state *evalState) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("fn* expects parameters and a body")
	}
	params := args[0]
	if !params.IsSequential() {
		return fmt.Errorf("fn* parameters must be a list or vector, got %s", params.TypeName())
	}
	for _, p := range params.Items() {
		if p.Type != TypeSymbol {
			return fmt.Errorf("fn* parameter must be a symbol, got %s", p.TypeName())
		}
	}
	body := Nil
	if len(args) == 2 {
		body = args[1]
	}
	state.setValue(ClosureValue(params, body, state.env))
	return nil
}

// collectFrame evaluates the elements of a vector, or the value positions
// of a hash-map, left to right.
type collectFrame struct {
	kind ValueType
	src  []Value
	out  []Value
	env  *Env
}

func (f *collectFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	f.out = append(f.out, val)
	f.advance(state)
	return nil
}

func (f *collectFrame) advance(state *evalState) {
	for f.kind == TypeHashMap && len(f.out) < len(f.src) && len(f.out)%2 == 0 {
		f.out = append(f.out, f.src[len(f.out)])
	}
	if len(f.out) == len(f.src) {
		if f.kind == TypeHashMap {
			state.setValue(HashMapValue(f.out))
		} else {
			state.setValue(VectorValue(f.out))
		}
		return
	}
	state.push(f)
	state.setExpr(f.src[len(f.out)], f.env)
}

func (ev *Evaluator) invokeProcedure(state *evalState, operator Value, args []Value) error {
	switch operator.Type {
	case TypePrimitive:
		b := operator.Builtin()
		if b == nil || b.Fn == nil {
			return fmt.Errorf("invalid primitive")
		}
		val, err := b.Fn(ev, args)
		if err != nil {
			return err
		}
		state.setValue(val)
	case TypeClosure:
		closure := operator.Closure()
		if closure == nil {
			return fmt.Errorf("invalid closure")
		}
		newEnv, err := Bind(closure.Env, closure.Params, args)
		if err != nil {
			return err
		}
		state.setExpr(closure.Body, newEnv)
	default:
		return fmt.Errorf("cannot call non-function %s", Render(operator, true))
	}
	return nil
}

type callFrame struct {
	env          *Env
	operator     Value
	remaining    []Value
	args         []Value
	operatorDone bool
}

func (f *callFrame) apply(ev *Evaluator, val Value, state *evalState) error {
	if !f.operatorDone {
		f.operator = val
		f.operatorDone = true
	} else {
		f.args = append(f.args, val)
	}

	if len(f.remaining) == 0 {
		return ev.invokeProcedure(state, f.operator, f.args)
	}

	next := f.remaining[0]
	f.remaining = f.remaining[1:]
	state.push(f)
	state.setExpr(next, f.env)
	return nil
}
