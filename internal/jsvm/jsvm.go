// Package jsvm runs synthesized predicate code in an embedded ECMAScript
// VM and cross-checks it against direct evaluation.
//
// A guard is synthesized, rendered to JavaScript and wrapped as
//
//	(function(message) { return <guard>; })
//
// The parameter gets trailing underscores when a leaf of the guard is
// itself named message.
//
// Every leaf identifier the guard uses is bound in the VM to a Go
// function that resolves the leaf through the same registry direct
// evaluation uses. Both sides record the order in which leaves are
// called, so a check proves equal results and equal short-circuit
// behaviour.
package jsvm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dop251/goja"

	"github.com/fridex/nodenator/internal/ir"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/render"
)

// ErrInterrupted is returned when the context ends while the VM runs.
var ErrInterrupted = errors.New("jsvm: interrupted")

// VM executes rendered guards. A VM is cheap; each Run uses a fresh
// goja runtime.
type VM struct {
	resolver predicate.Resolver
	renderer *render.JavaScript
}

// New creates a VM resolving leaf functions through r.
func New(r predicate.Resolver) *VM {
	return &VM{resolver: r, renderer: render.NewJavaScript()}
}

// Outcome is the result of one side of a check.
type Outcome struct {
	Result bool
	Calls  []string
}

// Source returns the JavaScript program run for p.
func (v *VM) Source(p predicate.Predicate) (string, error) {
	param := messageParam(p)
	body, err := v.renderer.Expr(predicate.SynthesizeWith(p, param))
	if err != nil {
		return "", fmt.Errorf("render guard: %w", err)
	}
	return fmt.Sprintf("(function(%s) {\n  return %s;\n})", param, body), nil
}

// messageParam picks a wrapper parameter name no leaf of p uses.
func messageParam(p predicate.Predicate) string {
	used := predicate.Used(p)
	name := predicate.DefaultMessageIdentifier
	for slices.Contains(used, name) {
		name += "_"
	}
	return name
}

// Run executes the rendered form of p against msg.
func (v *VM) Run(ctx context.Context, p predicate.Predicate, msg predicate.Message) (Outcome, error) {
	src, err := v.Source(p)
	if err != nil {
		return Outcome{}, err
	}
	program, err := goja.Compile("guard.js", src, true)
	if err != nil {
		return Outcome{}, fmt.Errorf("compile guard: %w", err)
	}

	rt := goja.New()
	var out Outcome
	// The first Go-side failure; the JS exception it raises only carries
	// its text.
	var callErr error

	sites := make(map[string][]ir.Object)
	collectArgs(p, sites)

	for _, name := range dedupe(predicate.Used(p)) {
		fn, err := v.resolver.Lookup(name)
		if err != nil {
			return Outcome{}, err
		}
		name := name
		binding := func(call goja.FunctionCall) goja.Value {
			out.Calls = append(out.Calls, name)
			args, err := exportArgs(call.Argument(1))
			if err == nil {
				args = restoreKinds(args, sites[name])
				var ret any
				ret, err = fn(msg, args)
				if err == nil {
					b, ok := ret.(bool)
					if ok {
						return rt.ToValue(b)
					}
					err = predicate.NewContractViolationError(name, ret)
				} else {
					err = fmt.Errorf("%s: %w", name, err)
				}
			}
			if callErr == nil {
				callErr = err
			}
			panic(rt.NewGoError(err))
		}
		if err := rt.Set(name, binding); err != nil {
			return Outcome{}, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	fnValue, err := rt.RunProgram(program)
	if err != nil {
		return Outcome{}, fmt.Errorf("load guard: %w", err)
	}
	guard, ok := goja.AssertFunction(fnValue)
	if !ok {
		return Outcome{}, fmt.Errorf("guard program did not produce a function")
	}

	ictx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ictx.Done()
		rt.Interrupt(ErrInterrupted)
	}()

	result, err := guard(goja.Undefined(), rt.ToValue(msg.Payload()))
	if err != nil {
		if callErr != nil {
			return out, callErr
		}
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return out, ErrInterrupted
		}
		return out, fmt.Errorf("run guard: %w", err)
	}

	b, ok := result.Export().(bool)
	if !ok {
		return out, fmt.Errorf("guard returned %T, not a boolean", result.Export())
	}
	out.Result = b
	return out, nil
}

// Direct evaluates p the way the engine does, resolving every leaf
// through the VM's registry so its calls can be recorded.
func (v *VM) Direct(p predicate.Predicate, msg predicate.Message) (Outcome, error) {
	var out Outcome
	instrumented, err := v.instrument(p, &out.Calls)
	if err != nil {
		return Outcome{}, err
	}
	out.Result, err = predicate.Evaluate(instrumented, msg)
	return out, err
}

// Check runs p both ways and returns a MismatchError if the results or
// the leaf call orders differ.
func (v *VM) Check(ctx context.Context, p predicate.Predicate, msg predicate.Message) (Outcome, error) {
	direct, err := v.Direct(p, msg)
	if err != nil {
		return Outcome{}, fmt.Errorf("direct evaluation: %w", err)
	}
	vm, err := v.Run(ctx, p, msg)
	if err != nil {
		return Outcome{}, fmt.Errorf("vm evaluation: %w", err)
	}

	if direct.Result != vm.Result || !slices.Equal(direct.Calls, vm.Calls) {
		src, _ := v.Source(p)
		return direct, &MismatchError{Guard: p.String(), Source: src, Direct: direct, VM: vm}
	}

	slog.Debug("guard verified", "guard", p.String(), "result", direct.Result, "calls", len(direct.Calls))
	return direct, nil
}

func (v *VM) instrument(p predicate.Predicate, calls *[]string) (predicate.Predicate, error) {
	switch node := p.(type) {
	case *predicate.Leaf:
		fn, err := v.resolver.Lookup(node.Function())
		if err != nil {
			return nil, err
		}
		name := node.Function()
		recorded := func(msg predicate.Message, args ir.Object) (any, error) {
			*calls = append(*calls, name)
			return fn(msg, args)
		}
		return predicate.NewLeaf(name, recorded, node.Args())
	case *predicate.And:
		children, err := v.instrumentAll(node.Children(), calls)
		if err != nil {
			return nil, err
		}
		return predicate.NewAnd(children...)
	case *predicate.Or:
		children, err := v.instrumentAll(node.Children(), calls)
		if err != nil {
			return nil, err
		}
		return predicate.NewOr(children...)
	case *predicate.Not:
		child, err := v.instrument(node.Child(), calls)
		if err != nil {
			return nil, err
		}
		return predicate.NewNot(child)
	default:
		return nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (v *VM) instrumentAll(children []predicate.Predicate, calls *[]string) ([]predicate.Predicate, error) {
	out := make([]predicate.Predicate, len(children))
	for i, child := range children {
		c, err := v.instrument(child, calls)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// exportArgs converts the keyword object of a rendered call back into
// leaf arguments.
func exportArgs(v goja.Value) (ir.Object, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ir.Object{}, nil
	}
	m, ok := v.Export().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("keyword arguments must be an object, got %T", v.Export())
	}
	return ir.ObjectFromMap(m)
}

// collectArgs appends the arguments of every leaf of p to sites, keyed
// by function.
func collectArgs(p predicate.Predicate, sites map[string][]ir.Object) {
	switch node := p.(type) {
	case *predicate.Leaf:
		sites[node.Function()] = append(sites[node.Function()], node.Args())
	case *predicate.And:
		for _, child := range node.Children() {
			collectArgs(child, sites)
		}
	case *predicate.Or:
		for _, child := range node.Children() {
			collectArgs(child, sites)
		}
	case *predicate.Not:
		collectArgs(node.Child(), sites)
	}
}

// restoreKinds returns the declared arguments of the first call site
// equal to got. The VM has a single number type, so 2.0 comes back as
// an Int; leaves must see the literal kinds they were declared with.
func restoreKinds(got ir.Object, sites []ir.Object) ir.Object {
	for _, want := range sites {
		if sameArgs(got, want) {
			return want.Clone()
		}
	}
	return got
}

func sameArgs(a, b ir.Object) bool {
	if len(a) != len(b) {
		return false
	}
	for k, want := range b {
		got, ok := a[k]
		if !ok || !ir.Equal(got, want) {
			return false
		}
	}
	return true
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// MismatchError reports a guard whose rendered form disagrees with
// direct evaluation.
type MismatchError struct {
	Guard  string
	Source string
	Direct Outcome
	VM     Outcome
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("synthesis mismatch for %s: direct=%t calls=%v, vm=%t calls=%v",
		e.Guard, e.Direct.Result, e.Direct.Calls, e.VM.Result, e.VM.Calls)
}

// IsMismatch returns true if err is a MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}
