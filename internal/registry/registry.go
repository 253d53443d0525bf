// Package registry implements the class registry and inheritance
// arithmetic: id assignment, cycle detection, conformance, and least
// common ancestor. Grounded in the teacher's internal/semantic class
// bookkeeping (analyze_classes_inheritance.go, analyze_classes_decl.go)
// generalized from DWScript's ClassType map to COOL's fixed, small
// type lattice rooted at Object.
package registry

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ast"
)

// Reserved built-in class names. Object is the universal root; IO is
// the built-in I/O class; Int, String and Bool are COOL's primitive
// types. SelfType is never itself a
// registered class — it is a marker carried on ast.ExprType.
const (
	Object   = "Object"
	IO       = "IO"
	Int      = "Int"
	String   = "String"
	Bool     = "Bool"
	SelfType = "SELF_TYPE"
)

// builtins lists the reserved class names in the fixed id order they
// are pre-registered, Object first so it is always id 0.
var builtins = []string{Object, IO, Int, String, Bool}

// noParentsAllowed lists classes that may not be named as a parent.
var noParentsAllowed = map[string]bool{Int: true, String: true, Bool: true, SelfType: true}

// Registry holds every class in the program, keyed by a dense id
// assigned in insertion order, plus the parent/child edges between
// them (spec.md §3 ClassRegistry state).
type Registry struct {
	namesToIds      map[string]uint32
	idsToNodes      map[uint32]*ast.Class
	inheritanceTree map[string][]string
	parentOf        map[string]string
	order           []string
}

// New creates a Registry with the five built-in classes pre-registered,
// Object as the universal root with no parent. Each built-in method is
// declared with a nil Body: its implementation lives in the MIPS
// runtime as an externally-defined `.globl` symbol (SPEC_FULL.md §3),
// but it still needs a dispatch-table slot and a method-table entry
// like any user-defined method.
func New() *Registry {
	r := &Registry{
		namesToIds:      make(map[string]uint32),
		idsToNodes:      make(map[uint32]*ast.Class),
		inheritanceTree: make(map[string][]string),
		parentOf:        make(map[string]string),
	}
	for _, name := range builtins {
		parent := ""
		if name != Object {
			parent = Object
		}
		r.register(&ast.Class{
			Name: name, Parent: parent, BuiltIn: true,
			Methods: builtinMethods[name],
		})
	}
	return r
}

func formal(id, typeName string) *ast.Formal { return &ast.Formal{ID: id, TypeName: typeName} }

func method(id, returnType string, formals ...*ast.Formal) *ast.Method {
	return &ast.Method{ID: id, ReturnTypeName: returnType, Formals: formals}
}

// builtinMethods lists the method signatures every built-in class
// declares, per spec.md §3/§6: their bodies are supplied by the MIPS
// runtime, never by Go code.
var builtinMethods = map[string][]*ast.Method{
	Object: {
		method("abort", Object),
		method("type_name", String),
		method("copy", SelfType),
	},
	IO: {
		method("out_string", SelfType, formal("x", String)),
		method("out_int", SelfType, formal("x", Int)),
		method("in_string", String),
		method("in_int", Int),
	},
	String: {
		method("length", Int),
		method("concat", String, formal("s", String)),
		method("substr", String, formal("i", Int), formal("l", Int)),
	},
}

func (r *Registry) register(c *ast.Class) {
	id := uint32(len(r.order))
	r.namesToIds[c.Name] = id
	r.idsToNodes[id] = c
	r.order = append(r.order, c.Name)
	if c.Parent != "" {
		r.parentOf[c.Name] = c.Parent
		r.inheritanceTree[c.Parent] = append(r.inheritanceTree[c.Parent], c.Name)
	}
}

// IsReserved reports whether name is a built-in class name or SELF_TYPE,
// neither of which a program may declare as a class.
func IsReserved(name string) bool {
	if name == SelfType {
		return true
	}
	for _, b := range builtins {
		if b == name {
			return true
		}
	}
	return false
}

// AddClass registers a user class, defaulting its parent to Object when
// absent. Fails if the name is reserved or already registered.
func (r *Registry) AddClass(c *ast.Class) error {
	if IsReserved(c.Name) {
		return fmt.Errorf("class %s redefines a basic class", c.Name)
	}
	if _, exists := r.namesToIds[c.Name]; exists {
		return fmt.Errorf("cannot redefine classes: %s", c.Name)
	}
	parent := c.Parent
	if parent == "" {
		parent = Object
		c.Parent = Object
	}
	if noParentsAllowed[parent] {
		return fmt.Errorf("class %s cannot inherit from %s", c.Name, parent)
	}
	r.register(c)
	return nil
}

// Lookup returns the class node registered under name.
func (r *Registry) Lookup(name string) (*ast.Class, bool) {
	id, ok := r.namesToIds[name]
	if !ok {
		return nil, false
	}
	return r.idsToNodes[id], true
}

// IsRegistered reports whether name is a known class.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.namesToIds[name]
	return ok
}

// IDOf returns the dense id assigned to name.
func (r *Registry) IDOf(name string) (uint32, bool) {
	id, ok := r.namesToIds[name]
	return id, ok
}

// NameOf returns the class name registered under id.
func (r *Registry) NameOf(id uint32) (string, bool) {
	c, ok := r.idsToNodes[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}

// Parent returns the parent name of a class, "" for Object.
func (r *Registry) Parent(name string) string {
	return r.parentOf[name]
}

// ClassCount returns the number of registered classes (built-in and
// user-defined).
func (r *Registry) ClassCount() int { return len(r.order) }

// Classes returns every registered class name in id order.
func (r *Registry) Classes() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// CheckInheritance verifies every parent name resolves to a registered
// class and that the inheritance graph is acyclic, by a depth-first
// walk from Object tracking a recursion stack; any re-entry into the
// stack is a cycle (spec.md §4.1).
func (r *Registry) CheckInheritance() error {
	for name, parent := range r.parentOf {
		if !r.IsRegistered(parent) {
			return fmt.Errorf("class %s inherits from undefined class %s", name, parent)
		}
	}

	onStack := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if onStack[name] {
			return fmt.Errorf("cyclic class dependency detected")
		}
		if visited[name] {
			return nil
		}
		onStack[name] = true
		visited[name] = true
		for _, child := range r.inheritanceTree[name] {
			if err := visit(child); err != nil {
				return err
			}
		}
		onStack[name] = false
		return nil
	}

	if err := visit(Object); err != nil {
		return err
	}
	// Every class must be reachable from Object; any name not yet
	// visited is itself the root of an isolated cycle.
	for _, name := range r.order {
		if !visited[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// TopologicalOrder returns every registered class name (built-in and
// user-defined) such that a class always appears before its children,
// for passes that must process parents before children (spec.md §4.3
// ClassImplementationPass, §9 dispatch-slot assignment).
func (r *Registry) TopologicalOrder() []string {
	var order []string
	var visit func(name string)
	visit = func(name string) {
		order = append(order, name)
		for _, child := range r.inheritanceTree[name] {
			visit(child)
		}
	}
	visit(Object)
	return order
}

// ancestorChain returns name and every ancestor up to and including
// Object, root first.
func (r *Registry) ancestorChain(name string) []string {
	var chain []string
	for cur := name; ; {
		chain = append(chain, cur)
		if cur == Object {
			break
		}
		cur = r.parentOf[cur]
	}
	// reverse into root-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// ConformTo reports whether child conforms to parent (spec.md §4.1):
// SELF_TYPE to SELF_TYPE requires equal enclosing classes; a SELF_TYPE
// child conforms like its enclosing class; a concrete child never
// conforms to a SELF_TYPE parent; otherwise conformance walks the
// child's ancestor chain looking for parent.
func (r *Registry) ConformTo(child, parent ast.ExprType) bool {
	if child.IsSelf && parent.IsSelf {
		return child.ClassName == parent.ClassName
	}
	if child.IsSelf && !parent.IsSelf {
		return r.conformToName(child.ClassName, parent.ClassName)
	}
	if parent.IsSelf {
		return false
	}
	return r.conformToName(child.ClassName, parent.ClassName)
}

func (r *Registry) conformToName(childName, parentName string) bool {
	if childName == parentName {
		return true
	}
	for cur := childName; cur != ""; cur = r.parentOf[cur] {
		if cur == parentName {
			return true
		}
		if cur == Object {
			break
		}
	}
	return false
}

// LeastCommonAncestor brings both types to the nearest common ancestor
// in the inheritance tree (spec.md §4.1). When both inputs carry the
// same SELF_TYPE enclosing class, the result is that SELF_TYPE;
// otherwise the SELF_TYPE marker is dropped and the computation
// proceeds over concrete class names.
func (r *Registry) LeastCommonAncestor(a, b ast.ExprType) ast.ExprType {
	if a.IsSelf && b.IsSelf && a.ClassName == b.ClassName {
		return a
	}
	name := r.leastCommonAncestorName(a.ClassName, b.ClassName)
	return ast.ConcreteType(name)
}

func (r *Registry) leastCommonAncestorName(a, b string) string {
	chainA := r.ancestorChain(a)
	chainB := r.ancestorChain(b)
	// Walk both from the root (index 0) until they diverge; the last
	// name they agree on is the LCA. Both chains start at Object so
	// they always agree at index 0.
	lca := Object
	for i := 0; i < len(chainA) && i < len(chainB); i++ {
		if chainA[i] != chainB[i] {
			break
		}
		lca = chainA[i]
	}
	return lca
}
