package codegen

import (
	"fmt"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/semantic"
)

// Object layout constants (spec.md §6), fixed by the assembler-level
// contract regardless of what the original C++ implementation used.
const (
	ClassIDOffset       = 0
	ObjectSizeOffset    = 4
	DispatchTableOffset = 8
	ObjectContentOffset = 12
	WordSize            = 4

	// StringLengthPtrOffset is the offset of a String object's pointer
	// to its length Int object (word 3, the first content word).
	StringLengthPtrOffset = ObjectContentOffset
	// StringBytesOffset is the offset where a String object's raw
	// bytes begin (word 4, the second content word).
	StringBytesOffset = ObjectContentOffset + WordSize
)

// IdentInfo is spec.md §3's IdentifierCodegenInfo: whether a name
// resolves to an attribute slot or a stack-relative local, and its
// position.
type IdentInfo struct {
	IsAttribute bool
	Position    int32
}

// IntConst records one interned integer literal and the label
// generated for its prototype object, in first-use order.
type IntConst struct {
	Value int32
	Label string
}

// StringConst records one interned string literal and the label
// generated for its prototype object, in first-use order.
type StringConst struct {
	Value string
	Label string
}

// AttrEntry is one slot of a class's attribute layout.
type AttrEntry struct {
	Name        string
	TypeName    string
	OwningClass string
}

// DispatchEntry is one slot of a class's dispatch table: which class's
// implementation of Method occupies this slot.
type DispatchEntry struct {
	Method      string
	OwningClass string
}

// Context threads the state every codegen pass shares (spec.md §4.4):
// the semantic results (registry, method/ident tables), a running
// stack-position counter, per-prefix label counters, and interning
// tables for literal reuse.
type Context struct {
	Sem           *semantic.Context
	ClassesByName map[string]*ast.Class

	// attrPositions[class][attr] is the 0-based slot index of attr in
	// class's (and every descendant's) prototype layout.
	attrPositions map[string]map[string]int32
	attrOrder     map[string][]AttrEntry

	dispatchTables map[string][]DispatchEntry

	labelCounters map[string]int

	intConsts    []IntConst
	intLabels    map[int32]string
	stringConsts []StringConst
	stringLabels map[string]string

	// StackPos is the signed word offset from the frame pointer of the
	// most recently pushed word; each push decrements it first, so a
	// let/case local just pushed sits at StackPos*WordSize. It starts at
	// -3, not 0: the three words directly under $fp are PushStackFrame's
	// saved $ra/$s0/$fp, so the first local sits below those.
	StackPos int32

	// CurrentClass is the class whose _init or method body is
	// currently being generated, used to resolve SELF_TYPE in dispatch
	// lookups.
	CurrentClass string

	locals *semantic.SymbolTable[string, IdentInfo]
}

// NewContext builds a Context over an already type-checked program.
func NewContext(program *ast.Program, sem *semantic.Context) *Context {
	byName := make(map[string]*ast.Class, len(program.Classes))
	for _, c := range program.Classes {
		byName[c.Name] = c
	}
	return &Context{
		Sem:            sem,
		ClassesByName:  byName,
		attrPositions:  make(map[string]map[string]int32),
		attrOrder:      make(map[string][]AttrEntry),
		dispatchTables: make(map[string][]DispatchEntry),
		labelCounters:  make(map[string]int),
		intLabels:      make(map[int32]string),
		stringLabels:   make(map[string]string),
	}
}

// FreshLabel returns the next "<prefix><n>" label for prefix, where n
// increments on every call (spec.md §4.4 "Fresh labels are generated
// as <Prefix><Counter> ... increments on every call").
func (c *Context) FreshLabel(prefix string) string {
	n := c.labelCounters[prefix]
	c.labelCounters[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}

// IntLabel returns the interned label for an Int literal value,
// creating one on first use.
func (c *Context) IntLabel(v int32) (label string, isNew bool) {
	if l, ok := c.intLabels[v]; ok {
		return l, false
	}
	l := fmt.Sprintf("int_const%d", len(c.intConsts))
	c.intLabels[v] = l
	c.intConsts = append(c.intConsts, IntConst{Value: v, Label: l})
	return l, true
}

// StringLabel returns the interned label for a String literal value,
// creating one on first use.
func (c *Context) StringLabel(v string) (label string, isNew bool) {
	if l, ok := c.stringLabels[v]; ok {
		return l, false
	}
	l := fmt.Sprintf("str_const%d", len(c.stringConsts))
	c.stringLabels[v] = l
	c.stringConsts = append(c.stringConsts, StringConst{Value: v, Label: l})
	return l, true
}

// InternedInts returns every interned integer literal and its label,
// in first-use order.
func (c *Context) InternedInts() []IntConst { return c.intConsts }

// InternedStrings returns every interned string literal and its label,
// in first-use order.
func (c *Context) InternedStrings() []StringConst { return c.stringConsts }

// SetAttrLayout records the attribute layout computed for class by
// CodegenPreparePass: parent-first then own, in declaration order.
func (c *Context) SetAttrLayout(class string, entries []AttrEntry) {
	c.attrOrder[class] = entries
	positions := make(map[string]int32, len(entries))
	for i, e := range entries {
		positions[e.Name] = int32(i)
	}
	c.attrPositions[class] = positions
}

// AttrPosition returns the prototype-slot index of attr on class (own
// or inherited), computed by Prepare.
func (c *Context) AttrPosition(class, attr string) (int32, bool) {
	m, ok := c.attrPositions[class]
	if !ok {
		return 0, false
	}
	p, ok := m[attr]
	return p, ok
}

// AttrCount returns the total number of attribute slots (own plus
// inherited) in class's prototype.
func (c *Context) AttrCount(class string) int {
	return len(c.attrOrder[class])
}

// Attrs returns every attribute of class, parent-first then own, in
// declaration order (spec.md §4.4 CodegenTablesPass).
func (c *Context) Attrs(class string) []AttrEntry {
	return c.attrOrder[class]
}

// SetLocals installs the symbol table used to resolve identifiers
// while generating one method body.
func (c *Context) SetLocals(t *semantic.SymbolTable[string, IdentInfo]) {
	c.locals = t
}

// Locals returns the symbol table for the method body currently being
// generated.
func (c *Context) Locals() *semantic.SymbolTable[string, IdentInfo] {
	return c.locals
}

// SetDispatchTable records the dispatch table computed for class by
// CodegenPreparePass: one entry per method slot, parent-first, each
// naming the class whose implementation currently occupies that slot.
func (c *Context) SetDispatchTable(class string, entries []DispatchEntry) {
	c.dispatchTables[class] = entries
}

// DispatchTable returns the dispatch table for class, or nil if it has
// not been computed yet (e.g. Object before Prepare has run).
func (c *Context) DispatchTable(class string) []DispatchEntry {
	return c.dispatchTables[class]
}

// ClassesByID returns every registered class name ordered by its
// dense registry id.
func (c *Context) ClassesByID() []string {
	names := c.Sem.Registry.Classes()
	ordered := make([]string, len(names))
	for _, n := range names {
		id, _ := c.Sem.Registry.IDOf(n)
		ordered[id] = n
	}
	return ordered
}
