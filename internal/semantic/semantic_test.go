package semantic

import (
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/registry"
)

// compile runs the lexer, parser and all three semantic passes over
// source and returns the resulting Context for assertions.
func compile(t *testing.T, source string) *Context {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	ctx := NewContext(registry.New(), source, "test.cl")
	pm := NewPassManager(ClassDefinitionPass{}, ClassImplementationPass{}, TypeCheckPass{})
	if err := pm.RunAll(program, ctx); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	return ctx
}

func diagMessages(ctx *Context) []string {
	msgs := make([]string, len(ctx.Diagnostics))
	for i, d := range ctx.Diagnostics {
		msgs[i] = d.Message
	}
	return msgs
}

func containsSubstring(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestMinimumValidProgram(t *testing.T) {
	ctx := compile(t, `class Main { main() : Int { 0 }; };`)
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", diagMessages(ctx))
	}
}

func TestClassRedefinitionError(t *testing.T) {
	ctx := compile(t, `class A { }; class A { };`)
	if !ctx.HasErrors() {
		t.Fatal("expected a redefinition error")
	}
	if !containsSubstring(diagMessages(ctx), "cannot redefine classes") {
		t.Errorf("expected 'cannot redefine classes', got %v", diagMessages(ctx))
	}
}

func TestInheritanceCycle(t *testing.T) {
	ctx := compile(t, `class A inherits B { }; class B inherits A { };`)
	if !ctx.HasErrors() {
		t.Fatal("expected a cycle error")
	}
	if !containsSubstring(diagMessages(ctx), "cyclic class dependency detected") {
		t.Errorf("expected cyclic-dependency error, got %v", diagMessages(ctx))
	}
}

func TestMethodOverrideSignatureMismatch(t *testing.T) {
	src := `
		class A { f(x: Int): Int { x }; };
		class B inherits A { f(x: Bool): Int { 0 }; };
		class Main { main(): Int { 0 }; };
	`
	ctx := compile(t, src)
	if !ctx.HasErrors() {
		t.Fatal("expected a signature-mismatch error")
	}
	want := "Type of argument x in method f differs from parent method. Expected Int, actual Bool"
	if !containsSubstring(diagMessages(ctx), want) {
		t.Errorf("expected %q, got %v", want, diagMessages(ctx))
	}
}

func TestLetScopeIsolation(t *testing.T) {
	src := `
		class Main {
			main(): Int {
				let x: Int <- 1 in {
					let x: String <- "two" in x;
					x + 1;
				}
			};
		};
	`
	ctx := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", diagMessages(ctx))
	}
}

func TestAttributeRedefinitionAcrossInheritance(t *testing.T) {
	src := `
		class A { x: Int; };
		class B inherits A { x: Int; };
		class Main { main(): Int { 0 }; };
	`
	ctx := compile(t, src)
	if !ctx.HasErrors() {
		t.Fatal("expected an attribute redefinition error")
	}
}

func TestDispatchArgumentConformance(t *testing.T) {
	src := `
		class A { f(x: Int): Int { x }; };
		class Main {
			main(): Int {
				(new A).f("not an int")
			};
		};
	`
	ctx := compile(t, src)
	if !ctx.HasErrors() {
		t.Fatal("expected a non-conformant argument error")
	}
}

func TestSelfTypeDispatchReturnsReceiverType(t *testing.T) {
	src := `
		class A {
			copySelf(): SELF_TYPE { self };
		};
		class B inherits A { };
		class Main {
			main(): Int {
				let b: B <- new B in
					let c: B <- b.copySelf() in 0
			};
		};
	`
	ctx := compile(t, src)
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", diagMessages(ctx))
	}
}
