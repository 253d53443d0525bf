package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/registry"
	"github.com/cwbudde/coolc/internal/semantic"
	"github.com/gkampitakis/go-snaps/snaps"
)

// generate runs the full frontend and semantic pipeline over source,
// then Compile, and returns the emitted assembly text.
func generate(t *testing.T, source string) string {
	t.Helper()
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	ctx := semantic.NewContext(registry.New(), source, "test.cl")
	pm := semantic.NewPassManager(
		semantic.ClassDefinitionPass{},
		semantic.ClassImplementationPass{},
		semantic.TypeCheckPass{},
	)
	if err := pm.RunAll(program, ctx); err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("unexpected semantic errors: %v", ctx.Diagnostics)
	}

	var buf bytes.Buffer
	if err := Compile(program, ctx, &buf); err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	return buf.String()
}

func countOccurrences(haystack, needle string) int {
	return strings.Count(haystack, needle)
}

// TestMinimumValidProgramEmitsRequiredLabels covers spec.md §8 scenario
// 1: a minimum valid program's output names Main_init, Main.main and
// Int_protObj.
func TestMinimumValidProgramEmitsRequiredLabels(t *testing.T) {
	asm := generate(t, `class Main { main() : Int { 0 }; };`)
	for _, label := range []string{"Main_init", "Main.main", "Int_protObj"} {
		if !strings.Contains(asm, label) {
			t.Errorf("expected output to contain %q, got:\n%s", label, asm)
		}
	}
}

// TestIntLiteralInterning covers spec.md §8 scenario 5: repeated
// occurrences (four here) of the same Int literal intern to exactly
// one int_const<k> label.
func TestIntLiteralInterning(t *testing.T) {
	asm := generate(t, `
class Main {
	main() : Int { if 0 = 0 then 0 else 0 fi };
};`)
	if n := countOccurrences(asm, "int_const0:"); n != 1 {
		t.Errorf("expected exactly one int_const0 label, found %d in:\n%s", n, asm)
	}
	if strings.Contains(asm, "int_const1:") {
		t.Errorf("expected no second interned Int constant, got:\n%s", asm)
	}
}

func TestStringLiteralInterning(t *testing.T) {
	asm := generate(t, `
class Main {
	main() : String { if true then "hi" else "hi" fi };
};`)
	if n := countOccurrences(asm, `.ascii	"hi"`); n != 1 {
		t.Errorf(`expected exactly one "hi" literal to be emitted, found %d in:\n%s`, n, asm)
	}
}

func TestDispatchTableSlotReuseUnderOverride(t *testing.T) {
	asm := generate(t, `
class A { f() : Int { 0 }; };
class B inherits A { f() : Int { 1 }; };
class Main { main() : Int { (new B).f() }; };`)
	if !strings.Contains(asm, "A.f") {
		t.Fatalf("expected A.f to still be emitted (inherited by nothing else), got:\n%s", asm)
	}
	if !strings.Contains(asm, "B.f") {
		t.Fatalf("expected B.f to be emitted, got:\n%s", asm)
	}

	// slotOf returns the index of entry among the .word lines that
	// follow table's label, or -1 if it is not there.
	slotOf := func(table, entry string) int {
		start := strings.Index(asm, table+":\n")
		if start == -1 {
			return -1
		}
		lines := strings.Split(asm[start+len(table)+2:], "\n")
		for i, line := range lines {
			if !strings.Contains(line, ".word") {
				break
			}
			if strings.HasSuffix(line, "\t"+entry) {
				return i
			}
		}
		return -1
	}
	aSlot, bSlot := slotOf("A_dispTab", "A.f"), slotOf("B_dispTab", "B.f")
	if aSlot == -1 || aSlot != bSlot {
		t.Errorf("expected B.f to occupy A.f's dispatch slot, got A.f at %d and B.f at %d in:\n%s", aSlot, bSlot, asm)
	}
}

func TestLetBindingWithoutInitializerUsesDefaultObject(t *testing.T) {
	asm := generate(t, `
class Main {
	main() : Int {
		let x : Int in x
	};
};`)
	if !strings.Contains(asm, "Int_protObj") {
		t.Errorf("expected a default Int object to be constructed, got:\n%s", asm)
	}
}

func TestCaseExpressionEmitsAncestorWalkSentinel(t *testing.T) {
	asm := generate(t, `
class Main {
	main() : Object {
		case (new Object) of
			x : Int => x;
			y : Object => y;
		esac
	};
};`)
	if !strings.Contains(asm, "2147483647") {
		t.Errorf("expected the INT_MAX no-match sentinel to appear, got:\n%s", asm)
	}
	if !strings.Contains(asm, "_case_abort") {
		t.Errorf("expected a reference to the case-abort runtime routine, got:\n%s", asm)
	}
}

// TestIntegerAdditionAssembly golden-tests the exact sequence of
// instructions generated for a method body built around one
// arithmetic expression, catching accidental drift in register
// allocation or operand order across the unbox/compute/rebox shape.
func TestIntegerAdditionAssembly(t *testing.T) {
	asm := generate(t, `
class Main {
	main() : Int { 1 + 2 };
};`)
	start := strings.Index(asm, "Main.main:")
	if start == -1 {
		t.Fatalf("could not locate Main.main in:\n%s", asm)
	}
	snaps.MatchSnapshot(t, asm[start:])
}

func TestStaticDispatchUsesTargetClassDispatchTable(t *testing.T) {
	asm := generate(t, `
class A { f() : Int { 0 }; };
class B inherits A { f() : Int { 1 }; };
class Main { main() : Int { (new B)@A.f() }; };`)
	if !strings.Contains(asm, "A_dispTab") {
		t.Errorf("expected a reference to A_dispTab for the static dispatch, got:\n%s", asm)
	}
}
