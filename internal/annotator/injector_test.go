package annotator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpec(t *testing.T, s string) *Spec {
	t.Helper()
	spec, err := ParseSpec(s, false)
	require.NoError(t, err)
	return spec
}

// stripMarkers drops every inserted attribute line.
func stripMarkers(lines []string) []string {
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == noinlineMarker ||
			(strings.HasPrefix(trimmed, `__attribute__((annotate("`) && strings.HasSuffix(trimmed, `")))`)) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func TestAnnotateMarker(t *testing.T) {
	assert.Equal(t, `__attribute__((annotate("hot")))`, AnnotateMarker("hot"))
	assert.Equal(t, `__attribute__((annotate("bogus-switch")))`, AnnotateMarker("bogus-switch"))
	// Labels are not escaped.
	assert.Equal(t, `__attribute__((annotate("a"b")))`, AnnotateMarker(`a"b`))
}

func TestInject_SingleLabel(t *testing.T) {
	lines := []string{"int foo() {\n", "  return 1;\n", "}\n"}

	got, matches := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, []string{
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"int foo() {\n",
		"  return 1;\n",
		"}\n",
	}, got)
	assert.Equal(t, []Match{{Line: 1, Function: "foo", Labels: []string{"hot"}, Noinline: true}}, matches)
}

func TestInject_TwoLabelsOneNoinline(t *testing.T) {
	lines := []string{"int foo() {\n", "}\n"}

	got, _ := NewInjector(mustSpec(t, "hot:foo;cold:foo")).Inject(lines)

	assert.Equal(t, []string{
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"__attribute__((annotate(\"cold\")))\n",
		"int foo() {\n",
		"}\n",
	}, got)
}

func TestInject_ThreeLabelsOneNoinline(t *testing.T) {
	lines := []string{"static void baz(int n) {\n", "}\n"}

	got, _ := NewInjector(mustSpec(t, "flatten:baz;mba:baz;bogus-switch:baz")).Inject(lines)

	noinline := 0
	for _, line := range got {
		if line == noinlineMarker+"\n" {
			noinline++
		}
	}
	assert.Equal(t, 1, noinline)
	assert.Equal(t, `__attribute__((annotate("flatten")))`+"\n", got[1])
	assert.Equal(t, `__attribute__((annotate("mba")))`+"\n", got[2])
	assert.Equal(t, `__attribute__((annotate("bogus-switch")))`+"\n", got[3])
	assert.Equal(t, "static void baz(int n) {\n", got[4])
}

func TestInject_MalformedEntryContributesNothing(t *testing.T) {
	lines := []string{"int foo() {\n", "  return 1;\n", "}\n"}

	want, _ := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)
	got, _ := NewInjector(mustSpec(t, "badentry;hot:foo")).Inject(lines)

	assert.Equal(t, want, got)
}

func TestInject_PrototypeUntouched(t *testing.T) {
	lines := []string{"void baz();\n", "int bar(int x);\n"}

	got, matches := NewInjector(mustSpec(t, "hot:baz,bar")).Inject(lines)

	assert.Equal(t, lines, got)
	assert.Empty(t, matches)
}

func TestInject_UnlistedFunctionUntouched(t *testing.T) {
	lines := []string{"int main(void) {\n", "  return 0;\n", "}\n"}

	got, matches := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, lines, got)
	assert.Empty(t, matches)
}

func TestInject_RepeatedDefinitionGetsNoinlineOnce(t *testing.T) {
	lines := []string{
		"#ifdef FAST\n",
		"int foo(void) {\n",
		"}\n",
		"#else\n",
		"int foo(void) {\n",
		"}\n",
		"#endif\n",
	}

	got, matches := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, []string{
		"#ifdef FAST\n",
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"int foo(void) {\n",
		"}\n",
		"#else\n",
		"__attribute__((annotate(\"hot\")))\n",
		"int foo(void) {\n",
		"}\n",
		"#endif\n",
	}, got)
	require.Len(t, matches, 2)
	assert.True(t, matches[0].Noinline)
	assert.False(t, matches[1].Noinline)
	assert.Equal(t, 5, matches[1].Line)
}

func TestInject_RegistryIsPerInjector(t *testing.T) {
	spec := mustSpec(t, "hot:foo")
	lines := []string{"int foo() {\n"}

	first, _ := NewInjector(spec).Inject(lines)
	second, _ := NewInjector(spec).Inject(lines)

	assert.Equal(t, first, second)
	assert.Equal(t, noinlineMarker+"\n", second[0])
}

func TestInject_CRLF(t *testing.T) {
	lines := []string{"int foo() {\r\n", "}\r\n"}

	got, _ := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, []string{
		"__attribute__((noinline))\r\n",
		"__attribute__((annotate(\"hot\")))\r\n",
		"int foo() {\r\n",
		"}\r\n",
	}, got)
}

func TestInject_LastLineWithoutTerminator(t *testing.T) {
	lines := []string{"int foo() {"}

	got, _ := NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, []string{
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"int foo() {",
	}, got)
}

func TestInject_StrippingMarkersRestoresInput(t *testing.T) {
	lines := []string{
		"#include <stdio.h>\n",
		"static int foo(int n) {\n",
		"  if (n < 107) {\n",
		"    return 4;\n",
		"  }\n",
		"  return n;\n",
		"}\n",
		"static void bar(int n) {\n",
		"  printf(\"%i\", n);\n",
		"}\n",
		"int main(void) {\n",
		"  return foo(1);\n",
		"}\n",
	}

	got, _ := NewInjector(mustSpec(t, "flatten:foo,bar;mba:bar;bogus-switch:main,bar")).Inject(lines)

	assert.Greater(t, len(got), len(lines))
	assert.Equal(t, lines, stripMarkers(got))
}

func TestInject_DoesNotModifyInput(t *testing.T) {
	lines := []string{"int foo() {\n", "}\n"}
	orig := append([]string(nil), lines...)

	NewInjector(mustSpec(t, "hot:foo")).Inject(lines)

	assert.Equal(t, orig, lines)
}

func TestInject_NotIdempotent(t *testing.T) {
	spec := mustSpec(t, "hot:foo")
	lines := []string{"int foo() {\n", "}\n"}

	once, _ := NewInjector(spec).Inject(lines)
	twice, _ := NewInjector(spec).Inject(once)

	assert.Equal(t, []string{
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"__attribute__((noinline))\n",
		"__attribute__((annotate(\"hot\")))\n",
		"int foo() {\n",
		"}\n",
	}, twice)
}
