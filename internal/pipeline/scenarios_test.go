package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenario* exercises the §8 worked examples end to end: source in,
// Lua substrings that must appear in the output. These check shape rather
// than byte-exact text, since the emitter is free to choose its own
// whitespace as long as the semantics the spec pins (§8 S1-S6) hold.

func TestScenarioSimpleFunction(t *testing.T) {
	r := Transpile("function add(a,b){ return a+b; }", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "function add(a, b)")
	assert.Contains(t, r.Lua, "return a + b")
	assert.Contains(t, r.Lua, "end")
}

func TestScenarioForOfArray(t *testing.T) {
	r := Transpile("for (const x of [1,2,3]) console.log(x);", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "__ls.iter({1, 2, 3})")
	assert.Contains(t, r.Lua, "console.log(x)")
	assert.Contains(t, r.Lua, "break")
}

func TestScenarioObjectDestructuringWithDefaults(t *testing.T) {
	r := Transpile("const { x: a = 10, y } = pt;", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "local a")
	assert.Contains(t, r.Lua, "10")
	assert.Contains(t, r.Lua, "local y")
}

func TestScenarioOptionalChainingNullish(t *testing.T) {
	r := Transpile("const v = obj?.inner?.value ?? 0;", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "local v")
	assert.Contains(t, r.Lua, "== nil")
}

func TestScenarioGenerator(t *testing.T) {
	r := Transpile("function* g(){ yield 1; yield 2; }", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "coroutine.wrap(function()")
	assert.Contains(t, r.Lua, "coroutine.yield(1)")
	assert.Contains(t, r.Lua, "coroutine.yield(2)")
}

func TestScenarioClassInheritance(t *testing.T) {
	src := `class A { constructor(x) { this.x = x; } }
class B extends A { constructor(x) { super(x); this.x = x; } }`
	r := Transpile(src, DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "B.__index = B")
	assert.Contains(t, r.Lua, "setmetatable(B,")
	assert.Contains(t, r.Lua, "self.__super.constructor(self, x)")
	assert.Contains(t, r.Lua, "B.new")
}

func TestScenarioSpreadInCall(t *testing.T) {
	r := Transpile("f(a, ...b, c);", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "__ls.apply(f")
	assert.Contains(t, r.Lua, "table.unpack(b)")
}

func TestScenarioTemplateLiteral(t *testing.T) {
	r := Transpile("const s = `hi ${name}!`;", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "..")
	assert.NotContains(t, r.Lua, "${")
}

func TestScenarioAsyncAwait(t *testing.T) {
	r := Transpile("async function f() { await g(); }", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Contains(t, r.Lua, "__ls.await")
}

func TestScenarioPreambleEmittedOnce(t *testing.T) {
	r := Transpile("let x = 1;\nlet y = 2;", DefaultOptions())
	require.False(t, r.Fatal, "diagnostics: %+v", r.Diagnostics)
	assert.Equal(t, 1, countOccurrences(r.Lua, "function __ls.iter"))
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
