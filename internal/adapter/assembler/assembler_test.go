package assembler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubconv/internal/adapter/analyzer"
	"stubconv/internal/domain"
	"stubconv/internal/errs"
)

const trackStub = `/* API Version - 1.3.1 */

/**
 * A track in the mixer.
 */
function Track() {}

Track.prototype = new Channel();

/**
 * Values for the monitor mode.
 */
var MonitorMode = {
    OFF: 0,
    ON: 1
};

/**
 * Registers an observer for the track name.
 *
 * @param {int} numChars maximum characters
 * @param {function} callback receives the name
 * @return {Track} this track
 */
Track.prototype.addNameObserver = function(numChars, callback) {};

Track.prototype.maxDepth = 16;

/**
 * Selects the track.
 */
Track.prototype.select = function() {};

var host = null;
`

func kinds(stubs []*domain.Stub) []domain.StubKind {
	out := make([]domain.StubKind, len(stubs))
	for i, st := range stubs {
		out[i] = st.Kind
	}
	return out
}

func TestScan(t *testing.T) {
	stubs, err := Scan("Track.js", trackStub)
	require.NoError(t, err)

	require.Equal(t, []domain.StubKind{
		domain.KindClass,
		domain.KindVariable,
		domain.KindMethod,
		domain.KindMethod,
		domain.KindVariable,
	}, kinds(stubs))

	class := stubs[0]
	assert.Equal(t, "Track", class.ClassName)
	assert.Equal(t, "Channel", class.ExtendsFrom)
	assert.Equal(t, 3, class.Line)
	assert.Equal(t, []string{"/**", " * A track in the mixer.", " */"}, class.DocLines)
	assert.Equal(t, []string{"function Track() {}"}, class.CodeLines)

	monitor := stubs[1]
	assert.Equal(t, []string{"var MonitorMode = {", "    OFF: 0,", "    ON: 1", "};"}, monitor.CodeLines)

	observer := stubs[2]
	assert.Equal(t, "addNameObserver", observer.MethodName)
	assert.Equal(t, []string{"numChars", "callback"}, observer.Params)
	assert.Len(t, observer.DocLines, 7)

	bare := stubs[4]
	assert.Empty(t, bare.DocLines)
	assert.Equal(t, []string{"var host = null;"}, bare.CodeLines)
}

func TestScan_UnrecognizedLine(t *testing.T) {
	content := "/**\n * Foo\n */\nfunction Foo() {}\n\nconsole.log('nope');\n"

	_, err := Scan("Foo.js", content)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrUnrecognizedLine))

	var fe *errs.FormatError
	require.True(t, errs.As(err, &fe))
	assert.Equal(t, "Foo.js", fe.File)
	assert.Equal(t, 6, fe.Line)
	assert.Contains(t, err.Error(), "Foo.js:6")
}

func TestScan_UnterminatedBlocks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"doc", "function Foo() {}\n/**\n * never closed\n", 2},
		{"code", "function Foo() {}\nvar Modes = {\n    A: 1,\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan("Foo.js", tt.content)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrUnterminatedBlock))

			var fe *errs.FormatError
			require.True(t, errs.As(err, &fe))
			assert.Equal(t, tt.line, fe.Line)
		})
	}
}

func TestScan_StructuralDefects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty file", "\n\n", errs.ErrMissingClass},
		{"method first", "Foo.prototype.bar = function() {};\n", errs.ErrMissingClass},
		{"orphan doc", "function Foo() {}\n/**\n * dangling\n */\n", errs.ErrOrphanDoc},
		{"extends first", "Foo.prototype = new Bar();\nfunction Foo() {}\n", errs.ErrExtendsBeforeClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan("Foo.js", tt.content)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestScan_OneLineDoc(t *testing.T) {
	content := "/** The foo. */\nfunction Foo() {}\n/** Does bar. */\nFoo.prototype.bar = function(a) {};\n"

	stubs, err := Scan("Foo.js", content)
	require.NoError(t, err)
	require.Len(t, stubs, 2)
	assert.Equal(t, []string{"/** Does bar. */"}, stubs[1].DocLines)
	assert.Equal(t, "bar", stubs[1].MethodName)
}

func TestScan_UndocumentedDeclarations(t *testing.T) {
	content := strings.Join([]string{
		"function Foo() {}",
		"Foo.prototype.a = function() {};",
		"Foo.prototype.b = function(x) {};",
		"var Modes = {",
		"};",
	}, "\n")

	stubs, err := Scan("Foo.js", content)
	require.NoError(t, err)
	assert.Equal(t, []domain.StubKind{
		domain.KindClass, domain.KindMethod, domain.KindMethod, domain.KindVariable,
	}, kinds(stubs))
	assert.Equal(t, 3, stubs[2].Line)
}

func TestScan_MultiLineMethodIsCodeBlock(t *testing.T) {
	content := strings.Join([]string{
		"function Foo() {}",
		"/**",
		" * Does bar.",
		" */",
		"Foo.prototype.bar = function(a) {",
		"    return a;",
		"};",
	}, "\n")

	stubs, err := Scan("Foo.js", content)
	require.NoError(t, err)
	require.Len(t, stubs, 2)
	assert.Equal(t, domain.KindVariable, stubs[1].Kind)
	assert.Empty(t, stubs[1].MethodName)
	assert.Equal(t, []string{
		"Foo.prototype.bar = function(a) {",
		"    return a;",
		"};",
	}, stubs[1].CodeLines)
}

func TestScan_ExtendsAfterMethods(t *testing.T) {
	content := "function Foo() {}\nFoo.prototype.a = function() {};\nFoo.prototype = new Bar();\n"

	stubs, err := Scan("Foo.js", content)
	require.NoError(t, err)
	assert.Equal(t, "Bar", stubs[0].ExtendsFrom)
	assert.Empty(t, stubs[1].ExtendsFrom)
}

func TestReorder(t *testing.T) {
	class := &domain.Stub{Kind: domain.KindClass, ClassName: "C"}
	v1 := &domain.Stub{Kind: domain.KindVariable, Line: 1}
	m1 := &domain.Stub{Kind: domain.KindMethod, MethodName: "m1"}
	v2 := &domain.Stub{Kind: domain.KindVariable, Line: 2}
	m2 := &domain.Stub{Kind: domain.KindMethod, MethodName: "m2"}

	got := Reorder([]*domain.Stub{class, v1, m1, v2, m2})
	assert.Equal(t, []*domain.Stub{class, m1, m2, v1, v2}, got)

	assert.Empty(t, Reorder(nil))
	assert.Equal(t, []*domain.Stub{class}, Reorder([]*domain.Stub{class}))
}

func TestAssemble(t *testing.T) {
	a := NewAssembler(analyzer.NewTypeMapper(nil))

	stubs, err := a.Assemble(domain.SourceFile{Path: "Track.js", Content: trackStub})
	require.NoError(t, err)

	require.Equal(t, []domain.StubKind{
		domain.KindClass,
		domain.KindMethod,
		domain.KindMethod,
		domain.KindVariable,
		domain.KindVariable,
	}, kinds(stubs))

	observer := stubs[1]
	assert.Equal(t, map[string]string{"numChars": "number", "callback": "Function"}, observer.ParamTypes)
	assert.Equal(t, "Track", observer.ReturnType)

	sel := stubs[2]
	assert.Empty(t, sel.ParamTypes)
	assert.Equal(t, domain.VoidType, sel.ReturnType)
}
