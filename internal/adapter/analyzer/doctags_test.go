package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocTag(t *testing.T) {
	tests := []struct {
		line string
		want DocTag
		ok   bool
	}{
		{" * @param {int} numChars the maximum", DocTag{"param", "int", "numChars"}, true},
		{" * @param {byte[]} data raw bytes", DocTag{"param", "byte[]", "data"}, true},
		{" * @param {com.bitwig.Thing} thing dotted", DocTag{"param", "com.bitwig.Thing", "thing"}, true},
		{" * @return {BooleanValue} a boolean value object", DocTag{"return", "BooleanValue", "a"}, true},
		{" * @since Bitwig Studio 1.0", DocTag{}, false},
		{" * @throws ControlSurfaceException", DocTag{}, false},
		{" * no tag here", DocTag{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseDocTag(tt.line)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDocTypes(t *testing.T) {
	m := NewTypeMapper(nil)
	doc := []string{
		"/**",
		" * Registers an observer.",
		" *",
		" * @param {int} numChars the maximum number of characters",
		" * @param {function} callback a callback function",
		" * @return {Object[]} the values",
		" */",
	}

	types := m.ParseDocTypes(doc)
	assert.Equal(t, map[string]string{"numChars": "number", "callback": "Function"}, types.Params)
	assert.Equal(t, "Array<any>", types.Returns)
}

func TestParseDocTypes_Defaults(t *testing.T) {
	m := NewTypeMapper(nil)

	types := m.ParseDocTypes(nil)
	assert.Empty(t, types.Params)
	assert.Equal(t, "void", types.Returns)

	types = m.ParseDocTypes([]string{"/**", " * nothing typed", " */"})
	assert.Empty(t, types.Params)
	assert.Equal(t, "void", types.Returns)
}
