package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line  string
		shape LineShape
	}{
		{"", ShapeTrash},
		{"/* API Version - 1.3.1 */", ShapeTrash},
		{"Track.prototype.maxDepth = 16;", ShapeTrash},
		{"/**", ShapeDocStart},
		{"/** Single line doc */", ShapeDocStart},
		{" */", ShapeDocEnd},
		{" * @param {int} numChars the maximum number of characters", ShapeDocTag},
		{" * @return {BooleanValue} a boolean value object", ShapeDocTag},
		{"var Modes = {", ShapeCodeStart},
		{"Modes = {", ShapeCodeStart},
		{"Foo.prototype.bar = function(a) {", ShapeCodeStart},
		{"};", ShapeCodeEnd},
		{"Track.prototype = new Channel();", ShapeExtends},
		{"function DeviceChain() {}", ShapeClass},
		{"DeviceChain.prototype.exists = function() {};", ShapeMethod},
		{"DeviceChain.prototype.addNameObserver = function(numChars, textWhenUnassigned, callback) {};", ShapeMethod},
		{"Cursor.prototype.foo =function(a) {};", ShapeMethod},
		{"var host = null;", ShapeVariable},
		{" * plain description", ShapeNone},
		{"console.log('x');", ShapeNone},
		{"if (x) {}", ShapeNone},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.shape, got.Shape, "shape of %q", tt.line)
		})
	}
}

func TestClassify_Captures(t *testing.T) {
	m := Classify("function DeviceChain() {}")
	assert.Equal(t, "DeviceChain", m.Name)

	m = Classify("Track.prototype = new Channel();")
	assert.Equal(t, "Channel", m.Name)

	m = Classify("CursorTrack.prototype.addNameObserver = function(numChars, textWhenUnassigned, callback) {};")
	require.Equal(t, ShapeMethod, m.Shape)
	assert.Equal(t, "addNameObserver", m.Name)
	assert.Equal(t, []string{"numChars", "textWhenUnassigned", "callback"}, SplitParams(m.Params))

	m = Classify("Host.prototype.defineMidiPorts = function(/*...*/masks) {};")
	require.Equal(t, ShapeMethod, m.Shape)
	assert.Equal(t, []string{"/*...*/masks"}, SplitParams(m.Params))
}

func TestClassify_TrashKeepsFunctionValues(t *testing.T) {
	// a prototype property assigned a function is a method, not trash
	m := Classify("Foo.prototype.bar = function(x) {};")
	assert.Equal(t, ShapeMethod, m.Shape)

	m = Classify("Foo.prototype.bar = functionTable;")
	assert.NotEqual(t, ShapeTrash, m.Shape)
}

func TestSplitParams_Empty(t *testing.T) {
	assert.Empty(t, SplitParams(""))
	assert.Equal(t, []string{"a", "b"}, SplitParams("a, b"))
	assert.Equal(t, []string{"a"}, SplitParams("a,"))
}

func TestRestParamName(t *testing.T) {
	name, ok := RestParamName("/*...*/masks")
	require.True(t, ok)
	assert.Equal(t, "masks", name)

	_, ok = RestParamName("masks")
	assert.False(t, ok)
}

func TestLineShape_String(t *testing.T) {
	assert.Equal(t, "method", ShapeMethod.String())
	assert.Equal(t, "invalid", LineShape(99).String())
}
