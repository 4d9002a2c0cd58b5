package analyzer

import (
	"regexp"
	"strings"
)

// LineShape is the category of a single stub-file line.
type LineShape int

const (
	ShapeNone LineShape = iota
	ShapeTrash
	ShapeDocStart
	ShapeDocEnd
	ShapeDocTag
	ShapeCodeStart
	ShapeCodeEnd
	ShapeExtends
	ShapeClass
	ShapeMethod
	ShapeVariable
)

var shapeNames = map[LineShape]string{
	ShapeNone:      "none",
	ShapeTrash:     "trash",
	ShapeDocStart:  "doc-start",
	ShapeDocEnd:    "doc-end",
	ShapeDocTag:    "doc-tag",
	ShapeCodeStart: "code-start",
	ShapeCodeEnd:   "code-end",
	ShapeExtends:   "extends",
	ShapeClass:     "class",
	ShapeMethod:    "method",
	ShapeVariable:  "variable",
}

func (s LineShape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "invalid"
}

// LineMatch is the result of classifying one line.
type LineMatch struct {
	Shape LineShape

	// Name is the class, parent or method name captured by the line.
	Name string
	// Params is the raw comma separated parameter list of a method.
	Params string
	// TagKind, TagType and TagName are set for doc tags.
	TagKind string
	TagType string
	TagName string
}

var (
	reDocStart  = regexp.MustCompile(`^/\*\*`)
	reDocEnd    = regexp.MustCompile(`^ \*/`)
	reDocTag    = regexp.MustCompile("@(return|param) \\{([A-Za-z\\[\\]0-9\\.]+)\\}? ?([`\\{\\}@a-zA-Z0-9]+)")
	reCodeStart = regexp.MustCompile(`\{$`)
	reCodeEnd   = regexp.MustCompile(`\};$`)
	reClass     = regexp.MustCompile(`^function ([A-Za-z0-9]+)`)
	reExtends   = regexp.MustCompile(`^[A-Za-z0-9]+\.prototype = new ([A-Za-z0-9]+)`)
	reMethod    = regexp.MustCompile(`^[A-Za-z0-9]+\.prototype\.([A-Za-z0-9]+)[ ]*=[ ]*function\(((?:[A-Za-z0-9/*.]+,? ?)*)`)
	reVariable  = regexp.MustCompile(`^var|^[A-Za-z0-9]+ = \{$`)

	// A prototype property assigned a plain value carries no type information
	// and is dropped.
	reValueProp    = regexp.MustCompile(`^[A-Za-z0-9]+\.prototype\.[A-Za-z0-9]+ = ([A-Za-z0-9]+)`)
	reCommentStart = regexp.MustCompile(`^/\* `)
)

type matcher struct {
	shape LineShape
	match func(line string) (LineMatch, bool)
}

func simple(shape LineShape, re *regexp.Regexp) matcher {
	return matcher{shape: shape, match: func(line string) (LineMatch, bool) {
		return LineMatch{Shape: shape}, re.MatchString(line)
	}}
}

// matchers are tried in order; the first hit wins. Code-block start sits
// ahead of the declaration shapes so that an object literal opening such as
// "Foo = {" enters a code block instead of being taken as a one-line var.
// Code-block end comes last: "Foo.prototype.bar = function() {};" also ends
// in "};".
var matchers = []matcher{
	{ShapeTrash, matchTrash},
	simple(ShapeDocStart, reDocStart),
	simple(ShapeDocEnd, reDocEnd),
	{ShapeDocTag, func(line string) (LineMatch, bool) {
		tag, ok := ParseDocTag(line)
		if !ok {
			return LineMatch{}, false
		}
		return LineMatch{Shape: ShapeDocTag, TagKind: tag.Kind, TagType: tag.Type, TagName: tag.Name}, true
	}},
	simple(ShapeCodeStart, reCodeStart),
	{ShapeExtends, func(line string) (LineMatch, bool) {
		m := reExtends.FindStringSubmatch(line)
		if m == nil {
			return LineMatch{}, false
		}
		return LineMatch{Shape: ShapeExtends, Name: m[1]}, true
	}},
	{ShapeClass, func(line string) (LineMatch, bool) {
		m := reClass.FindStringSubmatch(line)
		if m == nil {
			return LineMatch{}, false
		}
		return LineMatch{Shape: ShapeClass, Name: m[1]}, true
	}},
	{ShapeMethod, func(line string) (LineMatch, bool) {
		m := reMethod.FindStringSubmatch(line)
		if m == nil {
			return LineMatch{}, false
		}
		return LineMatch{Shape: ShapeMethod, Name: m[1], Params: m[2]}, true
	}},
	simple(ShapeVariable, reVariable),
	simple(ShapeCodeEnd, reCodeEnd),
}

func matchTrash(line string) (LineMatch, bool) {
	if line == "" || reCommentStart.MatchString(line) {
		return LineMatch{Shape: ShapeTrash}, true
	}
	if m := reValueProp.FindStringSubmatch(line); m != nil && !strings.HasPrefix(m[1], "function") {
		return LineMatch{Shape: ShapeTrash}, true
	}
	return LineMatch{}, false
}

// IsTrash reports whether a line is dropped without further inspection.
func IsTrash(line string) bool {
	_, ok := matchTrash(line)
	return ok
}

// IsDocEnd reports whether a line closes a doc block.
func IsDocEnd(line string) bool {
	return reDocEnd.MatchString(line)
}

// IsCodeEnd reports whether a line closes a multi-line literal.
func IsCodeEnd(line string) bool {
	return reCodeEnd.MatchString(line)
}

// Classify returns the shape of a line with trailing whitespace already
// stripped. ShapeNone means the line matched nothing.
func Classify(line string) LineMatch {
	for _, m := range matchers {
		if res, ok := m.match(line); ok {
			return res
		}
	}
	return LineMatch{Shape: ShapeNone}
}

// SplitParams splits a raw method parameter list into trimmed names.
// Empty entries are dropped.
func SplitParams(raw string) []string {
	var params []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}

var reRestParam = regexp.MustCompile(`^/\*\.\.\.\*/([A-Za-z0-9_$]+)$`)

// RestParamName returns the parameter name behind a rest marker such as
// "/*...*/masks".
func RestParamName(param string) (string, bool) {
	m := reRestParam.FindStringSubmatch(param)
	if m == nil {
		return "", false
	}
	return m[1], true
}
