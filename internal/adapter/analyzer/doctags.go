package analyzer

import "stubconv/internal/domain"

// DocTag is a @param or @return annotation inside a doc block.
type DocTag struct {
	Kind string // "param" or "return"
	Type string // raw source type token
	Name string // parameter name; first word of the description for @return
}

// ParseDocTag extracts the tag carried by a doc line, if any.
func ParseDocTag(line string) (DocTag, bool) {
	m := reDocTag.FindStringSubmatch(line)
	if m == nil {
		return DocTag{}, false
	}
	return DocTag{Kind: m[1], Type: m[2], Name: m[3]}, true
}

// DocTypes holds the type information of one doc block.
type DocTypes struct {
	Params  map[string]string
	Returns string
}

// ParseDocTypes scans doc lines for @param and @return tags and normalises
// their types. Without a @return tag the return type is void. A later tag
// for the same parameter replaces an earlier one.
func (m *TypeMapper) ParseDocTypes(docLines []string) DocTypes {
	types := DocTypes{
		Params:  make(map[string]string),
		Returns: domain.VoidType,
	}
	for _, line := range docLines {
		tag, ok := ParseDocTag(line)
		if !ok {
			continue
		}
		switch tag.Kind {
		case "return":
			types.Returns = m.Normalize(tag.Type)
		case "param":
			types.Params[tag.Name] = m.Normalize(tag.Type)
		}
	}
	return types
}
