package analyzer

// defaultTypes maps source type tokens onto declaration types. Tokens not
// listed pass through untouched.
var defaultTypes = map[string]string{
	"int":      "number",
	"long":     "number",
	"double":   "number",
	"byte[]":   "number[]",
	"Object[]": "Array<any>",
	"function": "Function",
}

// TypeMapper normalises source type tokens.
type TypeMapper struct {
	table map[string]string
}

// NewTypeMapper returns a mapper over the default table with overrides
// layered on top. An override for a default token replaces it.
func NewTypeMapper(overrides map[string]string) *TypeMapper {
	table := make(map[string]string, len(defaultTypes)+len(overrides))
	for k, v := range defaultTypes {
		table[k] = v
	}
	for k, v := range overrides {
		table[k] = v
	}
	return &TypeMapper{table: table}
}

// Normalize returns the declaration type for a source token.
func (m *TypeMapper) Normalize(token string) string {
	if mapped, ok := m.table[token]; ok {
		return mapped
	}
	return token
}

var defaultMapper = NewTypeMapper(nil)

// NormalizeType normalises a token with the default table only.
func NormalizeType(token string) string {
	return defaultMapper.Normalize(token)
}
