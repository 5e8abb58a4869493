package enhance

type (
	// Token identifies a single dependency declared by a Type.
	// Tokens are opaque to composition and resolved externally.
	// Declaration order is positional constructor-argument order.
	Token = any

	// SplitFunc recovers one side's resolved dependency values from a
	// resolved-value list aligned to a combined dependency list.
	SplitFunc func(values []any) []any
)

// MergeDeps combines the dependency tokens of a base and an enhancement
// into one deduplicated list: the base tokens followed by the
// enhancement tokens not already declared by the base, in enhancement
// declaration order.  The returned SplitFuncs recover each side's
// values from a list aligned to the combined tokens.  A token shared by
// both sides resolves to the same value for both.
func MergeDeps(base, enh []Token) ([]Token, SplitFunc, SplitFunc) {
	combined := make([]Token, len(base), len(base)+len(enh))
	copy(combined, base)
	index := make(map[Token]int, len(base)+len(enh))
	for i, token := range base {
		index[token] = i
	}
	for _, token := range enh {
		if _, dup := index[token]; !dup {
			index[token] = len(combined)
			combined = append(combined, token)
		}
	}
	baseLen := len(base)
	forBase := func(values []any) []any {
		return values[:baseLen:baseLen]
	}
	positions := make([]int, len(enh))
	for i, token := range enh {
		positions[i] = index[token]
	}
	forEnh := func(values []any) []any {
		split := make([]any, len(positions))
		for i, position := range positions {
			split[i] = values[position]
		}
		return split
	}
	return combined, forBase, forEnh
}
