package lexer

// keyword describes one reserved or contextual word.
type keyword struct {
	id TokenID

	// minVersion is the first language version treating the word as a
	// keyword; below it the word is an identifier.
	minVersion int

	// accept, when set, gates the word on the module-declaration state.
	accept func(ModuleState) bool

	// next, when set, is the module state entered after the keyword.
	next func(ModuleState) ModuleState
}

// keywordNode is a trie node over ASCII letters and '_'.
type keywordNode struct {
	children map[rune]*keywordNode
	kw       *keyword
}

func (n *keywordNode) child(c rune) *keywordNode {
	if n == nil {
		return nil
	}
	return n.children[c]
}

func inModuleState(states ...ModuleState) func(ModuleState) bool {
	return func(s ModuleState) bool {
		for _, want := range states {
			if s == want {
				return true
			}
		}
		return false
	}
}

func enter(s ModuleState) func(ModuleState) ModuleState {
	return func(ModuleState) ModuleState { return s }
}

var keywordTable = []keyword{
	{id: ABSTRACT},
	{id: ASSERT, minVersion: 4},
	{id: BOOLEAN},
	{id: BREAK},
	{id: BYTE},
	{id: CASE},
	{id: CATCH},
	{id: CHAR},
	{id: CLASS},
	{id: CONST},
	{id: CONTINUE},
	{id: DEFAULT},
	{id: DO},
	{id: DOUBLE},
	{id: ELSE},
	{id: ENUM, minVersion: 5},
	{id: EXTENDS},
	{id: FALSE},
	{id: FINAL},
	{id: FINALLY},
	{id: FLOAT},
	{id: FOR},
	{id: GOTO},
	{id: IF},
	{id: IMPLEMENTS},
	{id: IMPORT, next: func(s ModuleState) ModuleState {
		if s == ModuleTop {
			return ModuleAfterImport
		}
		return s
	}},
	{id: INSTANCEOF},
	{id: INT},
	{id: INTERFACE},
	{id: LONG},
	{id: NATIVE},
	{id: NEW},
	{id: NULL},
	{id: PACKAGE},
	{id: PRIVATE},
	{id: PROTECTED},
	{id: PUBLIC},
	{id: RETURN},
	{id: SHORT},
	{id: STATIC},
	{id: STRICTFP},
	{id: SUPER},
	{id: SWITCH},
	{id: SYNCHRONIZED},
	{id: THIS},
	{id: THROW},
	{id: THROWS},
	{id: TRANSIENT},
	{id: TRUE},
	{id: TRY},
	{id: VOID},
	{id: VOLATILE},
	{id: WHILE},
	{id: UNDERSCORE, minVersion: 9},
	{id: VAR, minVersion: 10},

	{id: MODULE, accept: inModuleState(ModuleTop), next: enter(ModuleAfterModule)},
	{id: OPEN, accept: inModuleState(ModuleTop)},
	{id: REQUIRES, accept: inModuleState(ModuleBody), next: enter(ModuleAfterRequires)},
	{id: TRANSITIVE, accept: inModuleState(ModuleAfterRequires)},
	{id: EXPORTS, accept: inModuleState(ModuleBody), next: enter(ModuleAfterExports)},
	{id: OPENS, accept: inModuleState(ModuleBody), next: enter(ModuleAfterOpens)},
	{id: TO, accept: inModuleState(ModuleAfterExports, ModuleAfterOpens), next: enter(ModuleAfterTo)},
	{id: USES, accept: inModuleState(ModuleBody), next: enter(ModuleAfterUses)},
	{id: PROVIDES, accept: inModuleState(ModuleBody), next: enter(ModuleAfterProvides)},
	{id: WITH, accept: inModuleState(ModuleAfterProvides), next: enter(ModuleAfterWith)},
}

var keywordTrie = buildKeywordTrie(keywordTable)

func buildKeywordTrie(table []keyword) *keywordNode {
	root := &keywordNode{}
	for i := range table {
		kw := &table[i]
		n := root
		for _, c := range kw.id.FixedText() {
			if n.children == nil {
				n.children = make(map[rune]*keywordNode)
			}
			next, ok := n.children[c]
			if !ok {
				next = &keywordNode{}
				n.children[c] = next
			}
			n = next
		}
		if n.kw != nil {
			panic("lexer: duplicate keyword " + kw.id.FixedText())
		}
		n.kw = kw
	}
	return root
}

// applies reports whether kw is a keyword under the given version and
// module state.
func (kw *keyword) applies(version int, module ModuleState) bool {
	if version < kw.minVersion {
		return false
	}
	return kw.accept == nil || kw.accept(module)
}
