package lexer

// ModuleFileName is the file name that switches the scanner into module
// declaration mode.
const ModuleFileName = "module-info.java"

// ModuleState is the position of the scanner within a module declaration.
// Values from ModuleAnnotation upwards count annotation parentheses:
// ModuleAnnotation+n means n open parentheses.
type ModuleState int

const (
	ModuleNone ModuleState = iota
	ModuleTop
	ModuleAfterModule
	ModuleBody
	ModuleAfterRequires
	ModuleAfterExports
	ModuleAfterOpens
	ModuleAfterUses
	ModuleAfterProvides
	ModuleAfterTo
	ModuleAfterWith
	ModuleAfterImport
	ModuleAnnotation
)

var moduleStateNames = [...]string{
	ModuleNone:          "none",
	ModuleTop:           "top",
	ModuleAfterModule:   "after-module",
	ModuleBody:          "body",
	ModuleAfterRequires: "after-requires",
	ModuleAfterExports:  "after-exports",
	ModuleAfterOpens:    "after-opens",
	ModuleAfterUses:     "after-uses",
	ModuleAfterProvides: "after-provides",
	ModuleAfterTo:       "after-to",
	ModuleAfterWith:     "after-with",
	ModuleAfterImport:   "after-import",
	ModuleAnnotation:    "annotation",
}

func (s ModuleState) String() string {
	if s > ModuleAnnotation {
		return "annotation-args"
	}
	if s >= 0 && int(s) < len(moduleStateNames) {
		return moduleStateNames[s]
	}
	return "invalid"
}

// directive reports whether the state follows a module body directive
// keyword, i.e. a ';' returns to the module body.
func (s ModuleState) directive() bool {
	return s >= ModuleAfterRequires && s < ModuleAfterImport
}

// onSemicolon returns the state after ';'.
func (s ModuleState) onSemicolon() ModuleState {
	switch {
	case s == ModuleNone:
		return s
	case s.directive():
		return ModuleBody
	}
	return ModuleTop
}

// onLeftParen returns the state after '('.
func (s ModuleState) onLeftParen() ModuleState {
	if s >= ModuleAnnotation {
		return s + 1
	}
	return s
}

// onRightParen returns the state after ')'.
func (s ModuleState) onRightParen() ModuleState {
	switch {
	case s == ModuleAnnotation+1:
		return ModuleTop
	case s > ModuleAnnotation+1:
		return s - 1
	}
	return s
}

// onLeftBrace returns the state after '{'.
func (s ModuleState) onLeftBrace() ModuleState {
	if s == ModuleAfterModule {
		return ModuleBody
	}
	return s
}

// onAt returns the state after '@'.
func (s ModuleState) onAt() ModuleState {
	if s == ModuleTop {
		return ModuleAnnotation
	}
	return s
}

// onWhitespace returns the state after whitespace. Whitespace ends an
// annotation name that is not followed by arguments; inside argument
// parentheses it changes nothing.
func (s ModuleState) onWhitespace() ModuleState {
	if s == ModuleAnnotation {
		return ModuleTop
	}
	return s
}
