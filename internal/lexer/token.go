package lexer

import (
	"fmt"

	"github.com/orizon-lang/jlex/internal/source"
)

// TokenID identifies the kind of a token.
type TokenID int

// String returns the name of the token id.
func (id TokenID) String() string {
	if int(id) >= 0 && int(id) < len(tokenInfos) && tokenInfos[id].name != "" {
		return tokenInfos[id].name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(id))
}

// Token ids.
const (
	EOF TokenID = iota
	ERROR
	IDENTIFIER

	// Keywords
	ABSTRACT
	ASSERT
	BOOLEAN
	BREAK
	BYTE
	CASE
	CATCH
	CHAR
	CLASS
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTENDS
	FINAL
	FINALLY
	FLOAT
	FOR
	GOTO
	IF
	IMPLEMENTS
	IMPORT
	INSTANCEOF
	INT
	INTERFACE
	LONG
	NATIVE
	NEW
	PACKAGE
	PRIVATE
	PROTECTED
	PUBLIC
	RETURN
	SHORT
	STATIC
	STRICTFP
	SUPER
	SWITCH
	SYNCHRONIZED
	THIS
	THROW
	THROWS
	TRANSIENT
	TRY
	VOID
	VOLATILE
	WHILE
	VAR
	UNDERSCORE

	// Module declaration words
	MODULE
	OPEN
	REQUIRES
	TRANSITIVE
	EXPORTS
	OPENS
	TO
	USES
	PROVIDES
	WITH

	// Literals
	INT_LITERAL
	LONG_LITERAL
	FLOAT_LITERAL
	DOUBLE_LITERAL
	CHAR_LITERAL
	STRING_LITERAL
	MULTILINE_STRING_LITERAL
	TRUE
	FALSE
	NULL

	// Separators
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	ELLIPSIS
	AT
	COLONCOLON

	// Operators
	EQ
	GT
	LT
	BANG
	TILDE
	QUESTION
	COLON
	EQEQ
	LTEQ
	GTEQ
	BANGEQ
	AMPAMP
	BARBAR
	PLUSPLUS
	MINUSMINUS
	PLUS
	MINUS
	STAR
	SLASH
	AMP
	BAR
	CARET
	PERCENT
	LTLT
	GTGT
	GTGTGT
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	AMPEQ
	BAREQ
	CARETEQ
	PERCENTEQ
	LTLTEQ
	GTGTEQ
	GTGTGTEQ
	ARROW

	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT
	JAVADOC_COMMENT

	// Errors
	FLOAT_LITERAL_INVALID
	INVALID_COMMENT_END

	tokenIDCount
)

// NoLiteral is the zero value of State.Pending: no literal is open.
const NoLiteral = EOF

// Category groups token ids the way highlighters and diagnostics use them.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryKeyword
	CategoryIdentifier
	CategoryLiteral
	CategoryNumber
	CategoryString
	CategoryCharacter
	CategorySeparator
	CategoryOperator
	CategoryWhitespace
	CategoryComment
	CategoryError
)

var categoryNames = [...]string{
	CategoryNone:       "none",
	CategoryKeyword:    "keyword",
	CategoryIdentifier: "identifier",
	CategoryLiteral:    "literal",
	CategoryNumber:     "number",
	CategoryString:     "string",
	CategoryCharacter:  "character",
	CategorySeparator:  "separator",
	CategoryOperator:   "operator",
	CategoryWhitespace: "whitespace",
	CategoryComment:    "comment",
	CategoryError:      "error",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", int(c))
}

type tokenInfo struct {
	name      string
	fixedText string
	category  Category
}

var tokenInfos = [tokenIDCount]tokenInfo{
	EOF:        {"EOF", "", CategoryNone},
	ERROR:      {"ERROR", "", CategoryError},
	IDENTIFIER: {"IDENTIFIER", "", CategoryIdentifier},

	ABSTRACT:     {"ABSTRACT", "abstract", CategoryKeyword},
	ASSERT:       {"ASSERT", "assert", CategoryKeyword},
	BOOLEAN:      {"BOOLEAN", "boolean", CategoryKeyword},
	BREAK:        {"BREAK", "break", CategoryKeyword},
	BYTE:         {"BYTE", "byte", CategoryKeyword},
	CASE:         {"CASE", "case", CategoryKeyword},
	CATCH:        {"CATCH", "catch", CategoryKeyword},
	CHAR:         {"CHAR", "char", CategoryKeyword},
	CLASS:        {"CLASS", "class", CategoryKeyword},
	CONST:        {"CONST", "const", CategoryKeyword},
	CONTINUE:     {"CONTINUE", "continue", CategoryKeyword},
	DEFAULT:      {"DEFAULT", "default", CategoryKeyword},
	DO:           {"DO", "do", CategoryKeyword},
	DOUBLE:       {"DOUBLE", "double", CategoryKeyword},
	ELSE:         {"ELSE", "else", CategoryKeyword},
	ENUM:         {"ENUM", "enum", CategoryKeyword},
	EXTENDS:      {"EXTENDS", "extends", CategoryKeyword},
	FINAL:        {"FINAL", "final", CategoryKeyword},
	FINALLY:      {"FINALLY", "finally", CategoryKeyword},
	FLOAT:        {"FLOAT", "float", CategoryKeyword},
	FOR:          {"FOR", "for", CategoryKeyword},
	GOTO:         {"GOTO", "goto", CategoryKeyword},
	IF:           {"IF", "if", CategoryKeyword},
	IMPLEMENTS:   {"IMPLEMENTS", "implements", CategoryKeyword},
	IMPORT:       {"IMPORT", "import", CategoryKeyword},
	INSTANCEOF:   {"INSTANCEOF", "instanceof", CategoryKeyword},
	INT:          {"INT", "int", CategoryKeyword},
	INTERFACE:    {"INTERFACE", "interface", CategoryKeyword},
	LONG:         {"LONG", "long", CategoryKeyword},
	NATIVE:       {"NATIVE", "native", CategoryKeyword},
	NEW:          {"NEW", "new", CategoryKeyword},
	PACKAGE:      {"PACKAGE", "package", CategoryKeyword},
	PRIVATE:      {"PRIVATE", "private", CategoryKeyword},
	PROTECTED:    {"PROTECTED", "protected", CategoryKeyword},
	PUBLIC:       {"PUBLIC", "public", CategoryKeyword},
	RETURN:       {"RETURN", "return", CategoryKeyword},
	SHORT:        {"SHORT", "short", CategoryKeyword},
	STATIC:       {"STATIC", "static", CategoryKeyword},
	STRICTFP:     {"STRICTFP", "strictfp", CategoryKeyword},
	SUPER:        {"SUPER", "super", CategoryKeyword},
	SWITCH:       {"SWITCH", "switch", CategoryKeyword},
	SYNCHRONIZED: {"SYNCHRONIZED", "synchronized", CategoryKeyword},
	THIS:         {"THIS", "this", CategoryKeyword},
	THROW:        {"THROW", "throw", CategoryKeyword},
	THROWS:       {"THROWS", "throws", CategoryKeyword},
	TRANSIENT:    {"TRANSIENT", "transient", CategoryKeyword},
	TRY:          {"TRY", "try", CategoryKeyword},
	VOID:         {"VOID", "void", CategoryKeyword},
	VOLATILE:     {"VOLATILE", "volatile", CategoryKeyword},
	WHILE:        {"WHILE", "while", CategoryKeyword},
	VAR:          {"VAR", "var", CategoryKeyword},
	UNDERSCORE:   {"UNDERSCORE", "_", CategoryKeyword},

	MODULE:     {"MODULE", "module", CategoryKeyword},
	OPEN:       {"OPEN", "open", CategoryKeyword},
	REQUIRES:   {"REQUIRES", "requires", CategoryKeyword},
	TRANSITIVE: {"TRANSITIVE", "transitive", CategoryKeyword},
	EXPORTS:    {"EXPORTS", "exports", CategoryKeyword},
	OPENS:      {"OPENS", "opens", CategoryKeyword},
	TO:         {"TO", "to", CategoryKeyword},
	USES:       {"USES", "uses", CategoryKeyword},
	PROVIDES:   {"PROVIDES", "provides", CategoryKeyword},
	WITH:       {"WITH", "with", CategoryKeyword},

	INT_LITERAL:              {"INT_LITERAL", "", CategoryNumber},
	LONG_LITERAL:             {"LONG_LITERAL", "", CategoryNumber},
	FLOAT_LITERAL:            {"FLOAT_LITERAL", "", CategoryNumber},
	DOUBLE_LITERAL:           {"DOUBLE_LITERAL", "", CategoryNumber},
	CHAR_LITERAL:             {"CHAR_LITERAL", "", CategoryCharacter},
	STRING_LITERAL:           {"STRING_LITERAL", "", CategoryString},
	MULTILINE_STRING_LITERAL: {"MULTILINE_STRING_LITERAL", "", CategoryString},
	TRUE:                     {"TRUE", "true", CategoryLiteral},
	FALSE:                    {"FALSE", "false", CategoryLiteral},
	NULL:                     {"NULL", "null", CategoryLiteral},

	LPAREN:     {"LPAREN", "(", CategorySeparator},
	RPAREN:     {"RPAREN", ")", CategorySeparator},
	LBRACE:     {"LBRACE", "{", CategorySeparator},
	RBRACE:     {"RBRACE", "}", CategorySeparator},
	LBRACKET:   {"LBRACKET", "[", CategorySeparator},
	RBRACKET:   {"RBRACKET", "]", CategorySeparator},
	SEMICOLON:  {"SEMICOLON", ";", CategorySeparator},
	COMMA:      {"COMMA", ",", CategorySeparator},
	DOT:        {"DOT", ".", CategorySeparator},
	ELLIPSIS:   {"ELLIPSIS", "...", CategorySeparator},
	AT:         {"AT", "@", CategorySeparator},
	COLONCOLON: {"COLONCOLON", "::", CategorySeparator},

	EQ:         {"EQ", "=", CategoryOperator},
	GT:         {"GT", ">", CategoryOperator},
	LT:         {"LT", "<", CategoryOperator},
	BANG:       {"BANG", "!", CategoryOperator},
	TILDE:      {"TILDE", "~", CategoryOperator},
	QUESTION:   {"QUESTION", "?", CategoryOperator},
	COLON:      {"COLON", ":", CategoryOperator},
	EQEQ:       {"EQEQ", "==", CategoryOperator},
	LTEQ:       {"LTEQ", "<=", CategoryOperator},
	GTEQ:       {"GTEQ", ">=", CategoryOperator},
	BANGEQ:     {"BANGEQ", "!=", CategoryOperator},
	AMPAMP:     {"AMPAMP", "&&", CategoryOperator},
	BARBAR:     {"BARBAR", "||", CategoryOperator},
	PLUSPLUS:   {"PLUSPLUS", "++", CategoryOperator},
	MINUSMINUS: {"MINUSMINUS", "--", CategoryOperator},
	PLUS:       {"PLUS", "+", CategoryOperator},
	MINUS:      {"MINUS", "-", CategoryOperator},
	STAR:       {"STAR", "*", CategoryOperator},
	SLASH:      {"SLASH", "/", CategoryOperator},
	AMP:        {"AMP", "&", CategoryOperator},
	BAR:        {"BAR", "|", CategoryOperator},
	CARET:      {"CARET", "^", CategoryOperator},
	PERCENT:    {"PERCENT", "%", CategoryOperator},
	LTLT:       {"LTLT", "<<", CategoryOperator},
	GTGT:       {"GTGT", ">>", CategoryOperator},
	GTGTGT:     {"GTGTGT", ">>>", CategoryOperator},
	PLUSEQ:     {"PLUSEQ", "+=", CategoryOperator},
	MINUSEQ:    {"MINUSEQ", "-=", CategoryOperator},
	STAREQ:     {"STAREQ", "*=", CategoryOperator},
	SLASHEQ:    {"SLASHEQ", "/=", CategoryOperator},
	AMPEQ:      {"AMPEQ", "&=", CategoryOperator},
	BAREQ:      {"BAREQ", "|=", CategoryOperator},
	CARETEQ:    {"CARETEQ", "^=", CategoryOperator},
	PERCENTEQ:  {"PERCENTEQ", "%=", CategoryOperator},
	LTLTEQ:     {"LTLTEQ", "<<=", CategoryOperator},
	GTGTEQ:     {"GTGTEQ", ">>=", CategoryOperator},
	GTGTGTEQ:   {"GTGTGTEQ", ">>>=", CategoryOperator},
	ARROW:      {"ARROW", "->", CategoryOperator},

	WHITESPACE:      {"WHITESPACE", "", CategoryWhitespace},
	LINE_COMMENT:    {"LINE_COMMENT", "", CategoryComment},
	BLOCK_COMMENT:   {"BLOCK_COMMENT", "", CategoryComment},
	JAVADOC_COMMENT: {"JAVADOC_COMMENT", "", CategoryComment},

	FLOAT_LITERAL_INVALID: {"FLOAT_LITERAL_INVALID", "", CategoryNumber},
	INVALID_COMMENT_END:   {"INVALID_COMMENT_END", "*/", CategoryError},
}

// FixedText returns the only spelling a token of this id can have, or ""
// when the id covers variable text.
func (id TokenID) FixedText() string {
	if int(id) >= 0 && int(id) < len(tokenInfos) {
		return tokenInfos[id].fixedText
	}
	return ""
}

// Category returns the primary category of the id.
func (id TokenID) Category() Category {
	if int(id) >= 0 && int(id) < len(tokenInfos) {
		return tokenInfos[id].category
	}
	return CategoryNone
}

// IsKeyword reports whether the id is a keyword, including contextual ones.
func (id TokenID) IsKeyword() bool {
	return id.Category() == CategoryKeyword
}

// IsTrivia reports whether the id is whitespace or a comment.
func (id TokenID) IsTrivia() bool {
	switch id {
	case WHITESPACE, LINE_COMMENT, BLOCK_COMMENT, JAVADOC_COMMENT:
		return true
	}
	return false
}

// IsInvalid reports whether the id always marks malformed input.
func (id TokenID) IsInvalid() bool {
	switch id {
	case ERROR, FLOAT_LITERAL_INVALID, INVALID_COMMENT_END:
		return true
	}
	return false
}

// Token is a classified, contiguous span of source text.
type Token struct {
	ID     TokenID
	Offset int    // start offset in characters
	Length int    // length in characters
	Text   string // raw source text
	Part   source.PartType

	// Flyweight is set when Text is the shared fixed text of ID.
	Flyweight bool
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Part != source.Complete {
		return fmt.Sprintf("{%s %q @%d %s}", t.ID, t.Text, t.Offset, t.Part)
	}
	return fmt.Sprintf("{%s %q @%d}", t.ID, t.Text, t.Offset)
}
