// Package rules implements the pattern/action engine that mutates a
// repo.Repository as each semi-expression is produced: a small closed set
// of predicates and actions, evaluated in a fixed order, rather than a
// class hierarchy of virtual rule objects (spec.md §9).
package rules

import (
	"github.com/adrisola/typedep/internal/astnode"
	"github.com/adrisola/typedep/internal/repo"
	"github.com/adrisola/typedep/internal/semiexpr"
)

var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"do": true, "try": true, "catch": true, "else": true,
}

// Engine applies the ordered rules (the cases of the switch in Apply) to the
// Repository it mutates.
type Engine struct {
	repo *repo.Repository
}

// New returns an Engine bound to r.
func New(r *repo.Repository) *Engine {
	return &Engine{repo: r}
}

// Apply runs the first matching rule against se, in the fixed order spec.md
// §4.C specifies. The scope-closer rule is checked first regardless of the
// table's display order — it "always wins over everything".
func (e *Engine) Apply(se semiexpr.SemiExpr) {
	switch {
	case isStandaloneCloser(se):
		e.repo.Pop(se.StartLine)

	case isAccessModifier(se):
		e.applyAccessModifier(se)

	case !se.EndsWith("{"):
		e.applyNonOpener(se)

	case containsIdentAfter(se, "namespace"):
		e.pushNamed(se, astnode.Namespace, nameAfter(se, "namespace"))

	case isEnumOpener(se):
		e.applyEnumOpener(se)

	case containsIdentAfter(se, "class"):
		e.repo.Access = astnode.Private
		e.pushNamed(se, astnode.Class, nameAfter(se, "class"))

	case containsIdentAfter(se, "struct"):
		e.repo.Access = astnode.Public
		e.pushNamed(se, astnode.Struct, nameAfter(se, "struct"))

	case e.repo.Language == repo.CSharp && containsIdentAfter(se, "interface"):
		e.pushNamed(se, astnode.Interface, nameAfter(se, "interface"))

	case isFunctionOpener(se):
		e.applyFunctionOpener(se)

	case isLambdaOpener(se):
		e.pushNamed(se, astnode.Lambda, "lambda")

	case isControlOpener(se):
		e.pushNamed(se, astnode.Control, se.Tokens[0].Lexeme)

	default:
		// An unrecognized "{"-terminated construct (e.g. an initializer
		// list, an anonymous block) still opens a scope so the matching
		// "}" has something to close.
		e.pushNamed(se, astnode.Anonymous, "")
	}
}

func isStandaloneCloser(se semiexpr.SemiExpr) bool {
	return len(se.Tokens) == 1 && se.Tokens[0].Lexeme == "}"
}

// isAccessModifier reports whether se contains an access-specifier pattern
// ("public:"/"protected:"/"private:") anywhere among its tokens. The
// collector doesn't terminate a unit on ":", so a real "public:" in source
// ends up merged into the following declaration's semi-expression rather
// than standing alone — spec.md §4.C's pattern is "contains", not "equals".
func isAccessModifier(se semiexpr.SemiExpr) bool {
	_, ok := findAccessModifier(se)
	return ok
}

func findAccessModifier(se semiexpr.SemiExpr) (int, bool) {
	lex := se.Lexemes()
	for i := 0; i+1 < len(lex); i++ {
		if lex[i+1] != ":" {
			continue
		}
		switch lex[i] {
		case "public", "protected", "private":
			return i, true
		}
	}
	return 0, false
}

// applyAccessModifier updates the current scope's access mode from the
// "ident :" pair found in se, then re-dispatches whatever tokens follow the
// pair as their own semi-expression — the real declaration the access
// specifier was merged with — so it gets recorded under the updated access.
func (e *Engine) applyAccessModifier(se semiexpr.SemiExpr) {
	i, _ := findAccessModifier(se)
	switch se.Tokens[i].Lexeme {
	case "public":
		e.repo.Access = astnode.Public
	case "protected":
		e.repo.Access = astnode.Protected
	case "private":
		e.repo.Access = astnode.Private
	}
	rest := se.Tokens[i+2:]
	if len(rest) == 0 {
		return
	}
	e.Apply(semiexpr.SemiExpr{Tokens: rest, StartLine: se.StartLine})
}

func containsIdentAfter(se semiexpr.SemiExpr, keyword string) bool {
	_, ok := findKeywordFollower(se, keyword)
	return ok
}

func nameAfter(se semiexpr.SemiExpr, keyword string) string {
	name, _ := findKeywordFollower(se, keyword)
	return name
}

func findKeywordFollower(se semiexpr.SemiExpr, keyword string) (string, bool) {
	lex := se.Lexemes()
	for i, l := range lex {
		if l == keyword && i+1 < len(lex) {
			return lex[i+1], true
		}
	}
	return "", false
}

// isEnumOpener matches a "{"-terminated semi-expression introducing an enum
// body: "enum", "enum class", or "enum struct" followed by a name.
func isEnumOpener(se semiexpr.SemiExpr) bool {
	_, ok := enumName(se.Lexemes())
	return ok
}

// applyEnumOpener records the enum's introduced name as a declaration on
// the currently open scope — the type table builder reads it from there,
// the same way it reads typedef/using forms (spec.md §4.G) — then pushes an
// anonymous scope so the enum body's own members and closing "}" balance
// correctly against the surrounding brace nesting.
func (e *Engine) applyEnumOpener(se semiexpr.SemiExpr) {
	name, _ := enumName(se.Lexemes())
	e.repo.Top().AddDeclaration(astnode.Declaration{
		Package:  e.repo.Package,
		Line:     se.StartLine,
		Access:   e.repo.Access,
		DeclType: astnode.EnumDecl,
		TypeName: name,
		Raw:      se.Lexemes(),
	})
	e.pushNamed(se, astnode.Anonymous, name)
}

// enumName extracts the identifier following "enum" (optionally tagged
// "class" or "struct", the C++11 scoped-enum forms), for both a bodied
// definition ("enum Color {") and a forward declaration ("enum Color;").
func enumName(lex []string) (string, bool) {
	if len(lex) == 0 || lex[0] != "enum" {
		return "", false
	}
	i := 1
	if i < len(lex) && (lex[i] == "class" || lex[i] == "struct") {
		i++
	}
	if i < len(lex) && isIdentLike(lex[i]) {
		return lex[i], true
	}
	return "", false
}

func (e *Engine) pushNamed(se semiexpr.SemiExpr, kind astnode.Kind, name string) {
	n := &astnode.Node{
		Name:      name,
		Kind:      kind,
		StartLine: se.StartLine,
	}
	e.repo.Push(n)
}

// isFunctionOpener matches a "{"-terminated semi-expression that contains a
// balanced "(" ... ")" pair before the trailing "{" and whose leading
// keyword is not a control-flow keyword. The namespace/class/struct/interface
// rules above it in Apply have already claimed their openers; control-keyword
// openers are left for the control rule below it.
func isFunctionOpener(se semiexpr.SemiExpr) bool {
	lex := stripTemplatePrefix(se.Lexemes())
	if len(lex) == 0 {
		return false
	}
	if controlKeywords[lex[0]] {
		return false
	}
	if lex[0] == "[" {
		return false // lambda, handled separately
	}
	open, close := findParenPair(lex)
	return open >= 0 && close > open
}

func (e *Engine) applyFunctionOpener(se semiexpr.SemiExpr) {
	lex := stripTemplatePrefix(se.Lexemes())
	open, _ := findParenPair(lex)
	name, qualifiers := extractQualifiedName(lex, open)

	n := &astnode.Node{
		Name:      name,
		Kind:      astnode.Function,
		StartLine: se.StartLine,
	}

	if e.repo.Language == repo.Cpp && len(qualifiers) > 0 {
		e.repo.PushRelocated(n, qualifiers)
		return
	}
	e.repo.Push(n)
}

// isLambdaOpener matches a C++ lambda introducer: "[" ... "]" optionally
// followed by "(" ... ")", terminated by "{".
func isLambdaOpener(se semiexpr.SemiExpr) bool {
	lex := se.Lexemes()
	if len(lex) == 0 || lex[0] != "[" {
		return false
	}
	closeBracket := -1
	for i, l := range lex {
		if l == "]" {
			closeBracket = i
			break
		}
	}
	return closeBracket > 0
}

func isControlOpener(se semiexpr.SemiExpr) bool {
	lex := se.Lexemes()
	if len(lex) == 0 {
		return false
	}
	return controlKeywords[lex[0]]
}

// applyNonOpener handles semi-expressions that don't end with "{" or "}":
// data/function-prototype declarations inside a class/struct/namespace body,
// plus typedef/using-alias/forward-declared-enum forms, which are recorded
// on the current scope wherever they appear (§4.G needs them regardless of
// the surrounding scope kind).
func (e *Engine) applyNonOpener(se semiexpr.SemiExpr) {
	if len(se.Tokens) == 0 {
		return
	}
	lex := se.Lexemes()
	declType, typeName := classifyDeclType(lex)

	top := e.repo.Top()
	switch top.Kind {
	case astnode.Namespace, astnode.Class, astnode.Struct:
	default:
		if typeName == "" {
			return
		}
	}

	top.AddDeclaration(astnode.Declaration{
		Package:  e.repo.Package,
		Line:     se.StartLine,
		Access:   e.repo.Access,
		DeclType: declType,
		TypeName: typeName,
		Raw:      lex,
	})
}

// classifyDeclType reports both what kind of declaration lex is and, for
// the typedef/using-alias/forward-declared-enum forms, the type name it
// introduces.
func classifyDeclType(lex []string) (declType astnode.DeclType, typeName string) {
	if len(lex) == 0 {
		return astnode.OtherDecl, ""
	}
	if lex[0] == "typedef" {
		return astnode.TypedefDecl, typedefName(lex)
	}
	if name, ok := usingAliasName(lex); ok {
		return astnode.UsingDecl, name
	}
	if name, ok := enumName(lex); ok {
		return astnode.EnumDecl, name
	}
	if open, close := findParenPair(lex); open >= 0 && close > open {
		return astnode.FunctionDecl, ""
	}
	if lex[0] == "[" {
		return astnode.LambdaDecl, ""
	}
	return astnode.DataDecl, ""
}

// typedefName returns the identifier introduced by a "typedef <type> <name>
// ;" declaration: the last identifier before the trailing ";", skipping a
// trailing array dimension such as "[" ... "]".
func typedefName(lex []string) string {
	i := len(lex) - 1
	if i >= 0 && lex[i] == ";" {
		i--
	}
	if i >= 0 && lex[i] == "]" {
		for i >= 0 && lex[i] != "[" {
			i--
		}
		i--
	}
	if i >= 0 && isIdentLike(lex[i]) {
		return lex[i]
	}
	return ""
}

// usingAliasName returns the identifier introduced by a C++11 alias
// declaration, "using Name = Type ;". A using-directive ("using namespace
// X;") or a qualified-name import doesn't match this shape and returns ok
// == false, since neither introduces a new type name.
func usingAliasName(lex []string) (string, bool) {
	if len(lex) < 3 || lex[0] != "using" {
		return "", false
	}
	if !isIdentLike(lex[1]) || lex[2] != "=" {
		return "", false
	}
	return lex[1], true
}

// stripTemplatePrefix drops a leading "template < ... >" clause, counting
// nested angle brackets, so matching proceeds against the tokens that
// follow it. The stripped prefix itself is discarded; callers that need it
// as metadata should inspect the original SemiExpr.
func stripTemplatePrefix(lex []string) []string {
	if len(lex) == 0 || lex[0] != "template" {
		return lex
	}
	i := 1
	if i >= len(lex) || lex[i] != "<" {
		return lex
	}
	depth := 0
	for ; i < len(lex); i++ {
		switch lex[i] {
		case "<":
			depth++
		case ">":
			depth--
			if depth == 0 {
				return lex[i+1:]
			}
		}
	}
	return lex
}

// findParenPair returns the index of the first "(" and its matching ")" at
// the same nesting depth, or (-1, -1) if none is found.
func findParenPair(lex []string) (int, int) {
	open := -1
	depth := 0
	for i, l := range lex {
		switch l {
		case "(":
			if open < 0 {
				open = i
			}
			depth++
		case ")":
			depth--
			if depth == 0 && open >= 0 {
				return open, i
			}
		}
	}
	return -1, -1
}

// extractQualifiedName walks backward from the token immediately before the
// opening "(" at index parenIdx, collecting a "::"-joined qualifier chain:
// "A :: B :: f (" yields name "f", qualifiers ["A", "B"].
func extractQualifiedName(lex []string, parenIdx int) (name string, qualifiers []string) {
	if parenIdx <= 0 || !isIdentLike(lex[parenIdx-1]) {
		return "", nil
	}
	i := parenIdx - 1
	name = lex[i]
	i--
	for i >= 1 && lex[i] == "::" && isIdentLike(lex[i-1]) {
		qualifiers = append([]string{lex[i-1]}, qualifiers...)
		i -= 2
	}
	return name, qualifiers
}

func isIdentLike(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
