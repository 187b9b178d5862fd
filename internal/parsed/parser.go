package parsed

import (
	"fmt"
	"strconv"

	"treec/ast"
	"treec/internal/lexer"
)

// ParseError is the one error kind the parser can raise. Per spec.md §4.1,
// there is no error recovery: the first malformed construct aborts the
// entire parse.
type ParseError struct {
	Range   ast.SourceRange
	Message string
}

func (e *ParseError) Error() string {
	if e.Range.IsEmpty() {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Range.CursorString(), e.Message)
}

type parser struct {
	lex      *lexer.Lexer
	cur      lexer.Token
	next     lexer.Token
	lastEnd  int
	filePath string
	src      []rune
	lines    *ast.LineTable
}

// Parse scans and parses one .tree source file. On success it returns the
// untyped Module and a LineTable giving every node's source range; on
// failure it returns a non-nil *ParseError and no module.
func Parse(filePath string, source string) (mod *Module, lines *ast.LineTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	runes := []rune(source)
	p := &parser{
		lex:      lexer.New(runes),
		filePath: filePath,
		src:      runes,
		lines:    ast.NewLineTable(),
	}
	p.cur = p.lex.Next()
	p.next = p.lex.Next()

	m := p.parseModule()
	return m, p.lines, nil
}

func (p *parser) fail(format string, args ...any) {
	panic(&ParseError{
		Range:   p.span(p.cur.StartByte, p.cur.EndByte),
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) span(start, end int) ast.SourceRange {
	return ast.NewSourceRange(p.filePath, p.src, start, end)
}

func (p *parser) record(node any, start int) {
	p.lines.Set(node, p.span(start, p.lastEnd))
}

func (p *parser) advance() lexer.Token {
	t := p.cur
	p.lastEnd = t.EndByte
	p.cur = p.next
	p.next = p.lex.Next()
	return t
}

func (p *parser) skipNewlines() {
	for p.cur.Kind == lexer.Newline {
		p.advance()
	}
}

// columnOf resolves byteOffset to a 1-based column by scanning backward to
// the preceding line break. The grammar has no explicit block delimiters
// (spec.md §4.1), so `case`/`let` blocks are bounded the ML-family way:
// a continuation line (another branch, another let-binding) must be
// indented relative to the keyword that opened the block; anything back at
// that keyword's own column or to its left ends the block.
func (p *parser) columnOf(byteOffset int) int {
	col := 1
	for i := byteOffset - 1; i >= 0; i-- {
		if p.src[i] == '\n' {
			break
		}
		col++
	}
	return col
}

func (p *parser) expect(k lexer.Kind) lexer.Token {
	if p.cur.Kind != k {
		p.fail("expected %v but found %v", k, p.cur.Kind)
	}
	return p.advance()
}

func (p *parser) expectIdentifier() (ast.Identifier, int) {
	start := p.cur.StartByte
	tok := p.expect(lexer.Identifier)
	return ast.Identifier(tok.Text), start
}

// --- Module ---

func (p *parser) parseModule() *Module {
	m := &Module{}
	p.skipNewlines()
	for p.cur.Kind != lexer.EOF {
		m.TopLevels = append(m.TopLevels, p.parseTopLevel())
		p.skipNewlines()
	}
	return m
}

func (p *parser) parseTopLevel() TopLevel {
	if p.cur.Kind == lexer.KeywordData {
		return &DataTypeTopLevel{ADT: p.parseADT()}
	}
	return &FunctionTopLevel{Declaration: p.parseDeclaration()}
}

// --- Data types ---

func (p *parser) parseADT() *ADT {
	start := p.cur.StartByte
	p.expect(lexer.KeywordData)
	name, _ := p.expectIdentifier()

	var generics []ast.Identifier
	for p.cur.Kind == lexer.Identifier {
		g, _ := p.expectIdentifier()
		generics = append(generics, g)
	}

	p.expect(lexer.Equals)
	var ctors []*Constructor
	ctors = append(ctors, p.parseConstructor())
	for p.cur.Kind == lexer.Pipe {
		p.advance()
		ctors = append(ctors, p.parseConstructor())
	}

	adt := &ADT{Name: name, Generics: generics, Constructors: ctors}
	p.record(adt, start)
	return adt
}

func (p *parser) parseConstructor() *Constructor {
	start := p.cur.StartByte
	name, _ := p.expectIdentifier()

	var atoms []ConstructorType
	for p.cur.Kind == lexer.Identifier || p.cur.Kind == lexer.LParen {
		atoms = append(atoms, p.parseConstructorTypeAtom())
	}

	c := &Constructor{Name: name, Type: combineConstructorTypes(atoms)}
	p.record(c, start)
	return c
}

func (p *parser) parseConstructorTypeAtom() ConstructorType {
	start := p.cur.StartByte
	if p.cur.Kind == lexer.Identifier {
		name, _ := p.expectIdentifier()
		c := &CTConcrete{Name: name}
		p.record(c, start)
		return c
	}
	p.expect(lexer.LParen)
	var inner []ConstructorType
	for p.cur.Kind == lexer.Identifier || p.cur.Kind == lexer.LParen {
		inner = append(inner, p.parseConstructorTypeAtom())
	}
	p.expect(lexer.RParen)
	if len(inner) == 0 {
		p.fail("empty parenthesized type")
	}
	c := &CTParenthesized{Inner: combineConstructorTypes(inner)}
	p.record(c, start)
	return c
}

func combineConstructorTypes(atoms []ConstructorType) ConstructorType {
	if len(atoms) == 0 {
		return nil
	}
	out := atoms[0]
	for _, a := range atoms[1:] {
		out = &CTApplied{Func: out, Arg: a}
	}
	return out
}

// --- Functions ---

func (p *parser) parseDeclaration() *Declaration {
	start := p.cur.StartByte

	var annotation *Annotation
	if p.cur.Kind == lexer.Identifier && p.next.Kind == lexer.DoubleColon {
		aStart := p.cur.StartByte
		name, _ := p.expectIdentifier()
		p.expect(lexer.DoubleColon)
		types := p.parseAnnotationTypeList()
		annotation = &Annotation{Name: name, Types: types}
		p.record(annotation, aStart)
		p.skipNewlines()
	}

	name, _ := p.expectIdentifier()
	var args []Argument
	for p.cur.Kind != lexer.Equals {
		args = append(args, p.parseArgumentAtom())
	}
	p.expect(lexer.Equals)
	p.skipNewlines()
	body := p.parseExpression()

	d := &Declaration{Annotation: annotation, Name: name, Args: args, Body: body}
	p.record(d, start)
	return d
}

// --- Annotation types ---

func (p *parser) parseAnnotationTypeList() []AnnotationType {
	list := []AnnotationType{p.parseAnnotationTypeElement()}
	for p.cur.Kind == lexer.Arrow {
		p.advance()
		list = append(list, p.parseAnnotationTypeElement())
	}
	return list
}

func (p *parser) parseAnnotationTypeElement() AnnotationType {
	atom := p.parseAnnotationAtom()
	for p.cur.Kind == lexer.Identifier || p.cur.Kind == lexer.LParen {
		arg := p.parseAnnotationAtom()
		atom = &ATApplication{Func: atom, Arg: arg}
	}
	return atom
}

func (p *parser) parseAnnotationAtom() AnnotationType {
	start := p.cur.StartByte
	if p.cur.Kind == lexer.Identifier {
		name, _ := p.expectIdentifier()
		a := &ATConcrete{Name: name}
		p.record(a, start)
		return a
	}
	p.expect(lexer.LParen)
	types := p.parseAnnotationTypeList()
	p.expect(lexer.RParen)
	a := &ATParenthesized{Types: types}
	p.record(a, start)
	return a
}

// --- Argument patterns ---

func (p *parser) parseArgumentAtom() Argument {
	start := p.cur.StartByte
	switch p.cur.Kind {
	case lexer.Identifier:
		name, _ := p.expectIdentifier()
		a := &AIdentifier{Name: name}
		p.record(a, start)
		return a
	case lexer.Number:
		tok := p.advance()
		v := parseInt(tok.Text)
		a := &ANumberLiteral{Value: v}
		p.record(a, start)
		return a
	case lexer.LParen:
		p.advance()
		a := p.parseDeconstruction()
		p.expect(lexer.RParen)
		return a
	default:
		p.fail("expected an argument pattern but found %v", p.cur.Kind)
		return nil
	}
}

// parseDeconstruction parses `Ctor sub1 sub2 ...` up to a closing paren (the
// parens around it are consumed by the caller, parseArgumentAtom). A case
// branch's outermost pattern is parsed without parens by parseCaseBranch.
func (p *parser) parseDeconstruction() Argument {
	start := p.cur.StartByte
	name, _ := p.expectIdentifier()
	var subArgs []Argument
	for p.cur.Kind != lexer.RParen {
		subArgs = append(subArgs, p.parseArgumentAtom())
	}
	d := &ADeconstruction{Constructor: name, Args: subArgs}
	p.record(d, start)
	return d
}

// --- Expressions ---

func (p *parser) parseExpression() Expression {
	switch p.cur.Kind {
	case lexer.KeywordCase:
		return p.parseCase()
	case lexer.KeywordLet:
		return p.parseLet()
	default:
		return p.parseInfix()
	}
}

func (p *parser) parseCase() Expression {
	start := p.cur.StartByte
	caseCol := p.columnOf(p.cur.StartByte)
	p.expect(lexer.KeywordCase)
	value := p.parseExpression()
	p.expect(lexer.KeywordOf)
	p.skipNewlines()

	var branches []*CaseBranch
	branches = append(branches, p.parseCaseBranch())
	for p.atCaseBranchStart(caseCol) {
		p.skipNewlines()
		branches = append(branches, p.parseCaseBranch())
	}

	e := &ECase{Value: value, Branches: branches}
	p.record(e, start)
	return e
}

// atCaseBranchStart reports whether the next non-newline token both looks
// like a pattern and is indented past the `case` keyword's own column —
// i.e. is another branch of this case, rather than the start of whatever
// follows the whole case expression.
func (p *parser) atCaseBranchStart(caseCol int) bool {
	if p.cur.Kind != lexer.Newline {
		return false
	}
	peek := p.next
	switch peek.Kind {
	case lexer.Identifier, lexer.Number, lexer.LParen:
		return p.columnOf(peek.StartByte) > caseCol
	default:
		return false
	}
}

// parseCaseBranch parses `pattern -> expression`. A pattern that starts with
// an uppercase identifier is a deconstruction whose sub-patterns run up to
// the arrow (`Ok v -> ...`, `Nothing -> ...`), no parentheses needed.
func (p *parser) parseCaseBranch() *CaseBranch {
	start := p.cur.StartByte
	var pattern Argument
	if p.cur.Kind == lexer.Identifier && p.cur.Text[0] >= 'A' && p.cur.Text[0] <= 'Z' {
		name, _ := p.expectIdentifier()
		var subArgs []Argument
		for p.cur.Kind != lexer.Arrow {
			subArgs = append(subArgs, p.parseArgumentAtom())
		}
		d := &ADeconstruction{Constructor: name, Args: subArgs}
		p.record(d, start)
		pattern = d
	} else {
		pattern = p.parseArgumentAtom()
	}
	p.expect(lexer.Arrow)
	body := p.parseExpression()
	b := &CaseBranch{Pattern: pattern, Expression: body}
	p.record(b, start)
	return b
}

func (p *parser) parseLet() Expression {
	start := p.cur.StartByte
	letCol := p.columnOf(p.cur.StartByte)
	p.expect(lexer.KeywordLet)
	p.skipNewlines()

	var decls []*Declaration
	decls = append(decls, p.parseDeclaration())
	for p.atLetDeclarationStart(letCol) {
		p.skipNewlines()
		decls = append(decls, p.parseDeclaration())
	}
	if p.cur.Kind == lexer.Newline {
		p.skipNewlines()
	}

	p.expect(lexer.KeywordIn)
	p.skipNewlines()
	body := p.parseExpression()

	e := &ELet{Declarations: decls, Body: body}
	p.record(e, start)
	return e
}

// atLetDeclarationStart mirrors atCaseBranchStart: another binding in this
// let-block must be indented past the `let` keyword itself and must look
// like the start of a declaration, not the `in` that closes the block.
func (p *parser) atLetDeclarationStart(letCol int) bool {
	if p.cur.Kind != lexer.Newline {
		return false
	}
	peek := p.next
	if peek.Kind != lexer.Identifier {
		return false
	}
	return p.columnOf(peek.StartByte) > letCol
}

func (p *parser) parseInfix() Expression {
	start := p.cur.StartByte
	left := p.parseApply()
	op, ok := p.tryParseOperator()
	if !ok {
		return left
	}
	p.advance()
	right := p.parseExpression()
	e := &EInfix{Op: op, Left: left, Right: right}
	p.record(e, start)
	return e
}

func (p *parser) tryParseOperator() (OperatorExpr, bool) {
	switch p.cur.Kind {
	case lexer.Plus:
		return Add, true
	case lexer.Minus:
		return Subtract, true
	case lexer.Star:
		return Multiply, true
	case lexer.Slash:
		return Divide, true
	case lexer.PlusPlus:
		return StringAdd, true
	default:
		return 0, false
	}
}

// parseApply parses juxtaposed atoms: one or more atoms in a row is a
// left-associated chain of function application.
func (p *parser) parseApply() Expression {
	start := p.cur.StartByte
	e := p.parseAtom()
	for p.atApplyArgStart() {
		arg := p.parseAtom()
		applied := &EApply{Func: e, Arg: arg}
		p.record(applied, start)
		e = applied
	}
	return e
}

func (p *parser) atApplyArgStart() bool {
	switch p.cur.Kind {
	case lexer.Identifier, lexer.Number, lexer.Float, lexer.String, lexer.LParen:
		return true
	default:
		return false
	}
}

func (p *parser) parseAtom() Expression {
	start := p.cur.StartByte
	switch p.cur.Kind {
	case lexer.Identifier:
		name, _ := p.expectIdentifier()
		e := &EIdentifier{Name: name}
		p.record(e, start)
		return e
	case lexer.Number:
		tok := p.advance()
		e := &ENumber{Value: parseInt(tok.Text)}
		p.record(e, start)
		return e
	case lexer.Float:
		tok := p.advance()
		e := &EFloat{Value: parseFloat(tok.Text)}
		p.record(e, start)
		return e
	case lexer.String:
		tok := p.advance()
		e := &EString{Value: tok.Text}
		p.record(e, start)
		return e
	case lexer.LParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.RParen)
		e := &EBetweenParens{Inner: inner}
		p.record(e, start)
		return e
	default:
		p.fail("expected an expression but found %v", p.cur.Kind)
		return nil
	}
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
