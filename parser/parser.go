package parser

import (
	"strconv"

	"github.com/nib-lang/nib/ident"
	"github.com/nib-lang/nib/lexer"
	"github.com/nib-lang/nib/nibErr"
)

// Parser is a two-token-lookahead recursive-descent parser, grounded on
// the teacher's parser.Parser (CurrToken/NextToken priming, advance,
// expectAdvance, error-collection-not-panic), narrowed to this language's
// grammar and merged with lowering: handles are interned and the
// expression pool is built directly as the token stream is walked, rather
// than in a second pass over a separate rule tree.
type Parser struct {
	lex       *lexer.Lexer
	cur, next lexer.Token

	pool     *Pool
	interner *ident.Interner

	errs []error
}

// New returns a Parser ready to parse src, with a fresh interner. Use
// this for parsing one whole, self-contained program (a script file).
func New(src string) *Parser {
	return NewWith(src, ident.NewInterner())
}

// NewWith returns a Parser that interns identifiers into the given
// interner instead of a fresh one, so handle numbering stays stable
// across several successive Parse calls against one persistent
// Environment — as the REPL and each "serve" connection require, since
// a handle interned on one line must still index the right slot in the
// already-populated Environment on the next.
func NewWith(src string, interner *ident.Interner) *Parser {
	p := &Parser{
		lex:      lexer.New(src),
		pool:     NewPool(),
		interner: interner,
	}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.next
	tok, err := p.lex.NextToken()
	if err != nil {
		p.errs = append(p.errs, err)
	}
	p.next = tok
}

func (p *Parser) pos() nibErr.Position { return nibErr.Position{Line: p.cur.Line, Column: p.cur.Column} }

func (p *Parser) addErrorf(format string, args ...any) {
	p.errs = append(p.errs, nibErr.New(nibErr.ParseError, p.pos(), format, args...))
}

// expect advances past cur if it has type tt, else records a parse error
// and returns false without advancing.
func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.cur.Type != tt {
		p.addErrorf("expected %s, found %s %q", tt, p.cur.Type, p.cur.Literal)
		return false
	}
	p.advance()
	return true
}

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []error { return p.errs }

type snapshot struct {
	lex       lexer.Lexer
	cur, next lexer.Token
}

func (p *Parser) snapshot() snapshot { return snapshot{lex: *p.lex, cur: p.cur, next: p.next} }

func (p *Parser) restore(s snapshot) {
	*p.lex = s.lex
	p.cur = s.cur
	p.next = s.next
}

// Parse consumes the whole token stream and returns the lowered Program.
// If any parse error was collected, Parse returns a nil Program and the
// first error; the full list stays available through Errors.
func (p *Parser) Parse() (*Program, error) {
	var stmts []Stmt
	for p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if len(p.errs) > 0 {
			// Parsing is best-effort past the first error only for
			// collecting additional diagnostics; callers must still treat
			// any non-empty Errors() as fatal.
		}
	}
	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	p.pool.ShrinkToFit()
	return &Program{Pool: p.pool, Stmts: stmts, Interner: p.interner}, nil
}

func (p *Parser) parseStatement() Stmt {
	switch p.cur.Type {
	case lexer.GIMME:
		return p.parseDecl()
	case lexer.IF:
		return p.parseIfElse()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.PRINT, lexer.PRINTLN:
		return p.parseOutput()
	case lexer.BREAK:
		pos := p.pos()
		p.advance()
		p.expect(lexer.SEMI)
		return &BreakStmt{Pos: pos}
	case lexer.CONTINUE:
		pos := p.pos()
		p.advance()
		p.expect(lexer.SEMI)
		return &ContinueStmt{Pos: pos}
	case lexer.RETURN:
		pos := p.pos()
		p.advance()
		e := p.parseExpr(0)
		p.expect(lexer.SEMI)
		return &ReturnStmt{Pos: pos, Expr: e}
	case lexer.LBRACE:
		return p.parseBlock(false)
	default:
		return p.parseExprOrAssignStatement()
	}
}

func (p *Parser) parseDecl() Stmt {
	pos := p.pos()
	p.advance() // 'gimme'
	if p.cur.Type != lexer.IDENT {
		p.addErrorf("expected identifier after gimme, found %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	h := p.interner.Intern(name)
	p.advance()
	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	if params, ok := p.tryParseLambdaHeader(); ok {
		body := p.parseBlock(true)
		p.expect(lexer.SEMI)
		return &DeclFuncStmt{Pos: pos, Handle: h, Params: params, Body: body}
	}
	e := p.parseExpr(0)
	p.expect(lexer.SEMI)
	return &DeclVarStmt{Pos: pos, Handle: h, Expr: e}
}

// tryParseLambdaHeader attempts to parse "(IDENT, ...) =>" at the current
// position. On failure it restores the parser to its entry state and
// returns ok=false so the caller can fall back to normal expression
// parsing (grouping parentheses look identical up to this point).
func (p *Parser) tryParseLambdaHeader() ([]ident.Handle, bool) {
	if p.cur.Type != lexer.LPAREN {
		return nil, false
	}
	snap := p.snapshot()
	savedErrs := len(p.errs)
	p.advance()
	var params []ident.Handle
	for p.cur.Type != lexer.RPAREN {
		if p.cur.Type != lexer.IDENT {
			p.restore(snap)
			p.errs = p.errs[:savedErrs]
			return nil, false
		}
		params = append(params, p.interner.Intern(p.cur.Literal))
		p.advance()
		if p.cur.Type == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if p.cur.Type != lexer.RPAREN {
		p.restore(snap)
		p.errs = p.errs[:savedErrs]
		return nil, false
	}
	p.advance()
	if p.cur.Type != lexer.FAT_ARROW {
		p.restore(snap)
		p.errs = p.errs[:savedErrs]
		return nil, false
	}
	p.advance()
	return params, true
}

func (p *Parser) parseIfElse() Stmt {
	pos := p.pos()
	var branches []CondBlock
	p.advance() // 'if'
	cond := p.parseExpr(0)
	body := p.parseBlock(false)
	branches = append(branches, CondBlock{Cond: cond, Body: body})
	for p.cur.Type == lexer.ELIF {
		p.advance()
		c := p.parseExpr(0)
		b := p.parseBlock(false)
		branches = append(branches, CondBlock{Cond: c, Body: b})
	}
	var elseBody *Scope
	if p.cur.Type == lexer.ELSE {
		p.advance()
		elseBody = p.parseBlock(false)
	}
	return &IfElseStmt{Pos: pos, Branches: branches, Else: elseBody}
}

func (p *Parser) parseWhile() Stmt {
	pos := p.pos()
	p.advance() // 'while'
	cond := p.parseExpr(0)
	body := p.parseBlock(false)
	return &WhileStmt{Pos: pos, Cond: cond, Body: body}
}

func (p *Parser) parseOutput() Stmt {
	pos := p.pos()
	newline := p.cur.Type == lexer.PRINTLN
	p.advance()
	e := p.parseExpr(0)
	p.expect(lexer.SEMI)
	return &OutputStmt{Pos: pos, Expr: e, Newline: newline}
}

func (p *Parser) parseBlock(isFunctionScope bool) *Scope {
	pos := p.pos()
	if !p.expect(lexer.LBRACE) {
		return &Scope{Pos: pos, IsFunctionScope: isFunctionScope}
	}
	var stmts []Stmt
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(lexer.RBRACE)
	return &Scope{Pos: pos, Stmts: stmts, IsFunctionScope: isFunctionScope}
}

var assignOps = map[lexer.TokenType]AssignOp{
	lexer.ASSIGN:       AssignPlain,
	lexer.PLUS_ASSIGN:  AssignAdd,
	lexer.MINUS_ASSIGN: AssignSub,
	lexer.STAR_ASSIGN:  AssignMul,
	lexer.SLASH_ASSIGN: AssignDiv,
}

func (p *Parser) parseExprOrAssignStatement() Stmt {
	pos := p.pos()
	if p.cur.Type == lexer.IDENT {
		if op, ok := assignOps[p.next.Type]; ok {
			name := p.cur.Literal
			h := p.interner.Intern(name)
			p.advance() // ident
			p.advance() // op
			e := p.parseExpr(0)
			p.expect(lexer.SEMI)
			return &AssignStmt{Pos: pos, Handle: h, Op: op, Expr: e}
		}
	}
	e := p.parseExpr(0)
	p.expect(lexer.SEMI)
	return &ExprStmt{Pos: pos, Expr: e}
}

// literal integer parsing, grounded on the teacher's strconv-based number
// conversion.
func parseIntLiteral(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}
