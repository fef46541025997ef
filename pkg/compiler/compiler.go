// Package compiler implements ember's single-pass compiler: a Pratt
// (precedence-climbing) parser that emits bytecode directly as it parses,
// with no intermediate AST. This is the architecture the teacher project
// does not have — smog parses into a full pkg/ast tree and runs a separate
// compiler pass over it — but is exactly what original_source/compiler.c
// does, so the rule table, precedence ladder and emit/patch helpers below
// are ported from there, while the two-token-lookahead Parser driver shape
// (advance/match/error accumulation) is kept from the teacher's
// pkg/parser, which already had the right idea for a single-token-of-
// lookahead scanner-driven parser even though its grammar was different.
//
// The compiler never imports pkg/table or pkg/vm directly: string
// constants need to go through the VM's interner, so Compile takes an
// InternFunc callback rather than reaching for a package-level global the
// way original_source/compiler.c's file-scope `Parser parser` /
// `Compiler *current` does. Threading the reference explicitly also
// avoids a second problem the C version doesn't have to worry about: Go
// import cycles between compiler, value and vm.
package compiler

import (
	"fmt"

	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/lexer"
	"github.com/kristofer/ember/pkg/value"
)

// InternFunc interns a raw string and returns ember's canonical ObjString
// for it, so that two equal string literals compiled anywhere in a
// program are always the same Go pointer.
type InternFunc func(chars string) *value.ObjString

const maxLocals = 256 // UINT8_MAX + 1, matching original_source/compiler.c
const maxConstants = 256

// funcKind distinguishes the implicit top-level script from a real
// function body: only the latter gets a name and a non-global call frame.
type funcKind int

const (
	kindScript funcKind = iota
	kindFunction
)

// local tracks one declared local variable's name and the scope depth it
// was declared at. depth == -1 means "declared but not yet initialized"
// (see resolveLocal), the same sentinel original_source/compiler.c uses.
type local struct {
	name  string
	depth int
}

// funcScope is one nested compilation context: one per function body
// (including the implicit top-level script), chained through enclosing so
// that endScope can restore the enclosing context when a function body is
// finished. resolveLocal searches only the scope it is given.
type funcScope struct {
	enclosing  *funcScope
	fn         *value.ObjFunction
	kind       funcKind
	locals     [maxLocals]local
	localCount int
	scopeDepth int
}

// Parser drives the whole single-pass compile: it owns the token stream
// and the current (innermost) funcScope, and accumulates errors instead
// of stopping at the first one, exactly like the teacher's pkg/parser.
type Parser struct {
	lex       *lexer.Lexer
	cur       lexer.Token
	prev      lexer.Token
	hadErr    bool
	panicking bool
	intern    InternFunc
	current   *funcScope
	errw      func(format string, args ...interface{})
}

// Errors is the accumulated list of "[line N] Error ...: msg" diagnostics
// produced during Compile, in the order they were reported.
type Errors []string

func (e Errors) Error() string {
	s := ""
	for i, line := range e {
		if i > 0 {
			s += "\n"
		}
		s += line
	}
	return s
}

// Compile compiles source into a top-level ObjFunction ready for the VM
// to call. It returns the function and nil on success, or nil and an
// Errors value describing every syntax error found.
func Compile(source string, intern InternFunc) (*value.ObjFunction, error) {
	p := &Parser{lex: lexer.New(source), intern: intern}
	var errs Errors
	p.errw = func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	p.pushScope(kindScript)
	p.advance()

	for !p.match(lexer.TokenEOF) {
		p.declaration()
	}

	fn := p.endScope()
	if p.hadErr {
		return nil, errs
	}
	return fn, nil
}

func (p *Parser) chunk() *value.Chunk { return p.current.fn.Chunk }

func (p *Parser) pushScope(kind funcKind) {
	fn := value.NewObjFunction()
	if kind != kindScript {
		fn.Name = p.intern(p.prev.Lexeme)
	}
	scope := &funcScope{enclosing: p.current, fn: fn, kind: kind}
	// Slot 0 is reserved for the VM's own bookkeeping (the function being
	// called occupies its own call frame's slot 0), matching
	// original_source/compiler.c's init_compiler reserving locals[0].
	scope.locals[0] = local{name: "", depth: 0}
	scope.localCount = 1
	p.current = scope
}

func (p *Parser) endScope() *value.ObjFunction {
	p.emitByte(byte(bytecode.OpNil))
	p.emitByte(byte(bytecode.OpReturn))
	fn := p.current.fn
	p.current = p.current.enclosing
	return fn
}

func (p *Parser) beginBlockScope() { p.current.scopeDepth++ }

func (p *Parser) endBlockScope() {
	p.current.scopeDepth--
	for p.current.localCount > 0 &&
		p.current.locals[p.current.localCount-1].depth > p.current.scopeDepth {
		p.emitByte(byte(bytecode.OpPop))
		p.current.localCount--
	}
}

// --- token stream -----------------------------------------------------

func (p *Parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.lex.NextToken()
		if p.cur.Type != lexer.TokenError {
			break
		}
		p.errorAtCurrent(p.cur.Lexeme)
	}
}

func (p *Parser) check(t lexer.TokenType) bool { return p.cur.Type == t }

func (p *Parser) match(t lexer.TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(t lexer.TokenType, msg string) {
	if p.cur.Type == t {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

// --- error reporting ----------------------------------------------------

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.cur, msg) }
func (p *Parser) error(msg string)          { p.errorAt(p.prev, msg) }

func (p *Parser) errorAt(tok lexer.Token, msg string) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.hadErr = true
	switch tok.Type {
	case lexer.TokenEOF:
		p.errw("[line %d] Error at end: %s", tok.Line, msg)
	case lexer.TokenError:
		p.errw("[line %d] Error: %s", tok.Line, msg)
	default:
		p.errw("[line %d] Error at '%s': %s", tok.Line, tok.Lexeme, msg)
	}
}

// synchronize skips tokens after a syntax error until it finds one that
// plausibly starts a new statement, so one error doesn't cascade into a
// wall of follow-on diagnostics.
func (p *Parser) synchronize() {
	p.panicking = false
	for p.cur.Type != lexer.TokenEOF {
		if p.prev.Type == lexer.TokenSemicolon {
			return
		}
		switch p.cur.Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}
