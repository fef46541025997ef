package compiler

import (
	"github.com/kristofer/ember/pkg/lexer"
	"github.com/kristofer/ember/pkg/value"
)

// identifierConstant adds name's text as a string constant (for a global
// variable's name) and returns its constant index.
func (p *Parser) identifierConstant(name lexer.Token) byte {
	return p.makeConstant(value.FromObj(p.intern(name.Lexeme)))
}

// resolveLocal searches scope's locals from innermost to outermost
// declaration order (so shadowing finds the most recent one) and returns
// its slot, or -1 if name isn't a local in this scope.
func (p *Parser) resolveLocal(scope *funcScope, name lexer.Token) int {
	for i := scope.localCount - 1; i >= 0; i-- {
		l := &scope.locals[i]
		if l.name == name.Lexeme {
			if l.depth == -1 {
				p.error("Cannot read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// addLocal reserves a new local slot for name, left uninitialized
// (depth -1) until markInitialized is called once its initializer has
// been compiled.
func (p *Parser) addLocal(name lexer.Token) {
	if p.current.localCount == maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.current.locals[p.current.localCount] = local{name: name.Lexeme, depth: -1}
	p.current.localCount++
}

// declareVariable registers the variable named by the previous token as a
// local if we're inside a block scope (globals are resolved by name at
// runtime and need no slot). Redeclaring a name already local to this
// exact scope is an error.
func (p *Parser) declareVariable() {
	if p.current.scopeDepth == 0 {
		return
	}
	name := p.prev
	for i := p.current.localCount - 1; i >= 0; i-- {
		l := &p.current.locals[i]
		if l.depth != -1 && l.depth < p.current.scopeDepth {
			break
		}
		if l.name == name.Lexeme {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) markInitialized() {
	if p.current.scopeDepth == 0 {
		return
	}
	p.current.locals[p.current.localCount-1].depth = p.current.scopeDepth
}
