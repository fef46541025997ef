package compiler

import (
	"strconv"

	"github.com/kristofer/ember/pkg/bytecode"
	"github.com/kristofer/ember/pkg/lexer"
	"github.com/kristofer/ember/pkg/value"
)

// precedence orders operators from loosest to tightest binding, mirroring
// original_source/compiler.c's Precedence enum exactly (the numeric order
// is load-bearing: parsePrecedence compares it directly).
type precedence int

const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

// parseFn is a prefix or infix parse handler. canAssign is threaded into
// every one of them, not just variable, matching original_source's
// ParseFn signature and DESIGN.md's Open Question resolution: only
// variable reads it, but parsePrecedence's trailing "Invalid assignment
// target." check relies on every handler taking the same shape.
type parseFn func(p *Parser, canAssign bool)

type rule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

var rules map[lexer.TokenType]rule

func init() {
	rules = map[lexer.TokenType]rule{
		lexer.TokenLeftParen:    {prefix: grouping, infix: call, prec: precCall},
		lexer.TokenRightParen:   {},
		lexer.TokenLeftBrace:    {},
		lexer.TokenRightBrace:   {},
		lexer.TokenComma:        {},
		lexer.TokenDot:          {},
		lexer.TokenMinus:        {prefix: unary, infix: binary, prec: precTerm},
		lexer.TokenPlus:         {infix: binary, prec: precTerm},
		lexer.TokenSemicolon:    {},
		lexer.TokenSlash:        {infix: binary, prec: precFactor},
		lexer.TokenStar:         {infix: binary, prec: precFactor},
		lexer.TokenBang:         {prefix: unary},
		lexer.TokenBangEqual:    {infix: binary, prec: precEquality},
		lexer.TokenEqual:        {},
		lexer.TokenEqualEqual:   {infix: binary, prec: precEquality},
		lexer.TokenGreater:      {infix: binary, prec: precComparison},
		lexer.TokenGreaterEqual: {infix: binary, prec: precComparison},
		lexer.TokenLess:         {infix: binary, prec: precComparison},
		lexer.TokenLessEqual:    {infix: binary, prec: precComparison},
		lexer.TokenIdentifier:   {prefix: variable},
		lexer.TokenString:       {prefix: stringLiteral},
		lexer.TokenNumber:       {prefix: number},
		lexer.TokenAnd:          {infix: and_, prec: precAnd},
		// class, super and this are reserved keywords with no parse rule:
		// the grammar doesn't define classes yet (spec Non-goals), but the
		// lexer still recognizes them so a future extension doesn't have
		// to renegotiate keyword status.
		lexer.TokenClass: {},
		lexer.TokenElse:  {},
		lexer.TokenFalse: {prefix: literal},
		lexer.TokenFor:   {},
		lexer.TokenFun:   {},
		lexer.TokenIf:    {},
		lexer.TokenNil:   {prefix: literal},
		lexer.TokenOr:    {infix: or_, prec: precOr},
		lexer.TokenPrint: {},
		lexer.TokenReturn: {},
		lexer.TokenSuper: {},
		lexer.TokenThis:  {},
		lexer.TokenTrue:  {prefix: literal},
		lexer.TokenVar:   {},
		lexer.TokenWhile: {},
		lexer.TokenError: {},
		lexer.TokenEOF:   {},
	}
}

func getRule(t lexer.TokenType) rule { return rules[t] }

func (p *Parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := getRule(p.prev.Type).prefix
	if prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= getRule(p.cur.Type).prec {
		p.advance()
		infix := getRule(p.prev.Type).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.error("Invalid assignment target.")
	}
}

func (p *Parser) expression() { p.parsePrecedence(precAssignment) }

func binary(p *Parser, _ bool) {
	opType := p.prev.Type
	r := getRule(opType)
	p.parsePrecedence(r.prec + 1)

	switch opType {
	case lexer.TokenPlus:
		p.emitOp(bytecode.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(bytecode.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(bytecode.OpDivide)
	case lexer.TokenBangEqual:
		p.emitBytes(byte(bytecode.OpEqual), byte(bytecode.OpNot))
	case lexer.TokenEqualEqual:
		p.emitOp(bytecode.OpEqual)
	case lexer.TokenGreater:
		p.emitOp(bytecode.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitBytes(byte(bytecode.OpLess), byte(bytecode.OpNot))
	case lexer.TokenLess:
		p.emitOp(bytecode.OpLess)
	case lexer.TokenLessEqual:
		p.emitBytes(byte(bytecode.OpGreater), byte(bytecode.OpNot))
	}
}

func call(p *Parser, _ bool) {
	argCount := p.argumentList()
	p.emitBytes(byte(bytecode.OpCall), argCount)
}

func (p *Parser) argumentList() byte {
	var argCount int
	if !p.check(lexer.TokenRightParen) {
		for {
			p.expression()
			if argCount == 255 {
				p.error("Cannot have more than 255 arguments.")
			}
			argCount++
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return byte(argCount)
}

func literal(p *Parser, _ bool) {
	switch p.prev.Type {
	case lexer.TokenFalse:
		p.emitOp(bytecode.OpFalse)
	case lexer.TokenNil:
		p.emitOp(bytecode.OpNil)
	case lexer.TokenTrue:
		p.emitOp(bytecode.OpTrue)
	}
}

func grouping(p *Parser, _ bool) {
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func number(p *Parser, _ bool) {
	n, _ := strconv.ParseFloat(p.prev.Lexeme, 64)
	p.emitConstant(value.Number(n))
}

func and_(p *Parser, _ bool) {
	endJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func or_(p *Parser, _ bool) {
	elseJump := p.emitJump(bytecode.OpJumpIfFalse)
	endJump := p.emitJump(bytecode.OpJump)

	p.patchJump(elseJump)
	p.emitOp(bytecode.OpPop)

	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

func stringLiteral(p *Parser, _ bool) {
	raw := p.prev.Lexeme[1 : len(p.prev.Lexeme)-1] // strip surrounding quotes
	p.emitConstant(value.FromObj(p.intern(raw)))
}

// namedVariable resolves name as a local first and only falls back to a
// global lookup/assignment when no local matches — this is the spec's
// fix for original_source/compiler.c's named_variable, which resolves the
// local slot but then unconditionally emits the global opcodes anyway.
func namedVariable(p *Parser, name lexer.Token, canAssign bool) {
	var getOp, setOp bytecode.Opcode
	arg := p.resolveLocal(p.current, name)
	if arg != -1 {
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else {
		arg = int(p.identifierConstant(name))
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitBytes(byte(setOp), byte(arg))
	} else {
		p.emitBytes(byte(getOp), byte(arg))
	}
}

func variable(p *Parser, canAssign bool) {
	namedVariable(p, p.prev, canAssign)
}

func unary(p *Parser, _ bool) {
	opType := p.prev.Type
	p.parsePrecedence(precUnary)
	switch opType {
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpNegate)
	case lexer.TokenBang:
		p.emitOp(bytecode.OpNot)
	}
}
