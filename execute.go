package main

import (
	"errors"
	"fmt"
)

//
// Execution driver.  The interp tracks a current line index and an
// intra-line cursor; a nil cursor means "ready at line start".
// Control flow handlers set a new current line and clear the cursor
// (or install a saved one), and the loop here services the change.
// Statements on the same line are separated by ':'
//

func (in *interp) run() (err error) {

	defer func() {
		if e := recover(); e != nil {
			re, ok := e.(*runtimeErrorInfo)
			if !ok {
				panic(e)
			}

			in.halted = true
			err = in.diagnose(re.msg)
		}
	}()

	in.halted = false
	in.curLine = 0
	in.cur = nil
	in.con.col = 0

	for !in.halted && in.curLine >= 0 && in.curLine < len(in.lines) {
		if in.cur == nil {
			in.cur = &cursor{text: in.lines[in.curLine].text}
		}

		in.cur.skipSpaces()

		if in.cur.atEnd() {
			in.curLine++
			in.cur = nil
			continue
		}

		in.executeStatement(in.cur)

		in.numStatements++

		if in.halted {
			break
		}

		//
		// A nil cursor here means a control transfer happened
		//

		if in.cur == nil {
			continue
		}

		in.cur.skipSpaces()

		if in.cur.peek() == ':' {
			in.cur.pos++
			continue
		}

		if in.cur.atEnd() {
			in.curLine++
			in.cur = nil
		}
	}

	return nil
}

//
// All errors are fatal: write the one-line diagnostic, naming the
// offending BASIC line when one is known
//

func (in *interp) diagnose(msg string) error {

	if in.curLine >= 0 && in.curLine < len(in.lines) {
		msg = fmt.Sprintf("Error at line %d: %s", in.lines[in.curLine].number, msg)
	} else {
		msg = "Error: " + msg
	}

	fmt.Fprintln(in.con.errw, msg)

	return errors.New(msg)
}

//
// Dispatch on the leading keyword.  An identifier that is not a
// keyword defaults to LET
//

func (in *interp) executeStatement(c *cursor) {

	c.skipSpaces()

	if c.atEnd() {
		return
	}

	if in.traceExec {
		in.traceStatement(c)
	}

	switch {
	case startsWithKw(c, "REM") || c.peek() == '\'':
		executeRem(c)

	case startsWithKw(c, "PRINT") || c.peek() == '?':
		if c.peek() == '?' {
			c.pos++
		} else {
			c.pos += 5
		}
		in.executePrint(c)

	case startsWithKw(c, "INPUT"):
		c.pos += 5
		in.executeInput(c)

	case startsWithKw(c, "LET"):
		c.pos += 3
		in.executeLet(c)

	case startsWithKw(c, "GOTO"):
		c.pos += 4
		in.executeGoto(c)

	case startsWithKw(c, "GOSUB"):
		c.pos += 5
		in.executeGosub(c)

	case startsWithKw(c, "RETURN"):
		c.pos += 6
		in.executeReturn()

	case startsWithKw(c, "IF"):
		c.pos += 2
		in.executeIf(c)

	case startsWithKw(c, "FOR"):
		c.pos += 3
		in.executeFor(c)

	case startsWithKw(c, "NEXT"):
		c.pos += 4
		in.executeNext(c)

	case startsWithKw(c, "DIM"):
		c.pos += 3
		in.executeDim(c)

	case startsWithKw(c, "SLEEP"):
		c.pos += 5
		in.executeSleep(c)

	case startsWithKw(c, "END"), startsWithKw(c, "STOP"):
		in.executeEnd(c)

	case isAlpha(c.peek()):
		in.executeLet(c)

	default:
		runtimeError(EUNKNOWNSTATEMENT)
	}
}

func (in *interp) traceStatement(c *cursor) {

	fmt.Fprintf(in.con.errw, "trace: %d %s\n",
		in.lines[in.curLine].number, c.text[c.pos:])
}

func executeRem(c *cursor) {

	c.skipToEnd()
}

//
// PRINT item list.  ';' joins items with nothing between them, ','
// advances to the next tab zone; either suppresses the newline when
// trailing.  '?' is handled by the dispatcher as a PRINT synonym
//

func (in *interp) executePrint(c *cursor) {

	newline := true

	for {
		c.skipSpaces()

		if c.atEnd() || c.peek() == ':' {
			break
		}

		v := in.evalOrExpr(c)
		in.con.printValue(v)

		c.skipSpaces()

		if c.peek() == ';' {
			newline = false
			c.pos++
		} else if c.peek() == ',' {
			newline = false
			in.con.nextZone()
			c.pos++
		} else {
			newline = true
			break
		}
	}

	if newline {
		in.con.newline()
	}
}

//
// INPUT ["prompt" ;] var [, var ...].  The prompt string prints once,
// before the first variable; every read is preceded by "? ".  String
// variables take the line verbatim, numeric variables parse it the
// atof way (leading garbage yields 0)
//

func (in *interp) executeInput(c *cursor) {

	var prompt string

	c.skipSpaces()

	if c.peek() == '"' {
		prompt = ensureStr(in.evalFactor(c))

		c.skipSpaces()
		if c.peek() == ';' || c.peek() == ',' {
			c.pos++
		}
	}

	firstPrompt := true

	for {
		c.skipSpaces()

		if c.atEnd() || c.peek() == ':' {
			break
		}

		if !isAlpha(c.peek()) {
			runtimeError(EINPUTVARIABLE)
		}

		ref := in.varReference(c)

		if prompt != "" && firstPrompt {
			in.con.writeString(prompt)
		}

		line, ok := in.con.input(executePrompt)
		if !ok {
			runtimeError(EENDOFINPUT)
		}

		if ref.node.key.isString {
			*ref.slot() = makeStr(line)
		} else {
			*ref.slot() = makeNum(atof(line))
		}

		c.skipSpaces()

		if c.peek() == ',' {
			c.pos++
			firstPrompt = false
			continue
		}

		break
	}
}

//
// LET is optional; the dispatcher sends bare assignments here too.
// The target's string-ness dictates the required RHS type
//

func (in *interp) executeLet(c *cursor) {

	ref := in.varReference(c)

	c.skipSpaces()
	runtimeCheck(c.peek() == '=', EEXPECTEDEQUALS)
	c.pos++

	rhs := in.evalOrExpr(c)

	if ref.node.key.isString {
		ensureStr(rhs)
	} else {
		ensureNum(rhs)
	}

	*ref.slot() = rhs
}

func (in *interp) executeGoto(c *cursor) {

	in.jumpTo(parseLineTarget(c))
}

func (in *interp) jumpTo(target int) {

	idx := in.findLineIndex(target)
	runtimeCheck(idx >= 0, ETARGETNOTFOUND)

	in.curLine = idx
	in.cur = nil
}

//
// GOSUB saves the cursor position just past the target number, so a
// RETURN continues with whatever follows on the calling line
//

func (in *interp) executeGosub(c *cursor) {

	runtimeCheck(len(in.gosubStack) < gosubStackMax, EGOSUBOVERFLOW)

	target := parseLineTarget(c)

	in.gosubStack = append(in.gosubStack,
		gosubFrame{lineIndex: in.curLine, pos: c.pos})

	in.jumpTo(target)
}

func (in *interp) executeReturn() {

	n := len(in.gosubStack)
	runtimeCheck(n > 0, ERETURNNOGOSUB)

	f := in.gosubStack[n-1]
	in.gosubStack = in.gosubStack[:n-1]

	in.curLine = f.lineIndex
	in.cur = &cursor{text: in.lines[f.lineIndex].text, pos: f.pos}
}

//
// IF condition THEN ...: a false condition skips the remainder of the
// line, ':'-separated statements included.  A true condition followed
// by digits is an implicit GOTO; otherwise the rest of the line
// executes inline (the driver picks up at the cursor)
//

func (in *interp) executeIf(c *cursor) {

	cond := in.evalCondition(c)

	c.skipSpaces()
	runtimeCheck(startsWithKw(c, "THEN"), EMISSINGTHEN)
	c.pos += 4

	c.skipSpaces()

	if !cond {
		c.skipToEnd()
		return
	}

	if isDigit(c.peek()) {
		in.jumpTo(parseLineTarget(c))
	}
}

//
// FOR v = start TO end [STEP s].  The loop variable must be a numeric
// scalar.  The frame captures the resume point just past the FOR
// statement; there is no initial boundary check, so the body always
// runs at least once
//

func (in *interp) executeFor(c *cursor) {

	runtimeCheck(len(in.forStack) < forStackMax, EFOROVERFLOW)

	ref := in.varReference(c)

	runtimeCheck(!ref.isArray(), EFORSCALAR)
	runtimeCheck(!ref.node.key.isString, EFORNUMERIC)

	c.skipSpaces()
	runtimeCheck(c.peek() == '=', EEXPECTEDEQUALSFOR)
	c.pos++

	start := ensureNum(in.evalOrExpr(c))

	c.skipSpaces()
	runtimeCheck(startsWithKw(c, "TO"), EEXPECTEDTO)
	c.pos += 2

	end := ensureNum(in.evalOrExpr(c))

	step := 1.0
	c.skipSpaces()
	if startsWithKw(c, "STEP") {
		c.pos += 4
		step = ensureNum(in.evalOrExpr(c))
	}

	*ref.slot() = makeNum(start)

	in.forStack = append(in.forStack, forFrame{
		key:       ref.node.key,
		end:       end,
		step:      step,
		lineIndex: in.curLine,
		resumePos: c.pos,
	})
}

//
// NEXT [v].  Without a name the innermost frame matches; with one,
// inner frames are discarded until the name matches.  The loop
// variable's scalar slot is re-resolved here rather than cached in
// the frame, so a body that grows the variable's array cannot leave
// the frame pointing at freed storage
//

func (in *interp) executeNext(c *cursor) {

	var name string

	c.skipSpaces()
	if isAlpha(c.peek()) {
		name = readIdentifier(c)
	}

	key := uppercaseName(name)

	i := len(in.forStack) - 1
	for ; i >= 0; i-- {
		if name == "" || (in.forStack[i].key.n1 == key.n1 &&
			in.forStack[i].key.n2 == key.n2) {
			break
		}
	}

	runtimeCheck(i >= 0, ENEXTNOFOR)

	in.forStack = in.forStack[:i+1]
	f := &in.forStack[i]

	v := in.vars.varAvlTreeLookup(f.key)
	runtimeCheck(v != nil, ELOOPVARMISSING)

	v.scalar.num += f.step

	if (f.step >= 0 && v.scalar.num <= f.end) ||
		(f.step < 0 && v.scalar.num >= f.end) {
		in.curLine = f.lineIndex
		in.cur = &cursor{text: in.lines[f.lineIndex].text, pos: f.resumePos}
	} else {
		in.forStack = in.forStack[:i]
	}
}

//
// DIM name(size) [, ...]: allocate or grow to size+1 elements
//

func (in *interp) executeDim(c *cursor) {

	for {
		c.skipSpaces()

		if !isAlpha(c.peek()) {
			runtimeError(EEXPECTEDARRAYNAME)
		}

		key := uppercaseName(readIdentifier(c))

		c.skipSpaces()
		runtimeCheck(c.peek() == '(', EDIMREQUIRESSIZE)
		c.pos++

		size := int(ensureNum(in.evalOrExpr(c))) + 1
		runtimeCheck(size > 0, EINVALIDARRAYSIZE)

		c.skipSpaces()
		runtimeCheck(c.peek() == ')', EMISSINGRPAREN)
		c.pos++

		in.vars.lookupOrCreate(key, true, size)

		c.skipSpaces()
		if c.peek() == ',' {
			c.pos++
			continue
		}

		break
	}
}

//
// SLEEP t (or SLEEP (t)): suspend for t ticks of 1/60 s via the host
// sleep collaborator
//

func (in *interp) executeSleep(c *cursor) {

	var v value

	c.skipSpaces()

	if c.peek() == '(' {
		c.pos++
		v = in.evalOrExpr(c)
		in.closeParen(c)
	} else {
		v = in.evalOrExpr(c)
	}

	in.sleepFn(ensureNum(v))
}

func (in *interp) executeEnd(c *cursor) {

	in.halted = true
	c.skipToEnd()
}
