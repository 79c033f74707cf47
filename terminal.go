package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"
)

//
// The console owns all terminal traffic: a column-tracked character
// sink for PRINT, a diagnostic writer, and a line source for INPUT.
// The column counter is 0-based and wraps at the fixed print width
//

type console struct {
	out  io.Writer
	errw io.Writer
	src  lineSource
	col  int
}

func newConsole(out, errw io.Writer, src lineSource) *console {

	return &console{out: out, errw: errw, src: src}
}

//
// Emit text, wrapping with an automatic newline whenever the column
// reaches the print width
//

func (co *console) writeString(s string) {

	var buf []byte

	for i := 0; i < len(s); i++ {
		ch := s[i]

		buf = append(buf, ch)

		if ch == '\n' {
			co.col = 0
			continue
		}

		co.col++
		if co.col >= printWidth {
			buf = append(buf, '\n')
			co.col = 0
		}
	}

	_, _ = co.out.Write(buf)
}

func (co *console) newline() {

	_, _ = co.out.Write([]byte{'\n'})
	co.col = 0
}

func (co *console) printSpaces(count int) {

	co.writeString(strings.Repeat(" ", count))
}

func (co *console) printValue(v value) {

	if v.isStr {
		co.writeString(v.str)
	} else {
		co.writeString(formatNumber(v.num))
	}
}

//
// Advance to the start of the next tab zone (PRINT with a comma)
//

func (co *console) nextZone() {

	next := ((co.col / zoneWidth) + 1) * zoneWidth
	if next < co.col {
		next = co.col
	}

	co.printSpaces(next - co.col)
}

//
// TAB(n): emit spaces up to column n mod print width, injecting a
// newline first if the cursor is already past the target
//

func (co *console) tab(n int) {

	target := n % printWidth
	if target < 0 {
		target += printWidth
	}

	if target < co.col {
		co.newline()
	}

	co.printSpaces(target - co.col)
}

//
// Read one input line.  The terminal echo of the user's newline puts
// the cursor back at column 0 either way
//

func (co *console) input(prompt string) (string, bool) {

	line, err := co.src.ReadLine(prompt)

	co.col = 0

	if err != nil {
		return "", false
	}

	return line, true
}

//
// A lineSource produces '\n'-terminated terminal reads, without the
// terminator.  Interactive runs get line editing via liner; piped
// runs (and tests) get a plain buffered reader
//

type lineSource interface {
	ReadLine(prompt string) (string, error)
	Close()
}

type linerSource struct {
	l *liner.State
}

func (ls *linerSource) ReadLine(prompt string) (string, error) {

	s, err := ls.l.Prompt(prompt)

	if err != nil {
		if err == liner.ErrPromptAborted {
			return "", io.EOF
		}
		return "", err
	}

	return s, nil
}

func (ls *linerSource) Close() {

	ls.l.Close()
}

type pipeSource struct {
	r    *bufio.Reader
	echo io.Writer
}

func newPipeSource(r io.Reader, echo io.Writer) *pipeSource {

	return &pipeSource{r: bufio.NewReader(r), echo: echo}
}

func (ps *pipeSource) ReadLine(prompt string) (string, error) {

	if prompt != "" {
		_, _ = io.WriteString(ps.echo, prompt)
	}

	s, err := ps.r.ReadString('\n')
	if err != nil && (err != io.EOF || len(s) == 0) {
		return "", err
	}

	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	return s, nil
}

func (ps *pipeSource) Close() {
}

//
// Pick the line source for this process.  The liner instance is
// history-free: INPUT reads should not scroll back into each other
//

func setupLineSource() lineSource {

	if term.IsTerminal(0) {
		l := liner.NewLiner()
		l.SetMultiLineMode(true)

		return &linerSource{l: l}
	}

	return newPipeSource(os.Stdin, os.Stdout)
}
