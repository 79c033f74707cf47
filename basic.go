package main

import (
	"os"
	"strings"

	"github.com/goforj/godump"
)

const usageMsg = "Usage: retrobasic [-trace] [-dump] [-stats] program.bas"

func main() {

	var traceExec, dumpVars, printStats bool

	args := os.Args[1:]

	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		switch args[0] {
		default:
			crash(usageMsg)

		case "-trace":
			traceExec = true

		case "-dump":
			dumpVars = true

		case "-stats":
			printStats = true
		}

		args = args[1:]
	}

	if len(args) != 1 {
		crash(usageMsg)
	}

	src := setupLineSource()

	in := newInterp(newConsole(os.Stdout, os.Stderr, src))
	in.traceExec = traceExec

	if err := in.loadProgramFile(args[0]); err != nil {
		src.Close()
		crash(err.Error())
	}

	st := initClock()

	runErr := in.run()

	if printStats {
		st.printStatistics(in.numStatements)
	}

	if dumpVars {
		in.dumpVariables()
	}

	src.Close()

	if runErr != nil {
		os.Exit(1)
	}
}

//
// Render the final variable table, in key order.  The dump walks a
// flattened snapshot so the tree linkage stays out of the output
//

type varSnapshot struct {
	Name   string
	Scalar value
	Array  []value
}

func (in *interp) dumpVariables() {

	var snap []varSnapshot

	for v := in.vars.varAvlTreeFirstInOrder(); v != nil; v = varAvlTreeNextInOrder(v) {
		snap = append(snap, varSnapshot{
			Name:   variableName(v.key),
			Scalar: v.scalar,
			Array:  v.arr,
		})
	}

	godump.Dump(snap)
}

func variableName(key varKey) string {

	name := string(key.n1)
	if key.n2 != ' ' {
		name += string(key.n2)
	}
	if key.isString {
		name += "$"
	}

	return name
}
