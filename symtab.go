package main

import (
	"math"

	"github.com/danswartzendruber/avl"
)

//
// Variables live in an AVL tree keyed by (letter1, letter2, string).
// The string bit partitions the namespace: A and A$ are distinct
// variables.  Each node carries both a scalar slot and an optional
// growable array; a program may use A and A(3) in the same run and
// the two are unrelated
//

type varKey struct {
	n1       byte
	n2       byte
	isString bool
}

type varNode struct {
	avl      avl.AvlNode
	key      varKey
	scalar   value
	arr      []value
	hasArray bool
}

type varTable struct {
	root  *avl.AvlNode
	count int
}

func newVarTable() *varTable {

	return &varTable{root: nil}
}

//
// A set of wrapper routines to the AVL package, hiding the AVL
// interface from the interpreter code
//

func cmpVarKeys(a, b varKey) int {

	if a.n1 != b.n1 {
		if a.n1 < b.n1 {
			return -1
		}
		return 1
	}

	if a.n2 != b.n2 {
		if a.n2 < b.n2 {
			return -1
		}
		return 1
	}

	if a.isString != b.isString {
		if !a.isString {
			return -1
		}
		return 1
	}

	return 0
}

func cmpVarKeyNode(key any, node any) int {

	return cmpVarKeys(key.(varKey), node.(*varNode).key)
}

func cmpVarNodes(node1, node2 any) int {

	return cmpVarKeys(node1.(*varNode).key, node2.(*varNode).key)
}

func (vt *varTable) varAvlTreeLookup(key varKey) *varNode {

	p := avl.AvlTreeLookup(vt.root, key, cmpVarKeyNode)
	if p != nil {
		return p.(*varNode)
	}

	return nil
}

func (vt *varTable) varAvlTreeInsert(node *varNode) {

	p := avl.AvlTreeInsert(&vt.root, &node.avl, node, cmpVarNodes)

	basicAssert(p == nil, "variable already in tree")

	vt.count++
}

func (vt *varTable) varAvlTreeFirstInOrder() *varNode {

	p := avl.AvlTreeFirstInOrder(vt.root)
	if p != nil {
		return p.(*varNode)
	}

	return nil
}

func varAvlTreeNextInOrder(node *varNode) *varNode {

	p := avl.AvlTreeNextInOrder(&node.avl)
	if p != nil {
		return p.(*varNode)
	}

	return nil
}

//
// Look up a variable, creating it lazily on first reference.  On
// first array use the array gets max(subscript+1, 11) elements; a
// later larger subscript grows it, never shrinks it
//

func (vt *varTable) lookupOrCreate(key varKey, wantArray bool, arraySize int) *varNode {

	v := vt.varAvlTreeLookup(key)

	if v == nil {
		runtimeCheck(vt.count < maxVars, EVARTABLEFULL)

		v = &varNode{key: key}
		if key.isString {
			v.scalar = makeStr("")
		} else {
			v.scalar = makeNum(0)
		}

		vt.varAvlTreeInsert(v)
	}

	if wantArray {
		if !v.hasArray {
			v.hasArray = true
			v.arr = make([]value, arraySize)
		} else if arraySize > len(v.arr) {
			v.growArray(arraySize)
		}
	}

	return v
}

//
// Grow the array to the requested size.  New tail elements are the
// zero value and get their proper tag on first access
//

func (v *varNode) growArray(size int) {

	arr := make([]value, size)
	copy(arr, v.arr)
	v.arr = arr
}

//
// A resolved reference to a variable slot.  The slot pointer is
// recomputed on each use, so growing the backing array between
// resolution and store does not leave the reference dangling
//

type varRef struct {
	node *varNode
	idx  int // -1 for the scalar slot
}

func (r varRef) isArray() bool {

	return r.idx >= 0
}

func (r varRef) slot() *value {

	if r.idx < 0 {
		return &r.node.scalar
	}

	return &r.node.arr[r.idx]
}

//
// Resolve a variable (and optional array subscript) at the cursor,
// creating it if needed.  The subscript tolerates floating rounding
// via floor(x + 0.00001).  If the chosen slot's tag does not match
// the variable's string-ness, it is reinitialized to the proper zero
//

func (in *interp) varReference(c *cursor) varRef {

	c.skipSpaces()

	if !isAlpha(c.peek()) {
		runtimeError(EEXPECTEDVARIABLE)
	}

	key := uppercaseName(readIdentifier(c))

	c.skipSpaces()

	idx := -1
	arraySize := 0

	if c.peek() == '(' {
		c.pos++

		sub := ensureNum(in.evalOrExpr(c))

		c.skipSpaces()
		runtimeCheck(c.peek() == ')', EMISSINGRPAREN)
		c.pos++

		idx = int(math.Floor(sub + 0.00001))
		runtimeCheck(idx >= 0, ENEGATIVESUBSCRIPT)

		arraySize = idx + 1
		if arraySize < defaultArraySize {
			arraySize = defaultArraySize
		}
	}

	v := in.vars.lookupOrCreate(key, idx >= 0, arraySize)

	if idx >= 0 && idx >= len(v.arr) {
		v.growArray(idx + 1)
	}

	ref := varRef{node: v, idx: idx}

	sp := ref.slot()
	if key.isString != sp.isStr {
		if key.isString {
			*sp = makeStr("")
		} else {
			*sp = makeNum(0)
		}
	}

	return ref
}
