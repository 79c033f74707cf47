package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadLines(t *testing.T, src string) *interp {

	t.Helper()

	in, _, _ := testInterp("")
	require.NoError(t, in.loadProgram(strings.NewReader(src)))

	return in
}

func TestLoadSortsByLineNumber(t *testing.T) {

	in := loadLines(t, "30 PRINT\n10 PRINT\n20 PRINT")

	require.Len(t, in.lines, 3)

	for i := 1; i < len(in.lines); i++ {
		assert.Greater(t, in.lines[i].number, in.lines[i-1].number)
	}
}

func TestLoadReplacesDuplicates(t *testing.T) {

	in := loadLines(t, "10 PRINT \"OLD\"\n20 END\n10 PRINT \"NEW\"")

	require.Len(t, in.lines, 2)
	assert.Equal(t, `PRINT "NEW"`, in.lines[0].text)
}

func TestLoadSkipsBlankLines(t *testing.T) {

	in := loadLines(t, "\n10 PRINT\n   \n\t\n20 END\n")

	assert.Len(t, in.lines, 2)
}

func TestLoadSkipsBOM(t *testing.T) {

	in := loadLines(t, "\xef\xbb\xbf10 PRINT \"X\"")

	require.Len(t, in.lines, 1)
	assert.Equal(t, 10, in.lines[0].number)
	assert.Equal(t, `PRINT "X"`, in.lines[0].text)
}

func TestLoadHandlesCRLF(t *testing.T) {

	in := loadLines(t, "10 PRINT \"A\"\r\n20 END\r\n")

	require.Len(t, in.lines, 2)
	assert.Equal(t, `PRINT "A"`, in.lines[0].text)
}

func TestLoadErrors(t *testing.T) {

	var tests = []struct {
		name string
		src  string
		want string
	}{
		{"missing number", "PRINT \"X\"", "Line missing number"},
		{"number out of range", "70000 PRINT", "Line number out of range"},
		{"line too long", "10 PRINT " + strings.Repeat("X", maxLineLen), "Line too long"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			in, _, _ := testInterp("")
			err := in.loadProgram(strings.NewReader(test.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestLoadCapacity(t *testing.T) {

	var sb strings.Builder
	for i := 0; i <= maxLines; i++ {
		fmt.Fprintf(&sb, "%d PRINT\n", i+1)
	}

	in, _, _ := testInterp("")
	err := in.loadProgram(strings.NewReader(sb.String()))

	require.Error(t, err)
	assert.Equal(t, "Program too large", err.Error())
}

func TestLoadLastLineWithoutNewline(t *testing.T) {

	in := loadLines(t, "10 PRINT \"A\"\n20 END")

	assert.Len(t, in.lines, 2)
}

func TestFindLineIndex(t *testing.T) {

	in := loadLines(t, "10 A\n20 B\n30 C\n40 D\n50 E")

	assert.Equal(t, 0, in.findLineIndex(10))
	assert.Equal(t, 4, in.findLineIndex(50))
	assert.Equal(t, 2, in.findLineIndex(30))
	assert.Equal(t, -1, in.findLineIndex(35))
	assert.Equal(t, -1, in.findLineIndex(5))
}

func TestFindLineIndexCache(t *testing.T) {

	in := loadLines(t, "10 A\n20 B\n30 C")

	require.Equal(t, 1, in.findLineIndex(20))
	assert.Equal(t, 20, in.lastLookupNo)
	assert.Equal(t, 1, in.lastLookupIdx)

	// cache hit answers without a search
	assert.Equal(t, 1, in.findLineIndex(20))

	// the cache is invalidated when the store is rebuilt
	in.sortProgram()
	assert.Equal(t, -1, in.lastLookupNo)
}

func TestLoadNumberGluedToText(t *testing.T) {

	//
	// Without a separating space the whole leading token counts as
	// the number field; everything after the following whitespace is
	// the statement text
	//

	in := loadLines(t, "10PRINT \"X\"")

	require.Len(t, in.lines, 1)
	assert.Equal(t, 10, in.lines[0].number)
	assert.Equal(t, `"X"`, in.lines[0].text)
}
