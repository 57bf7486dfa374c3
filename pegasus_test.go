package pegasus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const arithTOML = `
[[tokens]]
name = "num"
pattern = "[0-9]+"

[[tokens]]
name = "plus"
pattern = "\\+"

[[tokens]]
name = "ws"
pattern = "[ \\t]+"
skip = true

[[rules]]
name = "sum"
bodies = [["num", "plus", "num"], ["num"]]
`

func Test_CompileTOML_endToEnd(t *testing.T) {
	a := assert.New(t)

	lang, err := CompileTOML([]byte(arithTOML), Options{})
	if !a.NoError(err) {
		return
	}

	tree, err := lang.Run("12 + 34")
	if !a.NoError(err) {
		return
	}

	a.Equal("sum", tree.Symbol)
	if !a.Len(tree.Children, 3) {
		return
	}
	a.Equal("12", tree.Children[0].Token.Lexeme)
	a.Equal("34", tree.Children[2].Token.Lexeme)
}

func Test_CompileTOML_unknownSymbolErrors(t *testing.T) {
	a := assert.New(t)

	bad := `
[[tokens]]
name = "num"
pattern = "[0-9]+"

[[rules]]
name = "sum"
bodies = [["num", "missing"]]
`
	_, err := CompileTOML([]byte(bad), Options{})
	a.Error(err)
}

func Test_CompileTOML_refusesOversizedLexer(t *testing.T) {
	a := assert.New(t)

	_, err := CompileTOML([]byte(arithTOML), Options{MaxLexerStates: 1})
	a.Error(err)
}
