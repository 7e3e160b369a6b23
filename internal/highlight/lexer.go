package highlight

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/loom/internal/engine/buffer"
)

// ErrParseFailure indicates the lexer could not tokenize a snapshot. It is
// recoverable: the pipeline keeps the previous spans.
var ErrParseFailure = errors.New("parse failure")

// LexerFor picks a chroma lexer by filename, falling back to the plain-text
// analyzer for unknown extensions.
func LexerFor(filename string) chroma.Lexer {
	var lexer chroma.Lexer
	if filename != "" {
		lexer = lexers.Match(filepath.Base(filename))
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// categoryOf maps a chroma token type onto a highlight category.
func categoryOf(t chroma.TokenType) Category {
	switch t.Category() {
	case chroma.Comment:
		return CatComment
	case chroma.Keyword:
		return CatKeyword
	case chroma.Operator:
		return CatOperator
	case chroma.Punctuation:
		return CatPunctuation
	case chroma.Literal:
		switch t.SubCategory() {
		case chroma.LiteralString:
			return CatString
		case chroma.LiteralNumber:
			return CatNumber
		}
		return CatText
	case chroma.Name:
		switch t {
		case chroma.NameFunction, chroma.NameFunctionMagic:
			return CatFunction
		case chroma.NameClass, chroma.NameNamespace:
			return CatType
		}
		return CatIdentifier
	default:
		return CatText
	}
}

// Lex tokenizes text into an ordered, covering span sequence. Adjacent
// tokens of the same category merge; any trailing region the lexer did not
// consume is covered with a text span.
func Lex(lexer chroma.Lexer, text string) ([]Span, error) {
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	var spans []Span
	off := buffer.ByteOffset(0)
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := buffer.ByteOffset(len(tok.Value))
		if n == 0 {
			continue
		}
		cat := categoryOf(tok.Type)
		if len(spans) > 0 && spans[len(spans)-1].End == off && spans[len(spans)-1].Category == cat {
			spans[len(spans)-1].End = off + n
		} else {
			spans = append(spans, Span{Start: off, End: off + n, Category: cat})
		}
		off += n
	}

	if off < buffer.ByteOffset(len(text)) {
		spans = append(spans, Span{Start: off, End: buffer.ByteOffset(len(text)), Category: CatText})
	}
	return spans, nil
}
