// Package highlight provides asynchronous syntax highlighting: a chroma
// lexer turns buffer snapshots into ordered, covering span sequences, and a
// pipeline worker republishes them after every edit.
package highlight

import (
	"github.com/dshills/loom/internal/engine/buffer"
)

// Category is the semantic class of a highlighted span. The set is
// deliberately coarse; themes map each category to one style.
type Category uint8

const (
	// CatText is unstyled text and the gap filler.
	CatText Category = iota
	CatComment
	CatString
	CatNumber
	CatKeyword
	CatOperator
	CatPunctuation
	CatIdentifier
	CatFunction
	CatType
)

var categoryNames = map[Category]string{
	CatText:        "text",
	CatComment:     "comment",
	CatString:      "string",
	CatNumber:      "number",
	CatKeyword:     "keyword",
	CatOperator:    "operator",
	CatPunctuation: "punctuation",
	CatIdentifier:  "identifier",
	CatFunction:    "function",
	CatType:        "type",
}

// String returns the category name used in theme files.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "text"
}

// CategoryFromName resolves a theme-file category name.
func CategoryFromName(name string) (Category, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return CatText, false
}

// Span is a highlighted byte range [Start, End). Published sequences are
// sorted, non-overlapping, and cover the lexed region without gaps.
type Span struct {
	Start    buffer.ByteOffset
	End      buffer.ByteOffset
	Category Category
}

// Len returns the span length in bytes.
func (s Span) Len() buffer.ByteOffset {
	return s.End - s.Start
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset buffer.ByteOffset) bool {
	return offset >= s.Start && offset < s.End
}
