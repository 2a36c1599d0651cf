package schema

import "github.com/andaru/vkregistry/xmltok"

// Result is the outcome of a TryParseX function: either a matched
// record and the tokenizer positioned after its element, or no match.
type Result[T any] struct {
	Value T
	Next  xmltok.Tokenizer
	ok    bool
}

// Matched returns a matching Result.
func Matched[T any](v T, next xmltok.Tokenizer) Result[T] {
	return Result[T]{Value: v, Next: next, ok: true}
}

// NoMatch returns a Result that declined the input.
func NoMatch[T any]() Result[T] { return Result[T]{} }

// Ok reports whether the Result matched.
func (r Result[T]) Ok() bool { return r.ok }
