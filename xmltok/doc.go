/*
Package xmltok is a small streaming tokenizer for the registry XML dialect.

The registry mixes element and free-text content inside the same node
(C declarations with embedded <type> and <name> elements), so the
tokenizer reports text runs verbatim, whitespace included, and never
decodes entity references. Callers that need decoded text use Unescape.

A Tokenizer is a small value: the source, the remaining input, a
two-valued scan state and a sticky error. Copying the value snapshots
the position, which makes speculative parsing free:

	peek := t      // snapshot
	peek.Next()    // advance the copy
	t = peek       // commit, or simply drop peek to roll back

Tokens come in five kinds. Every Start token is eventually balanced by
exactly one End or SelfClose token with the same name, so depth
counting over Start/End/SelfClose is always correct.

While a start tag is open, the Attribute Cursor methods (Attribute,
PeekAttribute, Attrs) walk its attributes and FinishTag reports whether
the element was self-closing. Calling Next while a tag is still open
skips its remaining attributes.

Processing instructions, comments and DOCTYPE declarations are skipped
transparently. Malformed markup sets a sticky error (see Err) after
which Next only returns EOF.
*/
package xmltok
