// Package schema parses registry XML into a registry.Source.
//
// The parser is built from small "try or decline" functions, one per
// entity kind. Each TryParseX receives the tokenizer by value, so it
// works on its own copy of the read position:
//
//	r, err := TryParseHandle(t, cfg)
//	if err == nil && r.Ok() {
//	    t = r.Next // commit
//	}
//
// A TryParseX that does not recognise the element in front of it
// returns NoMatch and the caller's tokenizer is untouched. Once an
// element is recognised, the whole element is consumed and the record
// is returned together with the advanced tokenizer.
//
// Dispatch
//
// Parse drives the TryParseX functions from a fixed candidate table,
// keyed by element name and, for <type> elements, the category
// attribute. The dispatcher descends into container elements such as
// <types> and <extensions>, skips elements it knows to be irrelevant
// (<comment>, <formats>, include and define types) and structurally
// skips anything it does not recognise, logging at glog V(1). Every
// iteration of the loop consumes at least one token, so Parse always
// terminates.
//
// Errors
//
// Errors are *regerr.Error values wrapped with a stack:
//
//	KindSyntax            the document is not well formed; fatal.
//	KindMalformedLiteral  an enum or constant value does not decode; fatal.
//	KindShapeMismatch     a recognised element has a malformed child.
//
// A shape mismatch means the entity could only be partially read. With
// PolicyLenient (the default) the entity is dropped, the error is sent
// to the configured Reporter and parsing resumes after the element.
// With PolicyStrict the parse fails.
//
// API variants
//
// Registries describe several APIs. Elements carrying an api or
// supported attribute that does not name Config.API are not matched,
// and are skipped like any unrecognised element.
package schema
