// Package audit cross-checks a Registry against an independent DOM
// reading of the same document.
//
// The streaming parser drops entities it cannot read (under the lenient
// policy), entities for other APIs and anything the resolver policy
// excludes. Take counts the named entities of each category with XPath
// queries over an xmlquery DOM, and Compare lists the names the
// Registry does not hold, so that a caller can tell what was dropped.
package audit
