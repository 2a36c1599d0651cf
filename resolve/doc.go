// Package resolve turns a parsed registry.Source into a Registry.
//
// Run applies the exclusion policy of a Config, merges every feature
// and extension enum contribution into the value group it extends,
// lays out the bits of each flag group and indexes the result.
//
// Extension values use the reserved numbering scheme
//
//	value = 1000000000 + (extnumber - 1) * 1000 + offset
//
// negated when the contribution has dir="-".
package resolve
