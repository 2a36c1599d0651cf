// Package cdecl interprets the C declarators found in registry members,
// parameters and function-pointer typedefs.
//
// Registry declarators arrive split across text runs and elements:
//
//	<member>const <type>char</type>* const* <name>ppNames</name>[<enum>N</enum>]</member>
//
// The caller gathers the pieces into Fragments (leading text, type name,
// trailing text, name, suffix text, bound constant) and Parse recovers
// the pointer depth, per-level constness, array dimension and bitfield
// width. Length attributes are decoded separately by ParseLength.
package cdecl
