/*
Package vkregistry reads the Vulkan API registry (vk.xml) into an
indexed, immutable model.

Load does the whole job in one synchronous pass: the document is
tokenized without building a DOM, each top-level element is handed to
an ordered table of candidate parsers (package schema), extension and
core-version enum contributions are merged into their value groups and
bitfield layouts are built (package resolve), and the result is indexed
for lookup by name (package registry).

Entities the parser cannot read completely are dropped under the
default lenient policy and reported through a Reporter; malformed
numeric literals and broken XML always fail the load. WithAudit
cross-checks the result against an independent DOM census (package
audit) and reports every entity of the document that did not make it
into the Registry.

The Registry is read-only after Load returns and is safe for concurrent
use.
*/
package vkregistry
