// Package registry is the resolved, read-only model of an API registry.
//
// The schema package produces a Source: the entities in document order,
// exactly as declared. The resolve package merges extension
// contributions into each value group and hands the Source and the
// resolved groups to New, which indexes them into a Registry.
//
// A Registry is never modified after New returns, so any number of
// goroutines may query it concurrently. Entities are returned by
// pointer for convenience; callers must treat them as read-only.
//
// Alias records (structs, unions, handles, commands, bitmasks and enum
// types declared with an alias attribute) carry no body of their own.
// The ResolveX queries follow alias chains to the canonical record:
//
//	s := reg.ResolveStruct("VkPhysicalDeviceFeatures2KHR")
//	// s.Name == "VkPhysicalDeviceFeatures2", s.Members populated
package registry
