package core

import (
	"fmt"
	"sort"
	"sync"
)

// The sheet registry is populated once at init time by the packages that
// declare concrete sheet definitions, and is read-only afterwards.

var (
	registry   = make(map[string]SheetDefinition)
	registryMu sync.RWMutex
)

// Register adds a sheet definition to the registry.
// Panics if a sheet with the same key is already registered or the
// definition carries no schema; both are programming errors.
func Register(def SheetDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Schema == nil {
		panic(fmt.Sprintf("sheet definition without schema: %s", def.Info.Key))
	}
	if def.Info.Key == "" {
		def.Info.Key = def.Schema.Name
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Schema.Name
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("sheet already registered: %s", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns a sheet definition by key.
// Returns false if not found.
func Get(key string) (SheetDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered sheet definitions.
// Sorted by group then by key for consistent ordering.
func All() []SheetDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SheetDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// ByGroup returns all sheet definitions for a specific group.
// Sorted by key for consistent ordering.
func ByGroup(group string) []SheetDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []SheetDefinition
	for _, def := range registry {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range registry {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// SheetCount returns the number of registered sheets.
func SheetCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// ClearRegistry removes all registered sheets.
// Primarily useful for testing.
func ClearRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]SheetDefinition)
}
