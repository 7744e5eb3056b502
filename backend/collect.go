package backend

import (
	"slices"

	"github.com/partite-ai/idlbind/model"
)

// Helper is the support code of one canonical type.
type Helper struct {
	CanonicalName string
	Code          string
}

// CollectHelpers returns the helper code of every type, at most once per
// canonical name, in the order the types are given.
func CollectHelpers(o CodeOracle, types []model.Type) []Helper {
	seen := make(map[string]struct{}, len(types))
	var helpers []Helper
	for _, t := range types {
		ct := o.FindCodeType(t)
		name := ct.CanonicalName(o)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		if code, ok := ct.HelperCode(o); ok {
			helpers = append(helpers, Helper{CanonicalName: name, Code: code})
		}
	}
	return helpers
}

// CollectImports returns the imports of every declaration, sorted and without
// duplicates.
func CollectImports(o CodeOracle, decls []CodeDeclaration) []string {
	var imports []string
	for _, d := range decls {
		imports = append(imports, d.Imports(o)...)
	}
	slices.Sort(imports)
	return slices.Compact(imports)
}

// CollectInitializationCode returns the initialization code of every
// declaration in declaration order.
func CollectInitializationCode(o CodeOracle, decls []CodeDeclaration) []string {
	var code []string
	for _, d := range decls {
		if c, ok := d.InitializationCode(o); ok {
			code = append(code, c)
		}
	}
	return code
}

// CollectDefinitionCode returns the definition code of every declaration that
// has any, in declaration order.
func CollectDefinitionCode(o CodeOracle, decls []CodeDeclaration) []string {
	var code []string
	for _, d := range decls {
		if c, ok := d.DefinitionCode(o); ok {
			code = append(code, c)
		}
	}
	return code
}
