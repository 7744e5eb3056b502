package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/partite-ai/idlbind/model"
)

// Generator is the interface that all language-specific code generators must implement
type Generator interface {
	// Language returns the name of the target language (e.g. "kotlin")
	Language() string

	// FileExtension returns the extension of generated files (e.g. ".kt")
	FileExtension() string

	// Generate renders bindings for ci
	Generate(ci *model.ComponentInterface, opts Options) ([]byte, error)
}

// Options contains common options for code generation
type Options struct {
	// PackageName is the package or module the generated code lives in
	PackageName string

	// LibraryName is the name of the native library the bindings load
	LibraryName string
}

// DefaultOptions derives options from the namespace of ci.
func DefaultOptions(ci *model.ComponentInterface) Options {
	return Options{
		PackageName: "uniffi." + ci.Namespace(),
		LibraryName: "uniffi_" + ci.Namespace(),
	}
}

var (
	generatorsMu sync.RWMutex
	generators   = make(map[string]Generator)
)

// Register makes a generator available by language name. Registering the same
// language twice panics.
func Register(g Generator) {
	generatorsMu.Lock()
	defer generatorsMu.Unlock()
	if _, ok := generators[g.Language()]; ok {
		panic(fmt.Sprintf("backend: generator for %q registered twice", g.Language()))
	}
	generators[g.Language()] = g
}

// Lookup returns the generator registered for language.
func Lookup(language string) (Generator, error) {
	generatorsMu.RLock()
	defer generatorsMu.RUnlock()
	g, ok := generators[language]
	if !ok {
		return nil, fmt.Errorf("no generator for language %q (available: %v)", language, languagesLocked())
	}
	return g, nil
}

// Languages returns the registered language names, sorted.
func Languages() []string {
	generatorsMu.RLock()
	defer generatorsMu.RUnlock()
	return languagesLocked()
}

func languagesLocked() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
