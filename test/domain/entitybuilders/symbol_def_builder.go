package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autocontrib/domain"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SymbolDefBuilder helps create test symbol definitions with a fluent interface.
type SymbolDefBuilder struct {
	*testkit.BaseBuilder
	module       string
	name         string
	kind         string
	filePath     string
	line         int
	hasDocstring bool
}

// NewSymbolDefBuilder creates a new symbol builder with sensible defaults.
func NewSymbolDefBuilder() *SymbolDefBuilder {
	return &SymbolDefBuilder{
		BaseBuilder:  testkit.NewBaseBuilder(),
		module:       "core.utils",
		name:         "grid_segment",
		kind:         "function",
		filePath:     "core/utils.py",
		line:         1,
		hasDocstring: true,
	}
}

// WithModule sets the dotted module path.
func (b *SymbolDefBuilder) WithModule(module string) *SymbolDefBuilder {
	b.module = module
	return b
}

// WithName sets the symbol name.
func (b *SymbolDefBuilder) WithName(name string) *SymbolDefBuilder {
	b.name = name
	return b
}

// WithKind sets the symbol kind ("function" or "class").
func (b *SymbolDefBuilder) WithKind(kind string) *SymbolDefBuilder {
	b.kind = kind
	return b
}

// WithFilePath sets the source file path.
func (b *SymbolDefBuilder) WithFilePath(path string) *SymbolDefBuilder {
	b.filePath = path
	return b
}

// WithLine sets the line number.
func (b *SymbolDefBuilder) WithLine(line int) *SymbolDefBuilder {
	b.line = line
	return b
}

// WithDocstring sets whether the symbol carries a docstring.
func (b *SymbolDefBuilder) WithDocstring(has bool) *SymbolDefBuilder {
	b.hasDocstring = has
	return b
}

// Build creates the symbol (satisfies testkit.Builder interface).
func (b *SymbolDefBuilder) Build() interface{} {
	return b.BuildSymbolDef()
}

// BuildSymbolDef creates the symbol with a concrete return type.
func (b *SymbolDefBuilder) BuildSymbolDef() domain.SymbolDef {
	return domain.SymbolDef{
		Module:       b.module,
		Name:         b.name,
		Kind:         b.kind,
		FilePath:     b.filePath,
		Line:         b.line,
		HasDocstring: b.hasDocstring,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *SymbolDefBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.module = "core.utils"
	b.name = "grid_segment"
	b.kind = "function"
	b.filePath = "core/utils.py"
	b.line = 1
	b.hasDocstring = true
	return b
}

// Clone creates a deep copy of the SymbolDefBuilder.
func (b *SymbolDefBuilder) Clone() testkit.Builder {
	return &SymbolDefBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		module:       b.module,
		name:         b.name,
		kind:         b.kind,
		filePath:     b.filePath,
		line:         b.line,
		hasDocstring: b.hasDocstring,
	}
}
