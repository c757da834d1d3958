// Command and library cocoagen translates Apple Objective-C framework
// headers into idiomatic Go bindings.
//
// cocoagen walks a framework's Clang module for each configured target
// triple, reconstructs a semantic model of every declared interface,
// protocol, category, method, property, typedef, enum, struct, function
// and global, and emits Go source that calls into the Objective-C runtime
// through github.com/go-webgpu/goffi.
//
// # Pipeline
//
// For each framework listed in a translation-config.toml:
//
//	config.Load -> for each LLVM triple: clangx parse -> cctx.Context +
//	stmt.Build -> library.Library -> analysis.Run -> driver compares
//	triples for equality -> emit.RenderModule per module -> writers (CI
//	matrix, crate list, test aggregator)
//
// # Packages
//
//   - internal/ident    stable (library, module, name) identifiers
//   - internal/attrparse attribute-spelling and unexposed-token parsers
//   - internal/tygraph  the Ty type algebra and the type translator
//   - internal/clangx   narrow interfaces over the Clang cursor/type API
//   - internal/cctx     process-wide translation context
//   - internal/stmt     the semantic statement model and its builder
//   - internal/library  the per-module statement store
//   - internal/analysis global analysis over a finished library
//   - internal/driver   the multi-target consistency check
//   - internal/emit     position-sensitive Go source emission
//   - internal/config   translation-config.toml loading
//   - internal/writers  CI matrix / crate listing / test aggregator
//   - internal/objcrt   the Go-side Objective-C runtime emitted code targets
//
// # Resource Lifecycle
//
// Generated bindings hand out Retained[T] smart handles (internal/objcrt)
// that release their underlying object when garbage collected or when
// Release is called explicitly.
package cocoagen
