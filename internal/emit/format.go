package emit

import "golang.org/x/tools/imports"

// Format runs a goimports pass over generated source: it adds the
// stdlib/objcrt imports actually referenced by the rendered statements
// and drops unused ones, so internal/writers never has to track
// per-file import sets by hand.
func Format(src []byte, filename string) ([]byte, error) {
	return imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
}
