package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/cocoagen/internal/stmt"
)

// RenderModule renders every statement in a module into one formatted
// Go source file, the teacher's cmd/vk-gen "one string.Builder per
// output file, header then body" shape (cmd/vk-gen/main.go's
// generateTypes/generateCommands).
func RenderModule(pkgName string, stmts []stmt.Statement) ([]byte, error) {
	var b strings.Builder
	b.WriteString("// Code generated by cocoagen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	b.WriteString("import \"github.com/gogpu/cocoagen/internal/objcrt\"\n\n")

	for _, s := range stmts {
		rendered, err := RenderStatement(s)
		if err != nil {
			return nil, err
		}
		b.WriteString(rendered)
	}

	return Format([]byte(b.String()), pkgName+"_gen.go")
}
