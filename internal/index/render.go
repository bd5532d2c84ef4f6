package index

import (
	"fmt"
	"strings"

	"github.com/projex-snippets/projex/internal/merge"
)

const header = merge.Marker + "\n\n" +
	"**INSTRUCCIÓN PARA COPILOT:** Cuando detectes cualquiera de estas palabras clave en el prompt del usuario, " +
	"activa automáticamente las instrucciones correspondientes:\n\n---\n"

const rules = "### 🤖 Para Copilot: Reglas de Activación Automática\n\n" +
	"1. **Detecta las palabras clave** en el prompt del usuario (sin importar mayúsculas/minúsculas)\n" +
	"2. **Activa automáticamente** las instrucciones del archivo correspondiente\n" +
	"3. **Sigue las instrucciones específicas** del archivo referenciado\n" +
	"4. **No requieras** que el usuario mencione explícitamente las instrucciones\n" +
	"5. **Ejecuta la tarea** según el flujo definido en las instrucciones específicas"

const footer = "\n---\n\n" + rules + "\n"

// DefaultTemplate is the main document written when the content root has
// neither a prebuilt main document nor any indexable instructions.
const DefaultTemplate = merge.Marker + "\n\n" +
	"**INSTRUCCIÓN PARA PROJEX SNIPPETS:** Cuando detectes cualquiera de estas palabras clave en el prompt del usuario, " +
	"activa automáticamente las instrucciones correspondientes:\n\n---\n\n" + rules

// Render returns the main instructions document for idx. The output starts
// with merge.Marker, so the whole document is the managed section.
func Render(idx *Index) string {
	var b strings.Builder
	b.WriteString(header)
	if idx != nil {
		for _, e := range idx.Entries {
			writeSection(&b, e)
		}
	}
	b.WriteString(footer)
	return b.String()
}

func writeSection(b *strings.Builder, e Entry) {
	quoted := make([]string, len(e.Keywords))
	for i, k := range e.Keywords {
		quoted[i] = fmt.Sprintf("`\"%s\"`", k)
	}
	fmt.Fprintf(b, "### %s %s\n\n", e.Emoji, e.Title)
	fmt.Fprintf(b, "**Palabras clave:** %s  \n", strings.Join(quoted, " | "))
	fmt.Fprintf(b, "**→ ACTIVAR:** [%s](%s)  \n", e.FileName, e.ActivationPath)
	fmt.Fprintf(b, "**Acción:** %s\n\n", e.Description)
}
