package graph

import (
	"fmt"
	"strings"

	"github.com/jvm123/botstory/pkg/domain"
	"github.com/jvm123/botstory/pkg/story"
)

// Overlay contains live session state to visualize on the graph.
type Overlay struct {
	CurrentBranch string
	OpenEntity    string
}

// GenerateMermaid produces a Mermaid flowchart (graph TD) of a story
// definition. It applies semantic styling:
// - Branch: ((Circle)) for the initial branch, [Rectangle] otherwise
// - Slot (question): [/Parallelogram/]
// - Trigger words: labeled arrow from the initial branch
// - Confirmation cancel path: dotted arrow back to the initial branch
// It also applies overlay styles (current branch / open slot) if
// provided.
func GenerateMermaid(reg *story.Registry, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	initial := reg.InitialBranch()

	for _, name := range reg.Branches() {
		b, _ := reg.Branch(name)
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		if name == initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))

		if name != initial && len(b.TriggerWords) > 0 {
			words := strings.ReplaceAll(strings.Join(b.TriggerWords, ", "), "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
				sanitizeMermaidID(initial), words, safeID))
		}

		// Slots chain off their branch in declaration order.
		prev := safeID
		for _, spec := range b.Schema {
			slotID := sanitizeMermaidID(name + "." + spec.Name)
			sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", slotID, spec.Name))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, slotID))

			if spec.Type == domain.EntityBoolConfirm {
				sb.WriteString(fmt.Sprintf("    %s -. \"no\" .-> %s\n",
					slotID, sanitizeMermaidID(initial)))
			}
			prev = slotID
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef open fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		if overlay.CurrentBranch != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentBranch)))
		}
		if overlay.CurrentBranch != "" && overlay.OpenEntity != "" {
			slotID := sanitizeMermaidID(overlay.CurrentBranch + "." + overlay.OpenEntity)
			sb.WriteString(fmt.Sprintf("    class %s open;\n", slotID))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
