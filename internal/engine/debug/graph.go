// Package debug provides debug views of animation state: Mermaid diagrams
// of transition graphs, skeleton wireframes and per-frame sample dumps.
package debug

import (
	"fmt"
	"strings"

	"github.com/Faultbox/skelanim/internal/engine/animation"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []animation.State
	CurrentState  animation.State
}

// GenerateMermaid produces a Mermaid flowchart of a transition graph.
// Styling:
// - Initial/current node: ((Circle))
// - Node with automatic exits: {{Hexagon}}
// - Default: [Rectangle]
// Explicit edges are solid, automatic edges dotted; labels carry the
// duration, the crossfade policy and a guard marker.
func GenerateMermaid(nodes []animation.GraphNodeInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(string(node.State))

		opener, closer := "[", "]"
		switch {
		case node.Current:
			opener, closer = "((", "))"
		case hasAutomatic(node):
			opener, closer = "{{", "}}"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.State, closer))

		for _, e := range node.Edges {
			safeTo := sanitizeMermaidID(string(e.To))
			label := edgeLabel(e)
			arrow := fmt.Sprintf("-- \"%s\" -->", label)
			if e.Trigger == animation.TriggerAutomatic {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(string(s))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState))))
		}
	}

	return sb.String()
}

func edgeLabel(e animation.GraphEdgeInfo) string {
	parts := []string{fmt.Sprintf("%gs", e.Duration), e.Crossfade.String()}
	if e.Trigger == animation.TriggerAutomatic && e.StartProgress > 0 {
		parts = append(parts, fmt.Sprintf("@%g", e.StartProgress))
	}
	if e.HasGuard {
		parts = append(parts, "guarded")
	}
	if e.HasEasing {
		parts = append(parts, "eased")
	}
	return strings.Join(parts, " ")
}

func hasAutomatic(node animation.GraphNodeInfo) bool {
	for _, e := range node.Edges {
		if e.Trigger == animation.TriggerAutomatic {
			return true
		}
	}
	return false
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
