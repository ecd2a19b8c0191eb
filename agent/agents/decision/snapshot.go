package decision

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

const (
	snapshotDocuments   = 5
	snapshotDocumentLen = 500
)

// stateSnapshot is the compact, key-sorted view of memory sent to the model.
func stateSnapshot(doc *statex.Document) string {
	doc = orEmpty(doc)
	return compactJSON(map[string]any{
		"user_profile": doc.UserProfile,
		"tool_outputs": doc.ToolOutputs,
		"documents":    recentDocuments(doc),
	})
}

func recentDocuments(doc *statex.Document) []map[string]string {
	records := doc.Documents
	if len(records) > snapshotDocuments {
		records = records[len(records)-snapshotDocuments:]
	}
	out := make([]map[string]string, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]string{
			"source": r.Source,
			"text":   truncateRunes(r.Text, snapshotDocumentLen),
		})
	}
	return out
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func orEmpty(doc *statex.Document) *statex.Document {
	if doc == nil {
		return statex.NewDocument()
	}
	doc.EnsureDefaults()
	return doc
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// formatRoster lists tools the way the prompts describe them.
func formatRoster(specs []contractx.ToolSpec) string {
	var sb strings.Builder
	for i, spec := range specs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, spec.Name)
		if spec.Usage != "" {
			fmt.Fprintf(&sb, "- %s\n", spec.Usage)
		}
		if spec.Argument != "" {
			fmt.Fprintf(&sb, "- Argument %s\n", spec.Argument)
		}
		if spec.Example != "" {
			fmt.Fprintf(&sb, "- Example: %s\n", spec.Example)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
