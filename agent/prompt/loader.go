package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/decide.txt
	decideRaw string

	//go:embed template/plan.txt
	planRaw string

	//go:embed template/synthesize.txt
	synthesizeRaw string

	//go:embed template/reminder.txt
	reminderRaw string
)

// Placeholders recognized by Render.
const (
	VarState       = "state"
	VarTools       = "tools"
	VarProfile     = "profile"
	VarToolOutputs = "tool_outputs"
	VarDocuments   = "documents"
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Decide     string
	Plan       string
	Synthesize string
	Reminder   string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Decide:     strings.TrimSpace(decideRaw),
		Plan:       strings.TrimSpace(planRaw),
		Synthesize: strings.TrimSpace(synthesizeRaw),
		Reminder:   strings.TrimSpace(reminderRaw),
	}
}

// Render substitutes {{name}} placeholders. Unknown placeholders are left
// in place and literal JSON braces are untouched.
func Render(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
