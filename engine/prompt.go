package engine

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/aithena-labs/aithena/brain"
	"github.com/aithena-labs/aithena/entity"
	"github.com/aithena-labs/aithena/errors"
)

var (
	//go:embed data/instructions/chat.md.tmpl
	chatInst     string
	chatInstTmpl = template.Must(template.New("chatInst").Funcs(funcMap()).Parse(chatInst))
)

// ChatPromptValues is the data rendered into the system prompt for one turn.
type ChatPromptValues struct {
	Persona  entity.Persona
	Memories []brain.RecallResult
}

func funcMap() template.FuncMap {
	return sprig.FuncMap()
}

// RenderSystemPrompt builds the system prompt from the persona card and the
// memories recalled for the current message.
func RenderSystemPrompt(values ChatPromptValues) (string, error) {
	var buf strings.Builder
	if err := chatInstTmpl.Execute(&buf, values); err != nil {
		return "", errors.Wrapf(err, "failed to render chat prompt")
	}
	return buf.String(), nil
}
