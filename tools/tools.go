package tools

import (
	"context"

	"github.com/effective-security/edugentic/llmutils"
)

// ITool is one educational tool reachable through the uniform call contract.
// The orchestrator treats mock and real backends the same way.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Parameters returns the parameters definition of the tool.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the result.
	// If the tool fails to parse the input, it should return
	// chatmodel.ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions renders the tool list as a fenced JSON block for the
// tutor's prompt and the tool listing endpoint.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
