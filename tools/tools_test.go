package tools_test

import (
	"testing"

	"github.com/effective-security/edugentic/llmutils"
	"github.com/effective-security/edugentic/tools"
	"github.com/effective-security/edugentic/tools/flashcards"
	"github.com/effective-security/edugentic/tools/notemaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func Test_GetDescriptions(t *testing.T) {
	nm, err := notemaker.New()
	require.NoError(t, err)
	fc, err := flashcards.New()
	require.NoError(t, err)

	out := tools.GetDescriptions(nm, fc)
	assert.Contains(t, out, "```json")

	body := gjson.Get(llmutils.TrimBackticks(out), "Tools")
	require.True(t, body.IsArray())
	list := body.Array()
	require.Len(t, list, 2)
	assert.Equal(t, notemaker.ToolName, list[0].Get("Name").String())
	assert.Equal(t, flashcards.ToolName, list[1].Get("Name").String())
	assert.NotEmpty(t, list[0].Get("Description").String())
}
