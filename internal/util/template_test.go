package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Render(t *testing.T) {
	tmpl := MustParseTemplate("prompt", "You are {{.Name}}. {{.Role}}")

	out, err := tmpl.Render(map[string]any{"Name": "ManagerAgent", "Role": "Plan."})
	require.NoError(t, err)
	assert.Equal(t, "You are ManagerAgent. Plan.", out)

	out, err = tmpl.Render(map[string]any{"Name": "DevAgent", "Role": "Code."})
	require.NoError(t, err)
	assert.Equal(t, "You are DevAgent. Code.", out)
}

func TestTemplate_NoEscaping(t *testing.T) {
	tmpl := MustParseTemplate("task", "Task: {{.Task}}")
	out, err := tmpl.Render(map[string]any{"Task": `use <think> & "quotes" {{.Name}}`})
	require.NoError(t, err)
	assert.Equal(t, `Task: use <think> & "quotes" {{.Name}}`, out)
}

func TestParseTemplate_Error(t *testing.T) {
	_, err := ParseTemplate("broken", "{{.Broken")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseTemplate("bad", "{{") })
}
