package entity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aithena-labs/aithena/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersona(t *testing.T) {
	persona, err := entity.ParsePersona([]byte(`
name: Sage
description: A calm mentor.
greeting: Welcome back.
style:
  - patient
  - socratic
`))
	require.NoError(t, err)

	assert.Equal(t, "Sage", persona.Name)
	assert.Equal(t, "A calm mentor.", persona.Description)
	assert.Equal(t, "Welcome back.", persona.Greeting)
	assert.Equal(t, []string{"patient", "socratic"}, persona.Style)
	// Fields the card omits fall back to the defaults.
	assert.Equal(t, entity.DefaultPersona.System, persona.System)
}

func TestParsePersona_RequiresName(t *testing.T) {
	_, err := entity.ParsePersona([]byte(`name: ""`))
	require.Error(t, err)
}

func TestParsePersona_ToleratesUnknownKeys(t *testing.T) {
	persona, err := entity.ParsePersona([]byte(`
name: Sage
voice: nova
`))
	require.NoError(t, err)
	assert.Equal(t, "Sage", persona.Name)
}

func TestLoadPersona(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Sage\n"), 0o644))

	persona, err := entity.LoadPersona(path)
	require.NoError(t, err)
	assert.Equal(t, "Sage", persona.Name)

	_, err = entity.LoadPersona(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
