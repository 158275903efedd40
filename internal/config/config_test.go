package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnodel/fieldstream/extract"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "jf.yaml", `
field: answer
type: integer
chunkSize: 16
printValue: true
llm:
  base: http://localhost:8081/v1
  model: test-model
  system: Answer in JSON
`)
	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "answer", fc.Field)
	assert.Equal(t, "integer", fc.Type)
	assert.Equal(t, 16, fc.ChunkSize)
	assert.True(t, fc.PrintValue)
	assert.Equal(t, "test-model", fc.LLM.Model)
	assert.Equal(t, "Answer in JSON", fc.LLM.System)
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "jf.json", `{"field": "city", "nonBlocking": true, "llm": {"key": "k"}}`)
	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "city", fc.Field)
	assert.True(t, fc.NonBlocking)
	assert.Equal(t, "k", fc.LLM.APIKey)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadFile(writeFile(t, "bad.yaml", "field: [unterminated"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestApplyFileKeepsExplicitValues(t *testing.T) {
	cfg := Default()
	cfg.Field = "city"
	cfg.ChunkSize = 8

	var fc FileConfig
	fc.Field = "other"
	fc.Type = "boolean"
	fc.ChunkSize = 32
	fc.Color = "never"
	fc.LLM.Model = "m"
	ApplyFile(&cfg, fc)

	assert.Equal(t, "city", cfg.Field)
	assert.Equal(t, "boolean", cfg.Type)
	assert.Equal(t, 8, cfg.ChunkSize)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "m", cfg.LLMModel)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"JF_FIELD":     "zip",
		"JF_TYPE":      "integer",
		"LLM_MODEL":    "env-model",
		"LLM_API_KEY":  "env-key",
		"LLM_BASE_URL": "http://env",
	}
	cfg := Default()
	cfg.LLMModel = "flag-model"
	ApplyEnv(&cfg, func(k string) string { return env[k] })

	assert.Equal(t, "zip", cfg.Field)
	assert.Equal(t, "integer", cfg.Type)
	assert.Equal(t, "flag-model", cfg.LLMModel)
	assert.Equal(t, "env-key", cfg.LLMAPIKey)
	assert.Equal(t, "http://env", cfg.LLMBaseURL)
}

func TestExplicitFlagsAtDefaultValue(t *testing.T) {
	cfg := Default()
	cfg.Field = "city"
	cfg.SetExplicit("field", "type", "chunk", "color", "nonblocking")

	ApplyEnv(&cfg, func(k string) string {
		if k == "JF_TYPE" {
			return "integer"
		}
		return ""
	})
	assert.Equal(t, DefaultType, cfg.Type)

	var fc FileConfig
	fc.Type = "boolean"
	fc.ChunkSize = 32
	fc.Color = "never"
	fc.NonBlocking = true
	fc.PrintValue = true
	ApplyFile(&cfg, fc)

	assert.Equal(t, DefaultType, cfg.Type)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultColor, cfg.Color)
	assert.False(t, cfg.NonBlocking)
	assert.True(t, cfg.PrintValue)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Field = "city"
	require.NoError(t, cfg.Validate())
	kind, err := cfg.Kind()
	require.NoError(t, err)
	assert.Equal(t, extract.String, kind)

	bad := Default()
	bad.Type = "float"
	bad.ChunkSize = 0
	bad.Color = "sometimes"
	bad.Prompt = "hello"
	err = bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrInvalidFieldName)
	assert.ErrorContains(t, err, `unknown kind "float"`)
	assert.ErrorContains(t, err, "chunk size")
	assert.ErrorContains(t, err, "color mode")
	assert.ErrorContains(t, err, "model is required")
}
