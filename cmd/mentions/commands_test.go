package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mentions "github.com/yangbooom/mentions-go"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlainCommand(t *testing.T) {
	out, err := run(t, "", "plain", "Hi @[John](42)!")
	require.NoError(t, err)
	assert.Equal(t, "Hi John!\n", out)

	out, err = run(t, "Hi @[John](42)\n", "plain")
	require.NoError(t, err)
	assert.Equal(t, "Hi John\n", out)
}

func TestMentionsCommand(t *testing.T) {
	out, err := run(t, "", "mentions", "Hi @[John](42)")
	require.NoError(t, err)

	var got []mentions.Mention
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "42", got[0].ID)
	assert.Equal(t, 3, got[0].PlainTextIndex)

	out, err = run(t, "", "mentions", "nothing here")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestMapCommand(t *testing.T) {
	out, err := run(t, "", "map", "--index", "5", "--policy", "end", "Hi @[John](42)")
	require.NoError(t, err)
	assert.Equal(t, "14\n", out)

	out, err = run(t, "", "map", "-i", "5", "-p", "null", "Hi @[John](42)")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	_, err = run(t, "", "map", "--policy", "middle", "x")
	assert.Error(t, err)
}

func TestEditCommand(t *testing.T) {
	out, err := run(t, "", "edit", "--new", "Hi , how are you?",
		"--before-start", "3", "--before-end", "7", "--caret", "3",
		"Hi @[John](42), how are you?")
	require.NoError(t, err)

	var res mentions.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Hi , how are you?", res.Markup)
	assert.Equal(t, 3, res.Selection.Start)

	_, err = run(t, "", "edit", "x")
	assert.Error(t, err)
}

func TestSerializeCommand(t *testing.T) {
	out, err := run(t, "", "serialize", "--id", "7", "--display", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "@[Alice](7)\n", out)
}

func TestEntitiesCommand(t *testing.T) {
	out, err := run(t, "", "entities", "Hi @[John](42)")
	require.NoError(t, err)

	var got entitiesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Hi John", got.Text)
	require.Len(t, got.Entities, 1)
	assert.Equal(t, mentions.EntityMention, got.Entities[0].Type)

	out, err = run(t, "", "entities", "--split", "4", "aaaa @[John](1)")
	require.NoError(t, err)
	var chunks []entitiesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &chunks))
	assert.Len(t, chunks, 3)
}

func TestCopyAndPasteCommands(t *testing.T) {
	out, err := run(t, "", "copy", "--start", "0", "--end", "5", "Hi @[John](42)")
	require.NoError(t, err)
	assert.Equal(t, "Hi @[John](42)\n", out)

	out, err = run(t, "", "paste", "--start", "3", "--fragment", "@[Ann](1) ", "Hi you")
	require.NoError(t, err)
	assert.Equal(t, "Hi @[Ann](1) you\n", out)
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[[types]]
name = "tag"
trigger = "#"
markup = "#[__display__](__id__)"
`), 0o644))

	out, err := run(t, "", "--config", path, "plain", "see #[go](1) @[John](2)")
	require.NoError(t, err)
	assert.Equal(t, "see go @[John](2)\n", out)

	_, err = run(t, "", "--unit", "words", "plain", "x")
	assert.Error(t, err)
}
