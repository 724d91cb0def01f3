package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	v := NewVault(dir)

	creds := Credentials{APIKey: "sk-test-1234567890", Provider: "openai", Model: "gpt-5-mini"}
	require.NoError(t, v.Save("hunter2", creds))

	loaded, err := v.Load("hunter2")
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
}

func TestVaultLoadMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	v := NewVault(dir)

	loaded, err := v.Load("whatever")
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, loaded)
}

func TestVaultWrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	v := NewVault(dir)

	require.NoError(t, v.Save("correct-horse", Credentials{APIKey: "secret"}))

	_, err := v.Load("wrong-passphrase")
	assert.Error(t, err)
}

func TestVaultDelete(t *testing.T) {
	dir := t.TempDir()
	v := NewVault(dir)

	require.NoError(t, v.Save("pw", Credentials{APIKey: "secret"}))
	assert.True(t, v.Exists())

	require.NoError(t, v.Delete())
	assert.False(t, v.Exists())
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "abcd...5678", MaskAPIKey("abcd1234efgh5678"))
	assert.Equal(t, "*****", MaskAPIKey("short"))
}
