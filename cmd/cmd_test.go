package cmd

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/infrastructure/crypto"
)

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "CRED_ENC_KEY", "TELEGRAM_TOKEN", "LINE_CHANNEL_ACCESS_TOKEN", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fumotomon dev")
}

func TestKeys(t *testing.T) {
	out, err := run(t, "", "keys")
	require.NoError(t, err)

	v := strings.TrimPrefix(strings.TrimSpace(out), "export CRED_ENC_KEY=")
	key, err := base64.StdEncoding.DecodeString(v)
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestSealRoundTrip(t *testing.T) {
	cleanEnv(t)
	key := bytes.Repeat([]byte{7}, 32)
	t.Setenv("CRED_ENC_KEY", base64.StdEncoding.EncodeToString(key))

	out, err := run(t, "hunter2\n", "seal")
	require.NoError(t, err)
	sealed := strings.TrimPrefix(strings.TrimSpace(out), "export PASSWORD_SEALED=")

	aead, err := crypto.New(key)
	require.NoError(t, err)
	pw, err := aead.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestSealNeedsKey(t *testing.T) {
	cleanEnv(t)
	_, err := run(t, "", "seal", "--password", "x")
	require.ErrorContains(t, err, "CRED_ENC_KEY")
}

func TestSets(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// comments are allowed
		notification_sets: [
			{id: 1, name: "GW", start_date: "2025-04-30", nights: 2, auto_reserve: true},
			{id: 2, name: "broken", start_date: "soon"},
		],
		check_interval: 300,
	}`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	out, err := run(t, "", "sets")
	require.NoError(t, err)
	assert.Contains(t, out, "check_interval=5m0s")
	assert.Contains(t, out, "GW")
	assert.Contains(t, out, "2025-04-30")
	assert.Contains(t, out, "skipped: notification_sets[1]")
	assert.Contains(t, out, "month 2025-04\nmonth 2025-05\n")
}

func TestPingWithoutChannelsLogs(t *testing.T) {
	cleanEnv(t)
	out, err := run(t, "", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "notify: ok")
}

func TestHistoryNeedsDatabase(t *testing.T) {
	cleanEnv(t)
	_, err := run(t, "", "history", "2025-04-30")
	require.ErrorContains(t, err, "DATABASE_URL")

	_, err = run(t, "", "history", "tomorrow")
	require.ErrorContains(t, err, "invalid date")
}
