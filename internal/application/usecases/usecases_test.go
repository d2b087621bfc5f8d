package usecases

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/infrastructure/crypto"
)

func TestResolveCredentials(t *testing.T) {
	a, err := crypto.New(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	sealed, err := Seal(a, "hunter2")
	require.NoError(t, err)

	svc := CredentialsService{AEAD: a}
	c, err := svc.Resolve("me@example.com", "", sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", c.Password)

	c, err = svc.Resolve("me@example.com", "plain", sealed)
	require.NoError(t, err)
	assert.Equal(t, "plain", c.Password)

	_, err = CredentialsService{}.Resolve("me@example.com", "", sealed)
	assert.Error(t, err)

	_, err = svc.Resolve("me@example.com", "", "garbage")
	assert.Error(t, err)
}

type recorder struct{ sent []string }

func (r *recorder) Send(_ context.Context, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

func TestPingNotifier(t *testing.T) {
	r := &recorder{}
	require.NoError(t, PingNotifier{Notifier: r}.Execute(context.Background()))
	require.Len(t, r.sent, 1)
	assert.Contains(t, r.sent[0], "テスト")

	assert.Error(t, PingNotifier{}.Execute(context.Background()))
}
