package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestOperatorCommands(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "roster.db"))

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema is up to date")

	out, err = run(t, "init-admin", "--email", "root@example.test", "--password", "rootpass")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin root@example.test")
	assert.NotContains(t, out, "password:")

	out, err = run(t, "verify-user", "root@example.test")
	require.NoError(t, err)
	assert.Contains(t, out, "role:         admin")

	_, err = run(t, "verify-user", "root@example.test", "--password", "wrong-pass")
	require.Error(t, err)

	out, err = run(t, "reset-password", "root@example.test")
	require.NoError(t, err)
	assert.Contains(t, out, "password reset for root@example.test")
	assert.Regexp(t, `password: [0-9a-f]{4}-`, out)

	out, err = run(t, "init-admin", "--email", "root@example.test", "--password", "another1")
	require.NoError(t, err)
	assert.Contains(t, out, "promoted root@example.test")

	out, err = run(t, "verify-user", "root@example.test", "--password", "another1")
	require.NoError(t, err)
	assert.Contains(t, out, "credentials valid")
}

func TestInitAdminRequiresEmail(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "roster.db"))

	_, err := run(t, "init-admin")
	require.Error(t, err)
}
