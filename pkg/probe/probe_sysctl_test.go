package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSysctl(t *testing.T, root, variable, value string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(variable))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(value+"\n"), 0o644))
}

func TestSysctlProbeMatchingValues(t *testing.T) {
	root := t.TempDir()
	writeSysctl(t, root, "net/ipv4/ip_forward", "1")
	writeSysctl(t, root, "net/ipv4/ip_nonlocal_bind", "1")

	p := &sysctlProbe{
		root: root,
		variables: map[string]string{
			"net.ipv4.ip_forward":       "1",
			"net.ipv4.ip_nonlocal_bind": "1",
		},
	}

	_, err := p.Exec(context.Background())
	assert.NoError(t, err)
}

func TestSysctlProbeMismatchNamesVariableAndValues(t *testing.T) {
	root := t.TempDir()
	writeSysctl(t, root, "net/ipv4/ip_forward", "0")

	p := &sysctlProbe{
		root:      root,
		variables: map[string]string{"net.ipv4.ip_forward": "1"},
	}

	_, err := p.Exec(context.Background())
	require.Error(t, err)
	assert.Equal(t, `sysctl net.ipv4.ip_forward is "0", expected "1"`, err.Error())
}

func TestSysctlProbeMissingFileReadsAsEmptyString(t *testing.T) {
	p := &sysctlProbe{
		root:      t.TempDir(),
		variables: map[string]string{"net.ipv4.ip_forward": "1"},
	}

	_, err := p.Exec(context.Background())
	require.Error(t, err)
	assert.Equal(t, `sysctl net.ipv4.ip_forward is "", expected "1"`, err.Error())
}
