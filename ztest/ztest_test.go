package ztest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestFromYAMLFileUnknownField(t *testing.T) {
	_, err := FromYAMLFile(writeYAML(t, "args: integer\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestRunInternalMismatch(t *testing.T) {
	zt, err := FromYAMLFile(writeYAML(t, "args: bigint\noutput: |\n  nope\n"))
	require.NoError(t, err)
	err = zt.RunInternal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected and actual output differ")
	assert.Contains(t, err.Error(), "+types: bigint")
}

func TestCheckRequiresArgsOrScript(t *testing.T) {
	zt, err := FromYAMLFile(writeYAML(t, "output: x\n"))
	require.NoError(t, err)
	assert.EqualError(t, zt.RunInternal(), "bad yaml format: either an args field or script field must be present")
}

func TestShouldSkip(t *testing.T) {
	args := "integer"
	assert.Equal(t, "in-process test on script run", (&ZTest{Args: &args}).ShouldSkip("/bin"))
	assert.Equal(t, "script test on in-process run", (&ZTest{Script: "true"}).ShouldSkip(""))
	assert.Equal(t, "flaky", (&ZTest{Args: &args, Skip: "flaky"}).ShouldSkip(""))
	assert.Equal(t, "", (&ZTest{Args: &args}).ShouldSkip(""))
}
