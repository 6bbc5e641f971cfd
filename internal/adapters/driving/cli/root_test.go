package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command against temp data and config
// directories, returning the combined output.
func runCommand(t *testing.T, dirs *testDirs, args ...string) (string, error) {
	t.Helper()

	t.Setenv("WATSONX_API_KEY", "")
	t.Setenv("WATSONX_PROJECT_ID", "")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--data-dir", dirs.data, "--config-dir", dirs.config))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		closeServices()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

type testDirs struct {
	data   string
	config string
}

func newTestDirs(t *testing.T) *testDirs {
	t.Helper()
	return &testDirs{data: t.TempDir(), config: t.TempDir()}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, newTestDirs(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "loan-assistant version")
}

func TestIngestAndListDocuments(t *testing.T) {
	dirs := newTestDirs(t)
	path := filepath.Join(t.TempDir(), "agreement.txt")
	require.NoError(t, os.WriteFile(path, []byte("The interest rate is 5.5% annually."), 0o600))

	out, err := runCommand(t, dirs, "ingest", path, "--id", "doc1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ingested agreement.txt")
	assert.Contains(t, out, "chunks: 1")

	out, err = runCommand(t, dirs, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "doc1")
	assert.Contains(t, out, "agreement.txt")
}

func TestIngest_UnknownExtension(t *testing.T) {
	dirs := newTestDirs(t)
	path := filepath.Join(t.TempDir(), "binary.xyz")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	_, err := runCommand(t, dirs, "ingest", path)
	assert.Error(t, err)
}

func TestAsk_WithoutChatModelShowsChunks(t *testing.T) {
	dirs := newTestDirs(t)
	path := filepath.Join(t.TempDir(), "agreement.txt")
	require.NoError(t, os.WriteFile(path, []byte("The interest rate is 5.5% annually."), 0o600))

	_, err := runCommand(t, dirs, "ingest", path, "--id", "doc1")
	require.NoError(t, err)

	out, err := runCommand(t, dirs, "ask", "What is the interest rate?")
	require.NoError(t, err)
	assert.Contains(t, out, "Chat model not configured")
	assert.Contains(t, out, "agreement.txt")
}

func TestResetCommand(t *testing.T) {
	dirs := newTestDirs(t)
	path := filepath.Join(t.TempDir(), "agreement.txt")
	require.NoError(t, os.WriteFile(path, []byte("content to wipe"), 0o600))

	_, err := runCommand(t, dirs, "ingest", path)
	require.NoError(t, err)

	out, err := runCommand(t, dirs, "reset", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Remaining: 0 documents, 0 chunks")
}

func TestReferenceLoadCommand(t *testing.T) {
	dirs := newTestDirs(t)
	refDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "loan_basics.txt"),
		[]byte("loan basics guide content"), 0o600))

	out, err := runCommand(t, dirs, "reference", "load", refDir)
	require.NoError(t, err)
	assert.Contains(t, out, "loaded loan_basics.txt")
	assert.Contains(t, out, "1 loaded, 0 failed")
}
