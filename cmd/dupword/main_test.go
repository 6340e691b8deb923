package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { resetFlags(rootCmd) })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since rootCmd is shared by all tests in the package.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanCommandTAP(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "All good here.\n")
	b := writeDoc(t, dir, "b.pod6", "=head1 B\n\nthis is is wrong\nand ends with word\nword again\n")

	out, err := execute(t, "-o", "tap", "--no-color", dir)
	require.ErrorIs(t, err, errFindings)

	want := "1..2\n" +
		"ok 1 - " + filepath.Join(dir, "a.md") + "\n" +
		"not ok 2 - " + b + "\n" +
		"# «is» on line 3\n" +
		"# «word» on line 5\n"
	assert.Equal(t, want, out)
}

func TestScanCommandClean(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "long long ago\n")

	out, err := execute(t, "-o", "tap", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok 1 - ")
}

func TestScanCommandNoFiles(t *testing.T) {
	out, err := execute(t, "-o", "tap", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "1..0\n", out)
}

func TestScanCommandAllow(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "bye bye now\n")

	out, err := execute(t, "-o", "tap", "--allow", "bye", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok 1 - ")
	assert.NotContains(t, out, "not ok")
}

func TestScanCommandUnknownOutput(t *testing.T) {
	_, err := execute(t, "-o", "xml", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "x\n")
	writeDoc(t, dir, "b.pod6", "x\n")
	writeDoc(t, dir, "c.txt", "x\n")

	out, err := execute(t, "list", "-o", "tap", dir)
	require.NoError(t, err)
	assert.Equal(t,
		"plain  "+filepath.Join(dir, "a.md")+"\n"+
			"marked "+filepath.Join(dir, "b.pod6")+"\n",
		out)
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", "bye bye now\n")

	t.Run("allow and bad output", func(t *testing.T) {
		_, err := execute(t, "-o", "xml", "--allow", "bye", dir)
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		out, err := execute(t, dir)
		require.ErrorIs(t, err, errFindings)
		assert.Contains(t, out, "1..1\n")
		assert.Contains(t, out, "«bye» on line 1")
	})
}
