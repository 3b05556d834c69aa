package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ls-astrodb v")
}

func TestLookupCommand(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantOut []string
	}{
		{"canonical name", "Sirius", []string{"Designation,HIP 32349", "Kind,star", "HD 48915", "Gliese 244"}},
		{"designation", "HD 48915", []string{"Index,32349"}},
		{"localized", "Sirio", []string{"Index,32349", "Sirius / Alpha Canis Majoris / Dog Star"}},
		{"index", "#32349", []string{"Spectral type"}},
		{"deep sky", "M 31", []string{"Kind,dso", "Type,galaxy", "NGC 224"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "lookup", tt.arg)
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestLookupCommand_Unknown(t *testing.T) {
	_, _, err := run(t, "lookup", "Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Nowhere"`)
}

func TestLookupCommand_NoI18n(t *testing.T) {
	_, _, err := run(t, "lookup", "--no-i18n", "Sirio")
	assert.Error(t, err)
}

func TestCompleteCommand(t *testing.T) {
	out, _, err := run(t, "complete", "--i18n=false", "Sir")
	require.NoError(t, err)
	assert.Equal(t, "Sirius\n", out)

	out, _, err = run(t, "complete", "Sir")
	require.NoError(t, err)
	assert.Contains(t, out, "Sirio\n")

	out, _, err = run(t, "complete", "-n", "2", "Al")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestCompleteCommand_LimitFromEnv(t *testing.T) {
	t.Setenv("ASTRODB_COMPLETION_LIMIT", "1")
	out, _, err := run(t, "complete", "Al")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestVisibleCommand(t *testing.T) {
	out, _, err := run(t, "visible", "--ra", "101.287", "--dec", "-16.716", "--fov", "20", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Sirius")
	assert.NotContains(t, out, "Canopus")

	out, _, err = run(t, "visible", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Canopus")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 2)
	assert.Contains(t, lines[1], "Sirius", "brightest first")
}

func TestVisibleCommand_From(t *testing.T) {
	// Seen from Procyon, Sirius is 5.3 ly away.
	out, _, err := run(t, "visible", "--from", "Procyon", "--radius", "6", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Sirius")
	assert.NotContains(t, out, "Vega")

	_, _, err = run(t, "visible", "--from", "Nowhere")
	assert.Error(t, err)
}

func TestNearCommand(t *testing.T) {
	out, _, err := run(t, "near", "Sirius", "--radius", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Procyon")
	assert.NotContains(t, out, "Epsilon Eridani")
	assert.NotContains(t, out, "32349,Sirius", "the center is excluded")

	out, _, err = run(t, "near", "Sirius", "-r", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Epsilon Eridani")
}

func TestStatsCommand(t *testing.T) {
	out, _, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Objects")
	assert.Contains(t, out, "next auto index")
}

func TestDataDir(t *testing.T) {
	dir := t.TempDir()
	stars := `
[[star]]
hip = 1
ra = 10
dec = 10
distance = 50
mag = 4
names = ["Testar"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stars.toml"), []byte(stars), 0o644))

	out, errOut, err := run(t, "--data-dir", dir, "--seed=false", "lookup", "Testar")
	require.NoError(t, err)
	assert.Contains(t, out, "Designation,HIP 1")
	assert.Contains(t, errOut, "stars.toml: 1 added")

	_, _, err = run(t, "--data-dir", dir, "--seed=false", "lookup", "Sirius")
	assert.Error(t, err, "seeding was disabled")
}

func TestDataDir_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "names.toml"), []byte("[[name]\n"), 0o644))

	_, _, err := run(t, "--data-dir", dir, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names.toml")
}

func TestWatchCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "names.toml"), nil, 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	out, _, err := runContext(t, ctx, "--data-dir", dir, "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "LOADED")
	assert.Contains(t, out, "startup")
}

func TestWatchCommand_NeedsDataDir(t *testing.T) {
	_, _, err := run(t, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory")
}

func TestBrowseCommand_NeedsTerminal(t *testing.T) {
	_, _, err := run(t, "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}
