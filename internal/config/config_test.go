package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return dir
}

func mustTTL(t *testing.T, s Settings) mo.Option[time.Duration] {
	t.Helper()
	ttl, err := s.TTL()
	require.NoError(t, err)
	return ttl
}

func TestLoad_MissingLocalFileUsesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(EnvConfigPath, "")

	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), s)
	ttl, err := s.TTL()
	require.NoError(t, err)
	require.True(t, ttl.IsAbsent())
}

func TestLoad_LocalFile(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv(EnvConfigPath, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile),
		[]byte("default_ttl: 250ms\nlog_format: json\n"), 0o600))

	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "json", s.LogFormat)
	require.Equal(t, "> ", s.Prompt)
	require.Equal(t, mo.Some(250*time.Millisecond), mustTTL(t, s))
}

func TestLoad_ExplicitPathBeatsEnv(t *testing.T) {
	dir := chdirTemp(t)
	fromEnv := filepath.Join(dir, "env.yaml")
	fromFlag := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(fromEnv, []byte("default_ttl: 1s\n"), 0o600))
	require.NoError(t, os.WriteFile(fromFlag, []byte("default_ttl: 2s\n"), 0o600))
	t.Setenv(EnvConfigPath, fromEnv)

	s, err := Load(fromFlag)
	require.NoError(t, err)
	require.Equal(t, mo.Some(2*time.Second), mustTTL(t, s))

	s, err = Load("")
	require.NoError(t, err)
	require.Equal(t, mo.Some(time.Second), mustTTL(t, s))
}

func TestLoad_ExplicitMissingFileIsError(t *testing.T) {
	chdirTemp(t)
	_, err := Load("nope.yaml")
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAMLReturnsError(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_ttl: [\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestLoad_RejectsBadValues(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "bad.yaml")

	require.NoError(t, os.WriteFile(path, []byte("default_ttl: soon\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "default_ttl")

	require.NoError(t, os.WriteFile(path, []byte("log_format: xml\n"), 0o600))
	_, err = Load(path)
	require.ErrorContains(t, err, "log_format")
}

func TestParseTTL(t *testing.T) {
	d, err := ParseTTL("")
	require.NoError(t, err)
	require.True(t, d.IsAbsent())

	d, err = ParseTTL(" None ")
	require.NoError(t, err)
	require.True(t, d.IsAbsent())

	d, err = ParseTTL("-5s")
	require.NoError(t, err)
	require.Equal(t, mo.Some(-5*time.Second), d)

	_, err = ParseTTL("5")
	require.Error(t, err)
}

func TestSettingsTTL_MalformedIsError(t *testing.T) {
	s := Defaults()
	s.DefaultTTL = "10 minutes"

	ttl, err := s.TTL()
	require.ErrorContains(t, err, "default_ttl")
	require.True(t, ttl.IsAbsent())

	s.DefaultTTL = "none"
	ttl, err = s.TTL()
	require.NoError(t, err)
	require.True(t, ttl.IsAbsent())
}
