package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapConfig(t *testing.T) {
	c := NewMapConfig(map[string]string{
		"STR_KEY":  "value",
		"INT_KEY":  "42",
		"BOOL_KEY": "true",
		"BAD_INT":  "not an int",
	})

	require.Equal(t, "value", c.GetKey("STR_KEY"))
	require.Equal(t, "", c.GetKey("MISSING"))

	require.Equal(t, "value", c.GetKeyWithDefault("STR_KEY", "fallback"))
	require.Equal(t, "fallback", c.GetKeyWithDefault("MISSING", "fallback"))

	require.Equal(t, 42, c.GetIntKeyWithDefault("INT_KEY", 7))
	require.Equal(t, 7, c.GetIntKeyWithDefault("BAD_INT", 7))
	require.Equal(t, 7, c.GetIntKeyWithDefault("MISSING", 7))

	require.True(t, c.GetBoolKeyWithDefault("BOOL_KEY", false))
	require.False(t, c.GetBoolKeyWithDefault("MISSING", false))

	require.Error(t, c.LoadFromPath("anywhere"))
	require.NoError(t, c.Load())
}

func TestDotenvConfig(t *testing.T) {
	dotenvPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenvPath, []byte("PANDATA_TEST_KEY=from-dotenv\n"), 0o644))

	c := NewDotenvConfig("")
	require.NoError(t, c.Load())
	require.Equal(t, "", c.GetKey("PANDATA_TEST_KEY"))

	require.NoError(t, c.LoadFromPath(dotenvPath))
	require.Equal(t, "from-dotenv", c.GetKey("PANDATA_TEST_KEY"))

	t.Setenv("PANDATA_TEST_INT", "13")
	require.Equal(t, 13, c.GetIntKeyWithDefault("PANDATA_TEST_INT", 0))
}
