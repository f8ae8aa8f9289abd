package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_KeepsLegacySlotKeys(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ayanfeCart", cfg.Sites["fashion"].SlotKey)
	assert.Equal(t, "pastryCart", cfg.Sites["pastry"].SlotKey)
	assert.Equal(t, "shoeCart", cfg.Sites["shoe"].SlotKey)
	assert.Equal(t, []string{"fashion", "pastry", "shoe"}, cfg.SiteNames())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHOPCART_BACKEND", "")
	t.Setenv("SHOPCART_SITE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, "fashion", cfg.DefaultSite)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHOPCART_BACKEND", "")
	t.Setenv("SHOPCART_SITE", "")

	path := filepath.Join(t.TempDir(), "shopcart.yaml")
	doc := `
default_site: shoe
storage:
  backend: sqlite
  sqlite:
    path: /tmp/carts.db
sites:
  shoe:
    title: Kicks
    slot_key: shoeCart
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shoe", cfg.DefaultSite)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/carts.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "Kicks", cfg.Sites["shoe"].Title)
	// maps merge: untouched defaults survive
	assert.Equal(t, "pastryCart", cfg.Sites["pastry"].SlotKey)
}

func TestLoad_BadYAML(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "shopcart.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sites: [oops"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SHOPCART_BACKEND", "bolt")
	t.Setenv("SHOPCART_SITE", "bakery")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)

	cfg.Storage.Backend = BackendMemory
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownSite)

	cfg.DefaultSite = "shoe"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	t.Run("values apply", func(t *testing.T) {
		chdir(t, t.TempDir())
		// unset, so the .env value is not shadowed; t.Setenv restores it afterwards
		t.Setenv("SHOPCART_REDIS_DB", "")
		require.NoError(t, os.Unsetenv("SHOPCART_REDIS_DB"))
		require.NoError(t, os.WriteFile(".env", []byte("SHOPCART_REDIS_DB=4\n"), 0o644))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Storage.Redis.DB)
	})

	t.Run("broken file is an error", func(t *testing.T) {
		chdir(t, t.TempDir())
		require.NoError(t, os.WriteFile(".env", []byte("not-a-key=1\n"), 0o644))

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".env")
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("backend and site", func(t *testing.T) {
		t.Setenv("SHOPCART_BACKEND", "Redis")
		t.Setenv("SHOPCART_SITE", "pastry")
		t.Setenv("SHOPCART_REDIS_DB", "3")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BackendRedis, cfg.Storage.Backend)
		assert.Equal(t, "pastry", cfg.DefaultSite)
		assert.Equal(t, 3, cfg.Storage.Redis.DB)
	})

	t.Run("bad redis db is ignored", func(t *testing.T) {
		t.Setenv("SHOPCART_REDIS_DB", "three")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 0, cfg.Storage.Redis.DB)
	})
}

func TestValidate(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage.Backend = "bolt"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownBackend)
	})

	t.Run("unknown default site", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultSite = "bakery"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownSite)
	})

	t.Run("empty slot key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Sites["shoe"] = SiteConfig{Title: "Shoe"}
		assert.Error(t, cfg.Validate())
	})
}

func TestSite(t *testing.T) {
	cfg := DefaultConfig()

	name, s, err := cfg.Site("")
	require.NoError(t, err)
	assert.Equal(t, "fashion", name)
	assert.Equal(t, "ayanfeCart", s.SlotKey)

	_, _, err = cfg.Site("bakery")
	assert.ErrorIs(t, err, ErrUnknownSite)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
