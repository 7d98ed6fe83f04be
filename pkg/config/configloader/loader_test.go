package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Catalog struct {
		File string `koanf:"file"`
	} `koanf:"catalog"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Load_Layers(t *testing.T) {
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", "server:\n  port: 8000\ncatalog:\n  file: from-yaml.xml\n")
	envFile := writeFile(t, dir, ".env", "TESTSVC_CATALOG_FILE=from-dotenv.xml\nOTHER_KEY=ignored\n")

	testCases := []struct {
		name         string
		env          map[string]string
		expectedPort int
		expectedFile string
	}{
		{
			name:         "yaml overridden by .env",
			expectedPort: 8000,
			expectedFile: "from-dotenv.xml",
		},
		{
			name:         "system env has the highest priority",
			env:          map[string]string{"TESTSVC_SERVER_PORT": "9000", "TESTSVC_CATALOG_FILE": "from-env.xml"},
			expectedPort: 9000,
			expectedFile: "from-env.xml",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			// when
			cfg, err := Load[*testConfig]("testsvc", Sources{ConfigFile: yamlFile, EnvFile: envFile})
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedPort, cfg.Server.Port)
			assert.Equal(t, tc.expectedFile, cfg.Catalog.File)
		})
	}
}

func Test_Load_MissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TESTSVC_SERVER_PORT", "8080")

	cfg, err := Load[*testConfig]("testsvc", Sources{
		ConfigFile: filepath.Join(dir, "absent.yaml"),
		EnvFile:    filepath.Join(dir, "absent.env"),
	})

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func Test_Load_ValidationError(t *testing.T) {
	_, err := Load[*testConfig]("testsvc", Sources{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
