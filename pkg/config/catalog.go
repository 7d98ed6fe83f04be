package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CatalogConfig points the service at its XML catalog and the optional front-end directory.
type CatalogConfig struct {
	File      string `koanf:"file"`
	StaticDir string `koanf:"staticdir"`
	// Create makes the service write an empty catalog on startup when File does not exist.
	Create bool `koanf:"create"`
}

const defaultCatalogFile = "xml/datos.xml"

// String returns a string representation of the catalog configuration.
func (c *CatalogConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Catalog ---\n")
	b.WriteString(fmt.Sprintf("  file: %s\n", c.File))
	b.WriteString(fmt.Sprintf("  staticdir: %s\n", c.StaticDir))
	b.WriteString(fmt.Sprintf("  create: %t\n", c.Create))
	return b.String()
}

func (c *CatalogConfig) Validate() error {
	if c.File == "" {
		c.File = defaultCatalogFile
	}
	if ext := strings.ToLower(filepath.Ext(c.File)); ext != ".xml" {
		return fmt.Errorf("catalog file must have .xml extension: %s", c.File)
	}
	return nil
}
