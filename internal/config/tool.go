package config

import (
	"github.com/abgdnv/xmlcatalog/pkg/config"
	"github.com/abgdnv/xmlcatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*ToolConfig)(nil)

// ToolConfig is the part of the configuration used by the catalog editing commands.
type ToolConfig struct {
	Catalog config.CatalogConfig `koanf:"catalog"`
	Log     config.LogConfig     `koanf:"log"`
	NATS    config.NATSConfig    `koanf:"nats"`
}

func (c *ToolConfig) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.NATS.Validate()
}
