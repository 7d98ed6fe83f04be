package main

import (
	"fmt"

	"github.com/abgdnv/xmlcatalog/internal/app"
	"github.com/abgdnv/xmlcatalog/internal/config"
	"github.com/abgdnv/xmlcatalog/pkg/config/configloader"
	"github.com/spf13/cobra"
)

// options are the flags shared by every command.
type options struct {
	configFile  string
	envFile     string
	catalogFile string
}

func (o *options) sources() configloader.Sources {
	return configloader.Sources{ConfigFile: o.configFile, EnvFile: o.envFile}
}

// loadToolConfig loads the catalog, log and nats sections, applying the --file override.
func (o *options) loadToolConfig() (*config.ToolConfig, error) {
	cfg, err := configloader.Load[*config.ToolConfig](app.ServiceName, o.sources())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.catalogFile != "" {
		cfg.Catalog.File = o.catalogFile
		if err := cfg.Catalog.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "catalog",
		Short: "XML product catalog service",
		Long: `catalog keeps a product list in a single XML file and exposes it through a
SOAP endpoint (namespace mi.soap.crud), a JSON REST API and a gRPC health service.

Every operation reloads the file and every change rewrites it completely.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", configloader.DefaultSources.ConfigFile, "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", configloader.DefaultSources.EnvFile, "dotenv file with CATALOG_* overrides")
	root.PersistentFlags().StringVarP(&opts.catalogFile, "file", "f", "", "catalog file, overrides catalog.file")

	root.AddGroup(
		&cobra.Group{ID: "server", Title: "Server Commands:"},
		&cobra.Group{ID: "catalog", Title: "Catalog Commands:"},
	)
	root.AddCommand(
		newServeCmd(opts),
		newInitCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
		newUpdateCmd(opts),
		newReportCmd(opts),
	)
	return root
}
