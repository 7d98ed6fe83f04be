package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/abgdnv/xmlcatalog/internal/service"
	"github.com/abgdnv/xmlcatalog/internal/store"
	"github.com/abgdnv/xmlcatalog/internal/transport/soap"
	"github.com/abgdnv/xmlcatalog/pkg/bootstrap"
	"github.com/spf13/cobra"
)

// withService runs fn against a catalog service built from the tool configuration.
// Logs go to stderr so that command output stays clean.
func withService(cmd *cobra.Command, opts *options, fn func(svc service.CatalogService, out io.Writer) error) error {
	cfg, err := opts.loadToolConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)
	publisher, closePublisher, err := bootstrap.NewPublisher(cmd.Context(), cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer closePublisher()

	logger.Debug("Using catalog", slog.String("file", cfg.Catalog.File))
	svc := service.NewService(store.NewFileStore(cfg.Catalog.File), publisher)
	return fn(svc, cmd.OutOrStdout())
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		GroupID: "catalog",
		Short:   "Create an empty catalog file if it does not exist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadToolConfig()
			if err != nil {
				return err
			}
			catalogStore := store.NewFileStore(cfg.Catalog.File)
			created, err := catalogStore.Init(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", catalogStore.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", catalogStore.Path())
			}
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "catalog",
		Short:   "Print the catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc service.CatalogService, out io.Writer) error {
				if asJSON {
					products, err := svc.FindAll(cmd.Context())
					if err != nil {
						return err
					}
					return writeJSON(out, products)
				}
				text, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print products as JSON instead of XML")
	return cmd
}

// productFlags registers the name, price and quantity flags shared by add and update.
func productFlags(cmd *cobra.Command, input *service.ProductInput) {
	cmd.Flags().StringVarP(&input.Name, "name", "n", "", "product name")
	cmd.Flags().StringVarP(&input.Price, "price", "p", "", "product price")
	cmd.Flags().StringVarP(&input.Quantity, "quantity", "q", "", "quantity in stock")
}

func newAddCmd(opts *options) *cobra.Command {
	var input service.ProductInput
	cmd := &cobra.Command{
		Use:     "add",
		GroupID: "catalog",
		Short:   "Append a product with the next free id",
		Example: `  catalog add --name Lapiz --price 1.5 --quantity 100`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc service.CatalogService, out io.Writer) error {
				confirmation, err := svc.Add(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s (id %d)\n", confirmation.Message, confirmation.ID)
				return err
			})
		},
	}
	productFlags(cmd, &input)
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		GroupID: "catalog",
		Short:   "Remove a product",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(svc service.CatalogService, out io.Writer) error {
				confirmation, err := svc.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, confirmation.Message)
				return err
			})
		},
	}
}

func newUpdateCmd(opts *options) *cobra.Command {
	var input service.ProductInput
	cmd := &cobra.Command{
		Use:     "update <id>",
		GroupID: "catalog",
		Short:   "Overwrite the given fields of a product",
		Long:    "Only the fields passed with a non-blank value are changed.",
		Example: `  catalog update 3 --price 2.75`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, opts, func(svc service.CatalogService, out io.Writer) error {
				confirmation, err := svc.Update(cmd.Context(), id, input)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, confirmation.Message)
				return err
			})
		},
	}
	productFlags(cmd, &input)
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "report",
		GroupID: "catalog",
		Short:   "Print the price report",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, opts, func(svc service.CatalogService, out io.Writer) error {
				report, err := svc.Report(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, report)
				}
				text, err := soap.RenderReport(report)
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, text)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON instead of XML")
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer: %q", arg)
	}
	return id, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
