package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/AnTengye/mediconnect/config"
	"github.com/AnTengye/mediconnect/discovery"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/AnTengye/mediconnect/service"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediconnect",
		Short:         "Doctor discovery and account forms API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd().RunE(cmd, args)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file (skipped when missing)")

	root.AddCommand(serveCmd(), doctorsCmd(), catalogCmd())
	return root
}

// loadConfig reads configPath and initializes logging to logOut (stdout when
// nil). A missing config file falls back to defaults and MEDICONNECT_*
// variables.
func loadConfig(logOut io.Writer) (*config.Config, error) {
	path := configPath
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, err
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})
	slog.Info("configuration loaded successfully", "file", path)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(nil)
			if err != nil {
				return err
			}
			if err := runServer(cfg); err != nil {
				slog.Error("server stopped", "error", err)
				return err
			}
			return nil
		},
	}
}

type doctorsOptions struct {
	criteria discovery.Criteria
	sort     string
	page     int
}

// doctors: run a search against the configured catalog and print one page
func doctorsCmd() *cobra.Command {
	opts := doctorsOptions{criteria: discovery.DefaultCriteria()}
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Search the doctor catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			locale, err := language.Parse(cfg.Discovery.Locale)
			if err != nil {
				return fmt.Errorf("invalid discovery locale %q: %w", cfg.Discovery.Locale, err)
			}
			src, err := service.NewCatalogSource(cfg, service.NewUpstreamClient(&cfg.Upstream))
			if err != nil {
				return err
			}
			providers, err := src.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load catalog from %s: %w", src.Name(), err)
			}

			opts.criteria.Sort = discovery.SortKey(opts.sort)
			sess := discovery.NewSession(cfg.Discovery.PageSize, discovery.WithLocale(locale))
			sess.SetCriteria(opts.criteria)
			res := sess.Run(providers)
			out := cmd.OutOrStdout()
			if opts.page != 1 {
				// Out of range pages leave the session where it is.
				if sess.GoTo(opts.page) {
					res = sess.Run(providers)
				} else {
					fmt.Fprintf(out, "Page %d is out of range 1-%d, showing page %d\n", opts.page, sess.TotalPages(), sess.Page())
				}
			}
			return printDoctors(out, res)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.criteria.Search, "query", "q", "", "match name, specialization, location or email")
	f.StringVar(&opts.criteria.Specialization, "specialization", "", "exact specialization")
	f.StringVar(&opts.criteria.Location, "location", "", "location substring")
	f.StringVar((*string)(&opts.criteria.RateBucket), "rate", "", "fee range: 0-100, 101-200, 201-300 or 301+")
	f.BoolVar(&opts.criteria.ApprovedOnly, "approved", true, "only approved doctors")
	f.StringVar(&opts.sort, "sort", string(discovery.SortName), "name, rate_low or rate_high")
	f.IntVar(&opts.page, "page", 1, "page number")
	return cmd
}

func printDoctors(out io.Writer, res discovery.Result) error {
	if res.Empty() {
		_, err := fmt.Fprintln(out, "No doctors found")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tLOCATION\tRATE")
	for _, p := range res.Items {
		rate := "-"
		if p.Rate.Valid() {
			rate = "$" + p.Rate.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.FullName(), p.Specialization, p.Location, rate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Page %d of %d (%d doctors)\n", res.Number, res.TotalPages, res.TotalItems)
	return err
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the doctor catalog snapshot",
	}
	cmd.AddCommand(catalogPublishCmd())
	return cmd
}

// catalog publish --file: upload a roster file as the MinIO catalog object
func catalogPublishCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a roster file to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return publishCatalog(cmd.Context(), cfg, file, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "roster file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func publishCatalog(ctx context.Context, cfg *config.Config, file string, out io.Writer) error {
	if cfg.Minio.Endpoint == "" || cfg.Minio.Bucket == "" {
		return errors.New("minio endpoint and bucket are required to publish")
	}
	providers, err := service.FileSource{Path: file}.Load(ctx)
	if err != nil {
		return err
	}

	dst, err := service.NewMinioSource(&cfg.Minio, cfg.Catalog.Object)
	if err != nil {
		return err
	}
	if err := dst.EnsureBucket(ctx); err != nil {
		return err
	}
	if err := dst.Publish(ctx, providers); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "published %d doctors to %s\n", len(providers), dst.ObjectURL())
	return err
}
