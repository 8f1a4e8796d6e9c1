package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/autom8ter/tabkit"
	"github.com/autom8ter/tabkit/errors"
	transport "github.com/autom8ter/tabkit/transport/http"
	"github.com/autom8ter/tabkit/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type serveConfig struct {
	Port         int           `validate:"gte=1,lte=65535"`
	Dir          string        `validate:"required"`
	LiveDebounce time.Duration `validate:"gte=0"`
}

func serveCmd(logger loggerFunc) *cobra.Command {
	var cfg serveConfig
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve every json/yaml collection in a directory over http",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := util.ValidateStruct(cfg); err != nil {
				return err
			}
			lgger, err := logger()
			if err != nil {
				return err
			}
			ds, err := loadDir(cfg.Dir)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, ds, cfg, lgger)
		},
	}
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", 8080, "port to serve on")
	cmd.Flags().StringVarP(&cfg.Dir, "dir", "d", ".", "directory of *.json/*.yaml collections (file name = collection name)")
	cmd.Flags().DurationVar(&cfg.LiveDebounce, "live-debounce", 300*time.Millisecond, "how long live connections wait for input to settle")
	return cmd
}

// loadDir loads each json or yaml file in dir as a collection named after the file
func loadDir(dir string) (*tabkit.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to read data directory")
	}
	ds := tabkit.NewDataset()
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || !lo.Contains([]string{".json", ".yaml", ".yml"}, ext) {
			continue
		}
		bits, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if err := ds.Load(strings.TrimSuffix(entry.Name(), ext), bits); err != nil {
			return nil, errors.Wrap(err, 0, "failed to load %s", entry.Name())
		}
	}
	return ds, nil
}

func serve(ctx context.Context, ds *tabkit.Dataset, cfg serveConfig, logger tabkit.Logger) error {
	server := &http.Server{
		Addr: fmt.Sprintf(":%v", cfg.Port),
		Handler: transport.Handler(ds, transport.Config{
			Processor:    tabkit.NewProcessor(tabkit.WithLogger(logger)),
			Logger:       logger,
			LiveDebounce: cfg.LiveDebounce,
		}),
	}
	egp, ctx := errgroup.WithContext(ctx)
	egp.Go(func() error {
		logger.Info(ctx, "starting http server", map[string]any{
			"port":        cfg.Port,
			"collections": ds.Names(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	egp.Go(func() error {
		<-ctx.Done()
		logger.Info(context.Background(), "shutting down http server", map[string]any{})
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return egp.Wait()
}
