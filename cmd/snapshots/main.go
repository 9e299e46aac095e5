package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/migrations"
	"github.com/suomisf/suomisf/pkg/server"
	"github.com/suomisf/suomisf/pkg/snapshot"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()
	cfg := config.NewForTest()

	app := &cli.App{
		Name:  "snapshots",
		Usage: "capture and check API response snapshots against the fixture catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "snapshot directory",
				Value: cfg.SnapshotDir,
			},
			&cli.StringFlag{
				Name:  "results",
				Usage: "timing results directory",
				Value: "testdata/results",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "rewrite every snapshot",
				Action: func(c *cli.Context) error {
					return run(c, cfg, log, true)
				},
			},
			{
				Name:  "check",
				Usage: "compare responses with the stored snapshots",
				Action: func(c *cli.Context) error {
					return run(c, cfg, log, false)
				},
			},
			{
				Name:  "list",
				Usage: "list the pinned endpoints",
				Action: func(c *cli.Context) error {
					db, f, _, err := newCatalog(c.Context, cfg)
					if err != nil {
						return err
					}
					defer db.Close()
					for _, ep := range snapshot.DefaultEndpoints(f) {
						fmt.Printf("%-6s %-45s %s\n", ep.Method, ep.Path, ep.Name)
					}
					return nil
				},
			},
			{
				Name:  "times",
				Usage: "compare the latest run's timings with the previous run",
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "regression threshold in percent",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "include unchanged tests",
					},
				},
				Action: func(c *cli.Context) error {
					dir := c.String("results")
					current, err := snapshot.LoadReport(filepath.Join(dir, snapshot.LatestResultsFile))
					if err != nil {
						return err
					}
					baseline, err := snapshot.PreviousReport(dir)
					if err != nil {
						return err
					}
					deltas := snapshot.CompareReports(baseline, current, c.Float64("threshold"))
					fmt.Println(summary("Baseline", baseline))
					fmt.Println(summary("Current ", current))
					fmt.Println(renderDeltas(deltas, c.Bool("all")))
					for _, d := range deltas {
						if d.Kind == snapshot.DeltaRegression {
							return cli.Exit("", 1)
						}
					}
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

// newCatalog seeds a fresh in-memory catalog and serves it in-process.
func newCatalog(ctx context.Context, cfg *config.Config) (*bun.DB, *testutils.Fixture, *echo.Echo, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := migrations.BringUpToDate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	f, err := testutils.SeedCatalog(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	e, err := server.NewEcho(cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return db, f, e, nil
}

// run records or checks every default endpoint.
func run(c *cli.Context, cfg *config.Config, log logger.Logger, update bool) error {
	db, f, e, err := newCatalog(c.Context, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runID := snapshot.NewRunID()
	h := &snapshot.Harness{
		Handler:   e,
		Store:     &snapshot.Store{Dir: c.String("dir")},
		Endpoints: snapshot.DefaultEndpoints(f),
		Update:    update,
		Timings:   snapshot.NewTimings(runID, time.Now()),
		RunID:     runID,
	}

	failed := 0
	for _, ep := range h.Endpoints {
		mismatches, err := h.Step(ep)
		if err != nil {
			failed++
			log.Err(err).Error("snapshot failed", logger.Data{"name": ep.Name})
			continue
		}
		for _, m := range mismatches {
			log.Warn("snapshot mismatch", logger.Data{"name": ep.Name, "mismatch": m.String()})
		}
		if len(mismatches) > 0 {
			failed++
		}
	}

	if err := h.Timings.Write(c.String("results")); err != nil {
		return err
	}
	log.Info("snapshots done", logger.Data{
		"run_id":  runID,
		"update":  update,
		"total":   len(h.Endpoints),
		"failed":  failed,
		"elapsed": h.Timings.Report().TotalDurationMS,
	})
	if failed > 0 {
		return errors.Errorf("%d of %d snapshots failed", failed, len(h.Endpoints))
	}
	return nil
}
