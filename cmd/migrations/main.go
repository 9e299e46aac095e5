package main

import (
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/suomisf/suomisf/pkg/config"
	"github.com/suomisf/suomisf/pkg/database"
	"github.com/suomisf/suomisf/pkg/migrations"
	"github.com/suomisf/suomisf/pkg/testutils"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}
	defer db.Close()

	migrator := migrate.NewMigrator(db, migrations.Migrations)

	app := &cli.App{
		Name:  "migrations",
		Usage: "manage the catalog database schema",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the migration bookkeeping tables",
				Action: func(c *cli.Context) error {
					return errors.WithStack(migrator.Init(c.Context))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}
					if group.IsZero() {
						log.Info("no new migrations to run")
						return nil
					}
					log.Info("migrated", logger.Data{"group": group.String()})
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					if group.IsZero() {
						log.Info("no groups to roll back")
						return nil
					}
					log.Info("rolled back", logger.Data{"group": group.String()})
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create a Go migration",
				ArgsUsage: "<words of the name>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("migration name is required")
					}
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return errors.WithStack(err)
					}
					log.Info("created migration", logger.Data{"name": mf.Name, "path": mf.Path})
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print the applied and pending migrations",
				Action: func(c *cli.Context) error {
					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					tw := table.NewWriter()
					tw.SetOutputMirror(os.Stdout)
					tw.SetStyle(table.StyleLight)
					tw.AppendHeader(table.Row{"Migration", "Group", "Applied at"})
					for _, m := range ms {
						applied := "pending"
						if m.IsApplied() {
							applied = m.MigratedAt.Format("2006-01-02 15:04:05")
						}
						tw.AppendRow(table.Row{m.Name, m.GroupID, applied})
					}
					tw.AppendFooter(table.Row{"unapplied", len(ms.Unapplied()), ""})
					tw.Render()
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "migrate and load the fixture catalog into an empty database",
				Action: func(c *cli.Context) error {
					if cfg.IsProduction() {
						return errors.New("refusing to seed a production database")
					}
					if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
						return err
					}
					f, err := testutils.SeedCatalog(c.Context, db)
					if err != nil {
						return err
					}
					log.Info("fixture catalog seeded", logger.Data{"admin_id": f.AdminID, "user_id": f.UserID})
					return nil
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("migrations failed")
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
