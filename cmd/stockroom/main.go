package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockroom/internal/app"
	"github.com/andresuchdata/stockroom/internal/config"
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/ingest"
	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/pkg/logger"
)

type ctxKey string

const appKey ctxKey = "app"

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Stock sheet to load (.csv or .xlsx); the demo shop is used when empty",
		EnvVars: []string{"STOCKROOM_FILE"},
	}
}

// loadApp reads the stock sheet and stores the wired services in the
// command context.
func loadApp(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(c.String("log-level"))

	var opts []app.Option
	if path := c.String("file"); path != "" {
		products, skipped, err := readSheet(path)
		if err != nil {
			return err
		}
		if skipped > 0 {
			logger.Log.Warn().Int("skipped", skipped).Str("file", path).Msg("some rows could not be read")
		}
		opts = append(opts, app.WithProducts(products))
	} else {
		opts = append(opts, app.WithProducts(inventory.DemoProducts()))
	}

	application, err := app.New(c.Context, cfg, opts...)
	if err != nil {
		return err
	}

	c.Context = context.WithValue(c.Context, appKey, application)
	return nil
}

func appFrom(c *cli.Context) (*app.App, error) {
	application, ok := c.Context.Value(appKey).(*app.App)
	if !ok || application == nil {
		return nil, fmt.Errorf("services not initialised")
	}
	return application, nil
}

func main() {
	_ = godotenv.Load(".env")

	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "stockroom",
		Usage: "Merchandise planning for small independent shops",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "Print the shop pulse check, category breakdown and buying budget",
				Flags:  []cli.Flag{newFileFlag()},
				Before: loadApp,
				Action: runReport,
			},
			{
				Name:  "actions",
				Usage: "List this week's action items",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Only show one kind (clearance, restock, margin_review)",
					},
				},
				Before: loadApp,
				Action: runActions,
			},
			{
				Name:  "plan",
				Usage: "Print the open-to-buy plan per category",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.BoolFlag{
						Name:  "products",
						Usage: "Plan per product instead of per category",
					},
				},
				Before: loadApp,
				Action: runPlan,
			},
			{
				Name:  "advise",
				Usage: "Ask the mentor for a health check or coaching on every action",
				Flags: []cli.Flag{
					newFileFlag(),
					&cli.StringFlag{
						Name:  "topic",
						Usage: "summary or actions",
						Value: "summary",
					},
				},
				Before: loadApp,
				Action: runAdvise,
			},
			{
				Name:  "convert",
				Usage: "Convert a stock sheet between CSV and XLSX",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Usage: "Input file", Required: true},
					&cli.StringFlag{Name: "out", Usage: "Output file", Required: true},
				},
				Action: runConvert,
			},
			{
				Name:  "archives",
				Usage: "Work with archived exports in object storage",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List archived exports",
						Action: runArchivesList,
					},
					{
						Name:  "pull",
						Usage: "Download an archived export",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "key", Usage: "Object key to download", Required: true},
							&cli.StringFlag{Name: "out", Usage: "Destination file (defaults to the key's base name)"},
						},
						Action: runArchivesPull,
					},
				},
			},
		},
	}
}

func readSheet(path string) ([]domain.Product, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	batch, err := ingest.Read(ingest.DetectFormat(path, ""), file)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if batch.Products == nil {
		batch.Products = []domain.Product{}
	}
	return batch.Products, batch.Skipped, nil
}
