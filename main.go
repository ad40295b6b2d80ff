package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"deal-scanner/api"
	"deal-scanner/config"
	"deal-scanner/models"
	"deal-scanner/services"
	"deal-scanner/storage"
	"deal-scanner/utils"
)

func main() {
	configureJSON()
	logger := utils.NewLogger()
	cfg := config.Load()

	cliApp := &cli.App{
		Name:  "deal-scanner",
		Usage: "Find underpriced marketplace listings before they close",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:        "backend",
				Value:       cfg.MarketplaceBackend,
				Usage:       "Marketplace backend (finding, browser)",
				Destination: &cfg.MarketplaceBackend,
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(utils.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(cfg, logger),
			searchCommand(cfg, logger),
			alertsCommand(cfg, logger),
			trackCommand(cfg, logger),
			refreshCommand(cfg, logger),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// configureJSON makes prices encode as JSON numbers in API responses and
// cached comps. It must run before any component is wired.
func configureJSON() {
	decimal.MarshalJSONWithoutQuotes = true
}

// withApp wires the components, runs fn with a context cancelled on
// SIGINT/SIGTERM, and closes everything afterwards.
func withApp(cfg *config.Config, logger *utils.Logger, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, a)
}

func serveCommand(cfg *config.Config, logger *utils.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the background alert poller",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: cfg.HTTPAddr, Usage: "Listen address", Destination: &cfg.HTTPAddr},
		},
		Action: func(c *cli.Context) error {
			return withApp(cfg, logger, func(ctx context.Context, a *app) error {
				logger.Info("=== Deal scanner starting ===")
				logger.Info("Config: ratio %.2f | deal gate %d%% | poll every %v | window %v",
					cfg.UndervalueRatio, cfg.MinDealDiscount, cfg.CheckInterval, cfg.EndingSoonWindow)

				ctx, cancel := context.WithCancel(ctx)
				defer cancel()

				poller := services.NewPoller(a.aggregator, cfg.CheckInterval, logger)
				done := make(chan struct{})
				go func() {
					poller.Run(ctx)
					close(done)
				}()

				h := api.NewHandler(a.aggregator, a.alerts, a.tracker, a.store, logger)
				err := api.ListenAndServe(ctx, cfg.HTTPAddr, api.NewServer(h, logger), logger)
				cancel()
				<-done
				return err
			})
		},
	}
}

func searchCommand(cfg *config.Config, logger *utils.Logger) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for deals and print a report",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "max-price", Value: models.DefaultMaxPrice, Usage: "Price ceiling in USD"},
			&cli.Float64Flag{Name: "max-hours", Value: models.DefaultMaxTimeHours, Usage: "Only listings ending within this many hours"},
			&cli.BoolFlag{Name: "csv", Usage: "Also export the deals to CSV_OUTPUT_PATH"},
		},
		Action: func(c *cli.Context) error {
			q := models.DealQuery{
				Query:        c.Args().First(),
				MaxPrice:     decimal.NewFromFloat(c.Float64("max-price")),
				MaxTimeHours: c.Float64("max-hours"),
			}
			return withApp(cfg, logger, func(ctx context.Context, a *app) error {
				res, err := a.aggregator.SearchDeals(ctx, q)
				if err != nil {
					return err
				}

				report := services.NewReportService(logger)
				report.Print(os.Stdout, report.Generate(res))

				if w, ok := a.store.(storage.DealWriter); ok {
					if err := w.WriteDeals(res); err != nil {
						logger.Warn("Saving deals failed: %v", err)
					}
				}
				if c.Bool("csv") {
					return exportCSV(cfg.CSVOutputPath, res, logger)
				}
				return nil
			})
		},
	}
}

func exportCSV(path string, res models.DealResult, logger *utils.Logger) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteDeals(res); err != nil {
		return err
	}
	logger.Info("Deals saved to %s", path)
	return nil
}

func alertsCommand(cfg *config.Config, logger *utils.Logger) *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Run one ending-soon alert pass and list the alerts",
		Action: func(c *cli.Context) error {
			return withApp(cfg, logger, func(ctx context.Context, a *app) error {
				snap := a.aggregator.RunAlertPass(ctx)
				if snap.Failed {
					logger.Warn("Alert pass %s could not reach the marketplace", snap.PassID)
				}
				for _, al := range snap.Alerts {
					fmt.Printf("  $%-10s avg $%-10s %s\n    %s\n",
						al.Price.StringFixed(2), al.AvgSoldPrice.StringFixed(2), al.Title, al.URL)
				}
				fmt.Printf("\n  %d alert(s) at %s\n", len(snap.Alerts), snap.CompletedAt.Format("15:04:05"))
				return nil
			})
		},
	}
}

func trackCommand(cfg *config.Config, logger *utils.Logger) *cli.Command {
	return &cli.Command{
		Name:      "track",
		Usage:     "Start tracking a listing by item id",
		ArgsUsage: "<item-id>",
		Action: func(c *cli.Context) error {
			return withApp(cfg, logger, func(ctx context.Context, a *app) error {
				item, err := a.tracker.Track(ctx, c.Args().First())
				if err != nil {
					return err
				}
				fmt.Printf("  Tracking %s: %s at $%s\n", item.ID, item.Title, item.CurrentPrice.StringFixed(2))
				return nil
			})
		},
	}
}

func refreshCommand(cfg *config.Config, logger *utils.Logger) *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Refresh prices of all tracked listings",
		Action: func(c *cli.Context) error {
			return withApp(cfg, logger, func(ctx context.Context, a *app) error {
				n, err := a.tracker.Refresh(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("  Refreshed %d tracked item(s)\n", n)
				return nil
			})
		},
	}
}
