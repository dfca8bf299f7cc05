// Command zoo-report prints the plain text report of a section and can
// store it in the configured export bucket or print a stored one back.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gartstein/zoo/internal/zoo/config"
	"github.com/gartstein/zoo/internal/zoo/controller"
	"github.com/gartstein/zoo/internal/zoo/db"
	"github.com/gartstein/zoo/internal/zoo/export"
	"github.com/gartstein/zoo/internal/zoo/models"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $ZOO_CONFIG or config.yaml)")
	sectionName := flag.String("section", string(models.SectionAnimals), "section to report: animals, employees, enclosures, feeding, health or all")
	upload := flag.Bool("upload", false, "store the report in the export store")
	fetchKey := flag.String("fetch", "", "print a stored report by its export key instead of generating one")
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "zoo-report:", err)
		os.Exit(2)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zoo-report:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fetchKey != "" {
		if err := fetch(ctx, cfg, *fetchKey); err != nil {
			logger.Error("fetch failed", zap.String("key", *fetchKey), zap.Error(err))
			stop()
			os.Exit(1)
		}
		return
	}

	sections, err := parseSections(*sectionName)
	if err != nil {
		logger.Fatal("invalid section", zap.Error(err))
	}

	if err := run(ctx, cfg, sections, *upload, logger); err != nil {
		logger.Error("report failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func parseSections(name string) ([]models.Section, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return models.Sections, nil
	}
	section, err := models.ParseSection(name)
	if err != nil {
		return nil, err
	}
	return []models.Section{section}, nil
}

func run(ctx context.Context, cfg *config.Config, sections []models.Section, upload bool, logger *zap.Logger) error {
	repo, err := db.Connect(ctx, cfg.DB(logger))
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	store := controller.FromDB(repo)
	services := controller.NewServices(controller.Dependencies{Repo: store, Logger: logger})
	catalog := controller.NewCatalog(services, store, cfg.Placeholder, logger)

	var blobs export.Store
	if upload {
		if blobs, err = export.Open(ctx, cfg.Export); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, section := range sections {
		body, err := catalog.Report(ctx, section)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.WriteString(body); err != nil {
			return err
		}
		if blobs == nil {
			continue
		}
		info, err := blobs.Put(ctx, export.ReportKey(section, now), strings.NewReader(body), "text/plain; charset=utf-8")
		if err != nil {
			return fmt.Errorf("upload %s report: %w", section, err)
		}
		logger.Info("report stored",
			zap.String("section", string(section)),
			zap.String("location", info.Location),
			zap.Int64("size", info.Size),
		)
	}
	return nil
}

// fetch copies a stored report to stdout.
func fetch(ctx context.Context, cfg *config.Config, key string) error {
	blobs, err := export.Open(ctx, cfg.Export)
	if err != nil {
		return err
	}
	body, err := blobs.Get(ctx, key)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	_, err = io.Copy(os.Stdout, body)
	return err
}
