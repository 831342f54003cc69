package main

import (
	"flag"
	"strings"

	"erp-backend/internal/config"
	"erp-backend/internal/database"
	"erp-backend/internal/ingest"
	"erp-backend/internal/logger"
)

// Offline one-shot: scrape the Furukawa public catalogue pages and seed
// material rows from them. Prices arrive later (manual edit or the xlsx
// price-list import); scraped rows start at zero.
func main() {
	var (
		urls   = flag.String("urls", strings.Join(ingest.DefaultCatalogURLs, ","), "comma separated catalogue page urls")
		dryRun = flag.Bool("dry-run", false, "list what would be written without touching the database")
	)
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pages := make([]string, 0)
	for _, u := range strings.Split(*urls, ",") {
		if u = strings.TrimSpace(u); u != "" {
			pages = append(pages, u)
		}
	}

	items, errs := ingest.FetchCatalogItems(pages)
	for _, err := range errs {
		log.Warn("catalogue page skipped", "err", err)
	}
	if len(items) == 0 {
		log.Fatal("no items extracted from catalogue pages")
	}
	log.Info("catalogue scraped", "items", len(items), "pages", len(pages))

	if *dryRun {
		for _, it := range items {
			log.Info("would seed", "sku", it.SKU, "name", it.Name)
		}
		return
	}

	database.Init(cfg, log)

	created, updated, err := ingest.SeedMaterials(database.DB, items)
	if err != nil {
		log.Fatal("seeding failed, nothing written", "err", err)
	}

	log.Info("catalogue seeded", "created", created, "updated", updated)
}
