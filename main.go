package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"bookmap/internal/auth"
	"bookmap/internal/config"
	"bookmap/internal/database"
	"bookmap/internal/geo"
	"bookmap/internal/ocr"
	"bookmap/internal/router"
	"bookmap/internal/util"

	"github.com/joho/godotenv"
)

func main() {
	hashFlag := flag.String("hash", "", "print the bcrypt hash of the given admin password and exit")
	configFlag := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if *hashFlag != "" {
		hash, err := util.HashPassword(*hashFlag)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// .env is optional; real env vars win either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(cfg.Uploads.Dir); err != nil {
		log.Fatalf("create uploads dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations and seed the book catalog
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if err := database.SeedBooks(db, cfg.Books); err != nil {
		log.Fatalf("seed books: %v", err)
	}

	// the gazetteer is built up front; a broken dataset fails startup
	gazetteer, err := geo.NewGazetteer()
	if err != nil {
		log.Fatalf("load gazetteer: %v", err)
	}

	var remote geo.RemoteGeocoder
	if cfg.Geocoder.Enabled {
		remote = geo.NewNominatimClient(cfg.Geocoder)
	}
	resolver := geo.NewResolver(db, gazetteer, remote)

	limiter := auth.NewLoginLimiter(cfg.Admin.MaxLoginAttempts,
		time.Duration(cfg.Admin.CooldownMinutes)*time.Minute)
	sessions := auth.NewSessionManager(db, cfg.Admin, limiter)

	var extractor ocr.Extractor = ocr.NoopExtractor{}
	if _, err := exec.LookPath("tesseract"); err == nil {
		extractor = &ocr.TesseractExtractor{}
	} else {
		log.Printf("tesseract not found, screenshot OCR disabled")
	}

	r := router.SetupRouter(cfg, db, gazetteer, resolver, sessions, extractor)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
