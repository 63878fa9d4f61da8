package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/profile"

	forecastdash "github.com/maslow-group/forecastdash"
	"github.com/maslow-group/forecastdash/report"
	"github.com/maslow-group/forecastdash/sales"
)

func usage() {
	fmt.Println("usage: forecastdash [options]")
	flag.PrintDefaults()
}

var (
	serve      = flag.Bool("serve", false, "run the dashboard HTTP server")
	addr       = flag.String("addr", "", "listen address, overrides FORECASTDASH_ADDR")
	brand      = flag.String("brand", "maslow", "restaurant profile key")
	horizon    = flag.Int("horizon", forecastdash.DefaultHorizon, "forecast horizon in days")
	confidence = flag.Float64("confidence", 0.95, "confidence level for the statistical strategy")
	strategy   = flag.String("strategy", "statistical", "forecast strategy: statistical or heuristic")
	dataFile   = flag.String("file", "", "historical sales file (csv or xlsx); sample data when empty")
	seed       = flag.Uint64("seed", 42, "random seed for sample data and the heuristic strategy")
	outDir     = flag.String("out", ".", "output directory for one-shot reports")
	cpuProfile = flag.Bool("cpuprofile", false, "write a CPU profile for the run")
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment variables directly")
	}

	flag.Usage = usage
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	req := forecastdash.NewDefaultRequest()
	req.ProfileKey = *brand
	req.Horizon = *horizon
	req.Confidence = *confidence
	req.Strategy = forecastdash.StrategyKind(*strategy)
	req.Seed = *seed

	if *dataFile != "" {
		series, err := loadFile(*dataFile)
		if err != nil {
			log.Fatalf("loading %s: %v", *dataFile, err)
		}
		req.Source = forecastdash.SourceUpload
		req.Upload = series
	}

	if *serve {
		listenAddr := *addr
		if listenAddr == "" {
			listenAddr = os.Getenv("FORECASTDASH_ADDR")
		}
		if listenAddr == "" {
			listenAddr = ":8080"
		}
		if err := runServer(listenAddr, req); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := oneShot(req, *outDir); err != nil {
		log.Fatal(err)
	}
}

func loadFile(path string) (*sales.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".xlsx", ".xlsm":
		return sales.LoadXLSX(f)
	default:
		return sales.LoadCSV(f)
	}
}

// oneShot renders once and writes the dashboard page and forecast
// workbook to disk.
func oneShot(req forecastdash.Request, dir string) error {
	snap, err := forecastdash.New(nil).Render(req)
	if err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}
	for _, w := range snap.Warnings {
		log.Printf("warning: %s: %s", w.Section, w.Message)
	}

	htmlPath := filepath.Join(dir, req.ProfileKey+"_dashboard.html")
	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		return err
	}
	defer htmlFile.Close()
	if err := snap.WritePage(htmlFile); err != nil {
		return fmt.Errorf("writing dashboard page: %w", err)
	}

	xlsxPath := filepath.Join(dir, report.Filename(req.ProfileKey, snap.GeneratedAt))
	xlsxFile, err := os.Create(xlsxPath)
	if err != nil {
		return err
	}
	defer xlsxFile.Close()
	if err := report.WriteXLSX(xlsxFile, snap); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	log.Printf("wrote %s and %s (horizon %s)", htmlPath, xlsxPath, strconv.Itoa(snap.Request.Horizon)+"d")
	return nil
}
