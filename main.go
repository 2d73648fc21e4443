package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"clinic-roster/formatter"
	"clinic-roster/metrics"
	"clinic-roster/models"
	"clinic-roster/parser"
	"clinic-roster/scheduler"
)

func main() {
	// Define flags
	configPath := flag.String("config", "", "Department configuration YAML (required)")
	leavePath := flag.String("leave", "", "Leave days CSV")
	inpatientPath := flag.String("inpatient", "", "Inpatient rotation starts CSV")
	siblingPath := flag.String("sibling", "", "Sibling department schedule CSV")
	startStr := flag.String("start", "", "Schedule start date, YYYY-MM-DD (required)")
	endStr := flag.String("end", "", "Schedule end date, YYYY-MM-DD (required)")
	format := flag.String("format", "text", "Output format: text|json|csv")
	search := flag.Bool("search", true, "Walk staffing thresholds down until feasible")
	minProviders := flag.Int("min-providers", 4, "Initial minimum providers per clinic session")
	seed := flag.Int64("seed", 42, "Solver seed for reproducible schedules")
	budget := flag.Duration("budget", 5*time.Minute, "Wall-time budget per solve attempt")
	verbose := flag.Bool("v", false, "Verbose logging")
	metricsAddr := flag.String("metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")

	// Parse command-line flags
	flag.Parse()

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			fmt.Printf("Metrics server listening on %s/metrics\n", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				fmt.Printf("Metrics server error: %v\n", err)
			}
		}()
	}

	if *configPath == "" || *startStr == "" || *endStr == "" {
		fmt.Println("Error: -config, -start and -end flags are required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	start, err := models.ParseDate(*startStr)
	if err != nil {
		fmt.Printf("Error parsing -start: %v\n", err)
		os.Exit(1)
	}
	end, err := models.ParseDate(*endStr)
	if err != nil {
		fmt.Printf("Error parsing -end: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	req := scheduler.Request{
		Config:              cfg,
		Start:               start,
		End:                 end,
		Search:              *search,
		InitialMinProviders: *minProviders,
		Seed:                *seed,
		SolveBudget:         *budget,
	}

	if *leavePath != "" {
		req.Leaves, err = loadLeave(*leavePath, cfg.Providers)
		if err != nil {
			fmt.Printf("Error parsing leave file: %v\n", err)
			os.Exit(1)
		}
	}
	if *inpatientPath != "" {
		req.Rotations, err = loadRotations(*inpatientPath, cfg.Providers)
		if err != nil {
			fmt.Printf("Error parsing inpatient file: %v\n", err)
			os.Exit(1)
		}
	}
	if *siblingPath != "" {
		req.Sibling, err = loadSibling(*siblingPath)
		if err != nil {
			// A missing sibling schedule degrades to an uncoupled run
			// rather than failing the whole department's roster.
			log.Warn("sibling schedule unavailable, continuing without coupling",
				zap.String("path", *siblingPath), zap.Error(err))
			req.Sibling = nil
		}
	}

	result, err := scheduler.NewEngine(log).Generate(req)
	if err != nil {
		fmt.Printf("Error generating schedule: %v\n", err)
		os.Exit(1)
	}

	// Output based on format
	switch *format {
	case "json":
		fmt.Print(formatter.FormatJSON(result))
	case "csv":
		fmt.Print(formatter.FormatCSV(result))
	default: // "text"
		fmt.Print(formatter.FormatText(result))
	}

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		jobName := "clinic_roster"
		if err := push.New(*pushGateway, jobName).Gatherer(metrics.Registry).Push(); err != nil {
			fmt.Fprintf(os.Stderr, "Error pushing to Pushgateway: %v\n", err)
		} else {
			fmt.Println("\nMetrics successfully pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		// Wait for interrupt signal
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}

	if !result.Report.Solved() {
		os.Exit(2)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func loadConfig(path string) (models.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Config{}, err
	}
	defer f.Close()
	return parser.LoadConfig(f)
}

func loadLeave(path string, providers map[string]models.Provider) ([]models.LeaveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseLeave(f, providers)
}

func loadRotations(path string, providers map[string]models.Provider) ([]models.Rotation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseRotations(f, providers)
}

func loadSibling(path string) (*models.SiblingSchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseSibling(f)
}
