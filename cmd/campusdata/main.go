package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pevans/campusdata/archive"
	"github.com/pevans/campusdata/config"
	"github.com/pevans/campusdata/fetch"
	"github.com/pevans/campusdata/runner"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	configPath := getEnv("CAMPUSDATA_CONFIG", "campusdata.yaml")

	switch os.Args[1] {
	case "run":
		handleRun(configPath, os.Args[2:])
	case "jobs":
		handleJobs(configPath)
	case "runs":
		handleRuns(configPath)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig(configPath string) *config.File {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func handleRun(configPath string, args []string) {
	cfg := loadConfig(configPath)

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var store *archive.Store
	if cfg.Archive != "" {
		var err error
		store, err = archive.NewStore(cfg.Archive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open run archive: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	r := runner.New(fetch.NewClient(0), store, cfg.OutputDir, log)

	// With a job name, run just that job; otherwise run the whole batch.
	if len(args) > 0 {
		job, ok := cfg.Find(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no job named %q in %s\n", args[0], configPath)
			os.Exit(1)
		}
		if _, err := r.Run(*job); err != nil {
			log.Error().Err(err).Msg("job failed")
			os.Exit(1)
		}
		return
	}

	if err := r.RunAll(cfg.Jobs); err != nil {
		log.Error().Err(err).Msg("batch finished with failures")
		os.Exit(1)
	}
}

func handleJobs(configPath string) {
	cfg := loadConfig(configPath)

	for _, job := range cfg.Jobs {
		source := job.URL
		if source == "" {
			source = job.Path
		}
		fmt.Printf("%-24s %-10s %s\n", job.Name, job.Kind, source)
	}
}

func handleRuns(configPath string) {
	cfg := loadConfig(configPath)

	if cfg.Archive == "" {
		fmt.Fprintln(os.Stderr, "Error: config has no archive configured")
		os.Exit(1)
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open run archive: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	for _, run := range runs {
		fmt.Printf("%s  %-24s %-10s %4d records  %s\n",
			run.ScrapedAt.Format("2006-01-02 15:04"), run.Job, run.Kind, run.Records, run.ArtifactPath)
	}
}

func printUsage() {
	fmt.Println("campusdata - university page and PDF scraping toolkit")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  campusdata <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run [job]      Run all configured scrape jobs, or just the named one")
	fmt.Println("  jobs           List the jobs defined in the config file")
	fmt.Println("  runs           List recorded scrape runs from the archive")
	fmt.Println("  help           Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  CAMPUSDATA_CONFIG   Path to the job config file (default: campusdata.yaml)")
}
