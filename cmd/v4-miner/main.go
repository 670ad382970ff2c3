package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/screa/v4-address-miner/internal/config"
	logpkg "github.com/screa/v4-address-miner/internal/logger"
	minerpkg "github.com/screa/v4-address-miner/pkg/miner"
	"github.com/screa/v4-address-miner/pkg/types"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "v4-miner",
		Short: "Uniswap v4 address challenge salt miner",
		Long: `Mines CREATE2 deployment salts for the Uniswap v4 address challenge.
Each candidate address is scored against the challenge rules (leading zeros,
runs of 4s) and every new best is printed as it is found.`,
		Run: runMiner,
	}

	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", 0, "Number of worker goroutines (0 = one per CPU)")
	rootCmd.Flags().StringVarP(&cfg.Deployer, "deployer", "d", cfg.Deployer, "CREATE2 deployer address (hex)")
	rootCmd.Flags().StringVarP(&cfg.InitCodeHash, "init-code-hash", "c", cfg.InitCodeHash, "keccak256 hash of the contract init code (hex)")
	rootCmd.Flags().StringVarP(&cfg.InitCode, "init-code", "C", "", "Raw contract init code (hex); hashed locally if set")
	rootCmd.Flags().StringVarP(&cfg.InitCodeFile, "init-code-file", "F", "", "File containing contract init code (hex); hashed locally if set")
	rootCmd.Flags().StringVarP(&cfg.Submitter, "submitter", "s", cfg.Submitter, "Submitter address embedded in every salt (hex)")
	rootCmd.Flags().Int64VarP(&cfg.Limit, "limit", "n", 0, "Stop after this many attempts (0 = run until interrupted)")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output with periodic progress")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Log file for progress tracking (default: stdout)")
	rootCmd.Flags().IntVarP(&cfg.LogInterval, "log-interval", "i", 5, "Progress logging interval in seconds")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMiner(cmd *cobra.Command, args []string) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	setupLogging()

	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Printf("Running with %d workers", cfg.Workers)
	logger.Debugf("Deployer: %s", cfg.Deployer)
	logger.Debugf("Submitter: %s", cfg.Submitter)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	resultChan := make(chan *types.Result, 1)
	go func() {
		resultChan <- miner.Mine()
	}()

	select {
	case result := <-resultChan:
		// Attempt limit reached
		reportResult(result)
	case <-sigChan:
		logger.Println("\nReceived interrupt signal. Stopping workers...")
		miner.Stop()
		result := <-resultChan
		reportResult(result)
	}
}

func reportResult(result *types.Result) {
	if result == nil {
		logger.Println("No qualifying address found.")
		return
	}

	logger.Printf("Best address: %s", result.Address.Hex())
	logger.Printf("Score: %d", result.Score)
	logger.Printf("Salt: 0x%x", result.Salt[:])
	logger.Printf("Attempts: %d", result.Attempts)
	logger.Printf("Duration: %v", result.Duration)

	rate := 0.0
	if result.Duration.Seconds() > 0 {
		rate = float64(result.Attempts) / result.Duration.Seconds()
	}
	logger.Printf("Rate: %.2f hashes/sec", rate)
}

func setupLogging() {
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		logger = logpkg.NewWriter(file)
		logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	} else {
		logger = logpkg.New()
	}
	logger.SetVerbose(cfg.Verbose)
}
