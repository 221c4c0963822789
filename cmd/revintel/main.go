package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"revintel/internal/config"
	"revintel/internal/intel"
	"revintel/internal/logging"
	"revintel/internal/retrieval"
	"revintel/internal/types"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Gather flags
	businessType    string
	challenge       string
	stack           string
	investmentLevel string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "revintel",
	Short: "revintel - revenue intelligence gathering for consulting reports",
	Long: `revintel assembles the intelligence package behind an AI-readiness
consulting report: recommended tools, implementation patterns, industry
benchmarks, cost analysis, and market trends for a client's segment.

Every category of data is gathered independently; when live retrieval is
degraded or unavailable, curated fallback intelligence keeps the report
complete.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// gatherCmd runs one full intelligence gather and prints the package as JSON.
var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Gather the intelligence package for one assessment",
	Long: `Runs the full gathering pipeline for a client assessment and prints
the resulting intelligence package as JSON.

Example:
  revintel gather \
    --business-type "digital marketing agency" \
    --challenge "manual lead qualification eats our senior staff's time" \
    --stack "HubSpot, Slack, Asana" \
    --investment "Quick Win"`,
	RunE: runGather,
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage revintel configuration",
}

func runGather(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var retriever retrieval.Client
	if cfg.Retrieval.BaseURL != "" {
		logger.Info("using hosted retrieval backend", zap.String("url", cfg.Retrieval.BaseURL))
		retriever = retrieval.NewHTTPClient(cfg.Retrieval.BaseURL, cfg.Retrieval.APIKey, cfg.RetrievalTimeout())
	} else {
		logger.Info("no retrieval backend configured, using static provider")
		retriever = retrieval.NewStaticProvider()
	}

	gatherer := intel.NewGatherer(retriever).
		WithPolicy(cfg.GatherPolicy()).
		WithAdoptionEstimator(intel.NewRandomAdoptionEstimator(cfg.Gather.AdoptionSeed))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pkg := gatherer.GatherForReport(ctx, types.AssessmentContext{
		BusinessType:     businessType,
		RevenueChallenge: challenge,
		SolutionStack:    stack,
		InvestmentLevel:  investmentLevel,
	})

	logger.Info("gather complete",
		zap.String("report_id", pkg.Metadata.ReportID),
		zap.String("icp", string(pkg.Metadata.ICP)),
		zap.Float64("quality", pkg.Metadata.QualityScore),
		zap.Bool("fallback", pkg.Metadata.UsingFallback),
	)

	out, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode package: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(workspace, ".revintel", "config.yaml")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default {workspace}/.revintel/config.yaml)")

	gatherCmd.Flags().StringVar(&businessType, "business-type", "", "Client's business description")
	gatherCmd.Flags().StringVar(&challenge, "challenge", "", "Revenue challenge in the client's words")
	gatherCmd.Flags().StringVar(&stack, "stack", "", "Comma-separated current tool stack")
	gatherCmd.Flags().StringVar(&investmentLevel, "investment", "", "Investment level (Quick Win, Transformation, Enterprise)")
	_ = gatherCmd.MarkFlagRequired("business-type")
	_ = gatherCmd.MarkFlagRequired("challenge")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
