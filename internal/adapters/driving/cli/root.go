// Package cli provides the cobra command tree for the loan assistant.
// The root command wires adapters to core services; subcommands only
// talk to the driving ports.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/config/file"
	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/llm/watsonx"
	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/shiro-FFFFFF/loan-assistant/internal/chunker"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/services"
	"github.com/shiro-FFFFFF/loan-assistant/internal/extractors"
	"github.com/shiro-FFFFFF/loan-assistant/internal/extractors/image"
	"github.com/shiro-FFFFFF/loan-assistant/internal/extractors/pdf"
	"github.com/shiro-FFFFFF/loan-assistant/internal/extractors/plaintext"
	"github.com/shiro-FFFFFF/loan-assistant/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagVerbose   bool
	flagSession   string
	flagDataDir   string
	flagConfigDir string
)

// Wired services, initialised by initServices before commands run.
var (
	store            *sqlite.Store
	docStore         driven.DocumentStore
	configStore      driven.ConfigStore
	chatModel        driven.ChatModel
	ingestService    driving.Ingestor
	retrieveService  driving.Retriever
	assistantService driving.Assistant
	librarian        driving.Librarian
)

var rootCmd = &cobra.Command{
	Use:   "loan-assistant",
	Short: "Loan document assistant with keyword retrieval",
	Long: `loan-assistant ingests loan documents (text, images and rasterised
PDFs), splits them into searchable chunks, and answers questions about
them using keyword retrieval over your uploads and the reference library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&flagSession, "session", "s", "default", "session scope for uploads and questions")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "database directory (default ~/.loan-assistant/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.loan-assistant)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeServices()
		os.Exit(1)
	}
}

// initServices wires the adapter stack into the core services.
// Safe to call more than once; subsequent calls rewire from scratch.
func initServices() error {
	cfg, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cfg

	store, err = sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	docStore = store.DocumentStore()

	chunkerOpts := []chunker.Option{}
	if size := cfg.GetInt(file.KeyChunkSize); size > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.GetInt(file.KeyChunkOverlap); overlap > 0 {
		chunkerOpts = append(chunkerOpts, chunker.WithOverlap(overlap))
	}
	textChunker, err := chunker.New(chunkerOpts...)
	if err != nil {
		return fmt.Errorf("configure chunker: %w", err)
	}

	chatModel = nil
	var visionModel driven.VisionModel
	if client := newWatsonxClient(cfg); client != nil {
		chatModel = client
		visionModel = client
	}

	registry := extractors.NewRegistry(
		plaintext.New(),
		image.New(visionModel),
		pdf.New(visionModel),
	)

	ingestService = services.NewIngestService(registry, textChunker, docStore)
	retriever := services.NewRetrievalService(docStore)
	retrieveService = retriever

	assistant := services.NewAssistantService(retriever, chatModel)
	assistant.SetRetrieveOptions(retrieveOptionsFromConfig(cfg))
	assistantService = assistant

	librarian = services.NewLibraryService(ingestService)

	return nil
}

// newWatsonxClient builds the hosted model client when credentials are
// present. The API key comes from the environment only; endpoints and
// model selection come from config.
func newWatsonxClient(cfg driven.ConfigStore) *watsonx.Client {
	apiKey := os.Getenv("WATSONX_API_KEY")
	projectID := os.Getenv("WATSONX_PROJECT_ID")
	if projectID == "" {
		projectID = cfg.GetString(file.KeyWatsonxProjectID)
	}
	if apiKey == "" || projectID == "" {
		logger.Info("watsonx credentials not set, chat and OCR disabled")
		return nil
	}

	client, err := watsonx.NewClient(watsonx.Config{
		APIKey:    apiKey,
		ProjectID: projectID,
		BaseURL:   cfg.GetString(file.KeyWatsonxURL),
		Model:     cfg.GetString(file.KeyWatsonxModel),
		Timeout:   2 * time.Minute,
	})
	if err != nil {
		logger.Warn("watsonx client unavailable: %v", err)
		return nil
	}
	return client
}

// retrieveOptionsFromConfig reads the retrieval tuning knobs.
func retrieveOptionsFromConfig(cfg driven.ConfigStore) domain.RetrieveOptions {
	return domain.RetrieveOptions{
		TopK:     cfg.GetInt(file.KeyTopK),
		MinScore: cfg.GetInt(file.KeyMinScore),
	}
}

// sessionScope resolves the session flag into a scope value.
// An explicitly empty session means the global scope.
func sessionScope() domain.SessionContext {
	return domain.SessionContext{ID: flagSession}
}

// closeServices releases adapter resources.
func closeServices() {
	if chatModel != nil {
		_ = chatModel.Close()
		chatModel = nil
	}
	if store != nil {
		_ = store.Close()
		store = nil
	}
}
