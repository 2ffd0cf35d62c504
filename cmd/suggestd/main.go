/*
Package main implements the suggestd command line interface.

suggestd loads a product catalog and an association-rule suggestion
artifact, builds an in-memory suggestion engine, and either answers a
single basket+query request or drops into an interactive shell.

# Data files

The product artifact is a tab-separated file of `name<TAB>lemma_pairs`
rows; the suggestion artifact is the ragged uint32 array format described
in the engine's rule package. Both paths come from config.toml, or can be
overridden with -products/-suggestions.

# Config

Runtime configuration is managed via a config.toml file, supporting engine
tuning (top-K, fuzzy match tolerance), artifact paths, and CLI defaults. A
default configuration is created automatically if one does not exist.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/basketwise/suggestengine/internal/cli"
	"github.com/basketwise/suggestengine/internal/logger"
	"github.com/basketwise/suggestengine/internal/utils"
	"github.com/basketwise/suggestengine/pkg/catalog"
	"github.com/basketwise/suggestengine/pkg/config"
	"github.com/basketwise/suggestengine/pkg/engine"
	"github.com/basketwise/suggestengine/pkg/lexicon"
	"github.com/basketwise/suggestengine/pkg/rule"
)

const (
	Version = "0.1.0-beta"
	AppName = "suggestd"
)

// sigHandler exits cleanly on SIGINT/SIGTERM.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main loads config and artifacts, builds the engine, and dispatches to
// either a single basket+query request or the interactive shell. main
// does not implement engine logic itself, only flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to custom config.toml file")
	productsPath := flag.String("products", defaultConfig.Catalog.ProductArtifactPath, "Path to the product artifact")
	suggestionsPath := flag.String("suggestions", defaultConfig.Catalog.SuggestionArtifactPath, "Path to the suggestion artifact")
	debugMode := flag.Bool("v", false, "Toggle verbose mode")
	shellMode := flag.Bool("c", false, "Run the interactive shell")
	basket := flag.String("basket", "", "Comma-separated basket item ids for a single-shot query")
	query := flag.String("query", "", "Query text for a single-shot request")
	topK := flag.Int("topk", defaultConfig.Engine.TopK, "Maximum number of suggestions to return")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	configPath := *configFile
	if configPath == "" {
		resolver, err := utils.NewPathResolver()
		if err != nil {
			log.Fatalf("Failed to resolve config directory: %v", err)
		}
		configPath, err = resolver.GetConfigPath("config.toml")
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		log.Debugf("config directory: %s", resolver.GetConfigDir())
	}
	log.Debugf("Using config file: %s", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *productsPath != defaultConfig.Catalog.ProductArtifactPath {
		appConfig.Catalog.ProductArtifactPath = *productsPath
	}
	if *suggestionsPath != defaultConfig.Catalog.SuggestionArtifactPath {
		appConfig.Catalog.SuggestionArtifactPath = *suggestionsPath
	}
	if *topK != defaultConfig.Engine.TopK {
		appConfig.Engine.TopK = *topK
	}

	eng, cat, err := buildEngine(appConfig)
	if err != nil {
		log.Fatalf("Failed to build suggestion engine: %v", err)
	}

	showStartupInfo(cat.Count())

	if *shellMode {
		log.SetReportTimestamp(false)
		repl := cli.NewRepl(eng, cat, appConfig.CLI.DefaultQueryPrompt, appConfig.CLI.DefaultBasketLimit)
		if err := repl.Start(); err != nil {
			log.Fatalf("shell error: %v", err)
		}
		return
	}

	runSingleShot(eng, *basket, *query)
}

// buildEngine loads both artifacts and constructs the engine, the way
// loading a dictionary precedes constructing a completer.
func buildEngine(appConfig *config.Config) (*engine.Engine, *catalog.Catalog, error) {
	productsPath := appConfig.Catalog.ProductArtifactPath
	if !utils.FileExists(productsPath) {
		return nil, nil, fmt.Errorf("product artifact not found: %s", utils.GetAbsolutePath(productsPath))
	}
	productsFile, err := os.Open(productsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening product artifact: %w", err)
	}
	defer productsFile.Close()

	cat, err := catalog.Load(productsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading product artifact: %w", err)
	}

	suggestionsPath := appConfig.Catalog.SuggestionArtifactPath
	if !utils.FileExists(suggestionsPath) {
		return nil, nil, fmt.Errorf("suggestion artifact not found: %s", utils.GetAbsolutePath(suggestionsPath))
	}
	suggestionsFile, err := os.Open(suggestionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening suggestion artifact: %w", err)
	}
	defer suggestionsFile.Close()

	suggestions, err := rule.LoadArtifact(suggestionsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading suggestion artifact: %w", err)
	}

	eng := engine.Build(cat, suggestions,
		engine.WithTopK(appConfig.Engine.TopK),
		engine.WithAutocompleteOptions(
			lexicon.WithFuzzyEditDistance(appConfig.Engine.FuzzyEditDistance),
			lexicon.WithMinFuzzyTermLength(appConfig.Engine.FuzzyMinTermLength),
			lexicon.WithMaxCandidates(appConfig.Engine.AutocompleteMaxCandidates),
		),
	)
	return eng, cat, nil
}

// runSingleShot answers one basket+query request and prints the ranked
// suggestions, for scripting and quick checks outside the shell.
func runSingleShot(eng *engine.Engine, basketFlag, query string) {
	var basket []uint32
	if basketFlag != "" {
		for _, tok := range strings.Split(basketFlag, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			var id uint32
			if _, err := fmt.Sscanf(tok, "%d", &id); err != nil {
				log.Errorf("invalid basket item %q: %v", tok, err)
				continue
			}
			basket = append(basket, id)
		}
	}

	results := eng.GetSuggestions(basket, query)
	if len(results) == 0 {
		log.Warn("no suggestions found")
		return
	}
	for i, res := range results {
		log.Printf("%2d. %-30s (lift: %5.2f, support: %.3f)", i+1, res.Name, res.Lift, res.Support)
	}
}

func printVersion() {
	banner := logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Printf("[%s] Market-basket suggestion engine", AppName)
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use --help to see available options")
	banner.Print("")
}

// showStartupInfo prints basic init info, the way the teacher's CLI
// banner reports dictionary size before serving requests.
func showStartupInfo(productCount int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" suggestd  ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("catalog size: %s products", utils.FormatWithCommas(productCount))
	log.Info("status: ready")
	println("===========")

	log.SetLevel(currentLevel)
}
