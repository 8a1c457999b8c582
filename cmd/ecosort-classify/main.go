package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/ecosort/internal/config"
	"github.com/mikey/ecosort/internal/core"
	"github.com/mikey/ecosort/internal/factory"
	"github.com/mikey/ecosort/internal/history"
	"github.com/mikey/ecosort/internal/imaging"
	"github.com/mikey/ecosort/internal/logging"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "gemini", "LLM provider (gemini, openai, bedrock)")
	maxTokens   = flag.Int("max-tokens", 1000, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-flash-latest", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	// Classification flags
	dirty        = flag.Bool("dirty", false, "Mark the item(s) as dirty/food-soiled")
	imageFile    = flag.String("image", "", "Classify an image file instead of text items")
	maxDimension = flag.Int("max-dimension", 640, "Maximum image edge in pixels")
	jpegQuality  = flag.Int("jpeg-quality", 85, "JPEG quality for normalized images")

	// Input flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Initialize the oracle client
	llmFactory := factory.NewLLMFactory(cfg, logger)
	classifier, err := llmFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create oracle client", zap.Error(err))
	}

	ctx := context.Background()
	log := history.NewLog()

	if *imageFile != "" {
		classifyImageFile(ctx, classifier, log, logger)
	} else {
		classifyTextItems(ctx, classifier, log, logger)
	}

	printSummary(log)

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close oracle client", zap.Error(err))
		}
	}
}

// classifyImageFile classifies a single image from disk
func classifyImageFile(ctx context.Context, classifier core.Classifier, log *history.Log, logger *zap.Logger) {
	blob, err := os.ReadFile(*imageFile)
	if err != nil {
		logger.Fatal("Failed to read image file", zap.Error(err), zap.String("file", *imageFile))
	}

	normalizer := imaging.NewNormalizer(*maxDimension, *jpegQuality, logger)
	normalized, err := normalizer.Normalize(blob)
	if err != nil {
		logger.Fatal("Failed to normalize image", zap.Error(err))
	}

	logger.Info("Image normalized",
		zap.Int("width", normalized.Width),
		zap.Int("height", normalized.Height),
		zap.Int("bytes", len(normalized.Data)))

	startTime := time.Now()
	result, err := classifier.Classify(ctx, core.ImageSubject(normalized.Data, normalized.MimeType), *dirty)
	if err != nil {
		logger.Fatal("Classification failed", zap.Error(err))
	}

	printResult(result, time.Since(startTime))
	log.Append(*result)
}

// classifyTextItems classifies items from arguments, or stdin lines when
// none are given
func classifyTextItems(ctx context.Context, classifier core.Classifier, log *history.Log, logger *zap.Logger) {
	items := flag.Args()
	if len(items) == 0 {
		logger.Info("Reading items from stdin, one per line")
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if item := strings.TrimSpace(scanner.Text()); item != "" {
				items = append(items, item)
			}
		}
		if err := scanner.Err(); err != nil {
			logger.Fatal("Failed to read stdin", zap.Error(err))
		}
	}

	if len(items) == 0 {
		logger.Fatal("No items to classify")
	}

	for _, item := range items {
		startTime := time.Now()
		result, err := classifier.Classify(ctx, core.TextSubject(item), *dirty)
		if err != nil {
			logger.Error("Classification failed", zap.Error(err), zap.String("item", item))
			continue
		}

		// The oracle sometimes omits echoing the item for text input
		if result.ItemDetected == "" {
			result.ItemDetected = item
		}

		printResult(result, time.Since(startTime))
		log.Append(*result)
	}
}

func printResult(result *core.ClassificationResult, duration time.Duration) {
	fmt.Printf("\n=== %s ===\n", result.ItemDetected)
	fmt.Printf("Category: %s\n", result.Category)
	fmt.Printf("Reason: %s\n", result.Reason)
	fmt.Printf("Eco fact: %s\n", result.EcoFact)
	if result.ContaminationWarning != "" {
		fmt.Printf("Contamination warning: %s\n", result.ContaminationWarning)
	}
	if result.WishcyclingAlert != "" {
		fmt.Printf("Wishcycling alert: %s\n", result.WishcyclingAlert)
	}
	if result.Disclaimer != "" {
		fmt.Printf("Disclaimer: %s\n", result.Disclaimer)
	}
	fmt.Printf("CO2 saved: %.3f kg\n", result.CO2SavedKg)
	fmt.Printf("Processing time: %v\n", duration)
}

func printSummary(log *history.Log) {
	summary := log.Summary()
	if summary.TotalItems == 0 {
		return
	}

	fmt.Printf("\n=== Session Summary ===\n")
	fmt.Printf("Items sorted: %d\n", summary.TotalItems)
	fmt.Printf("CO2 saved: %.2f kg\n", summary.CO2SavedKg)
	fmt.Printf("Eco score: %d / 100\n", summary.EcoScore)
	for category, count := range summary.CategoryCount {
		fmt.Printf("  %s: %d\n", category, count)
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	}

	return config.NewFromViper(v)
}
