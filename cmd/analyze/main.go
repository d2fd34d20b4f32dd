// One-shot contract analysis from the command line. Reads a plain-text
// contract file, runs the full pipeline against Gemini, and prints the
// report as JSON. No database required.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"contractguard-backend/service"

	"github.com/joho/godotenv"
)

func main() {
	filePath := flag.String("file", "", "path to a plain-text contract file")
	modelName := flag.String("model", "", "Gemini model name (default: gemini-2.0-flash)")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: analyze -file contract.txt [-model gemini-2.0-flash]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	contractText, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read contract file: %v", err)
	}

	ctx := context.Background()
	invoker, err := service.NewGeminiInvoker(ctx, apiKey, *modelName)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}
	defer invoker.Close()

	analyzer := service.NewAnalyzerService(service.WithModelInvoker(invoker))

	report, err := analyzer.Analyze(ctx, string(contractText))
	if err != nil {
		var validationErr *service.ValidationError
		var upstreamErr *service.UpstreamError
		switch {
		case errors.As(err, &validationErr):
			log.Fatalf("Model returned invalid data: %v", err)
		case errors.As(err, &upstreamErr):
			log.Fatalf("Upstream failure: %v", err)
		default:
			log.Fatalf("Analysis failed: %v", err)
		}
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}

	fmt.Println(string(output))
}
