// Seed script for creating demo facts in Verdict.
// Run with: go run ./scripts/seed.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/embedding"
	"github.com/verdict-ai/verdict/internal/index"
	"github.com/verdict-ai/verdict/internal/store"
)

func main() {
	// Load environment
	envFile := os.Getenv("VERDICT_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	factPath := os.Getenv("FACT_FILE")
	if factPath == "" {
		factPath = "data/facts.json"
	}

	ctx := context.Background()
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// The seeder only needs the durable file; the server rebuilds its own
	// index from it on startup.
	facts, err := store.OpenFactFile(ctx, factPath, index.NewMemory(embedding.NewMockClient()), logger)
	if err != nil {
		log.Fatalf("Failed to open fact file: %v", err)
	}

	seeds := []domain.Fact{
		{
			ID:          "fact_memory_write",
			Description: "storing personal information for later recall",
			Intent:      "memory_write",
			Confidence:  0.9,
			Category:    "memory",
			Examples:    []string{"remember that my name is Sam", "note that I live in Berlin"},
			Tags:        []string{"memory", "write"},
		},
		{
			ID:          "fact_memory_read",
			Description: "retrieving previously stored personal information",
			Intent:      "memory_read",
			Confidence:  0.9,
			Category:    "memory",
			Examples:    []string{"what is my name", "where do I live"},
			Tags:        []string{"memory", "read"},
		},
		{
			ID:          "fact_calculator",
			Description: "performing arithmetic or solving a math problem",
			Intent:      "calculator",
			Confidence:  0.8,
			Category:    "tools",
			Examples:    []string{"what is 17 times 23", "compute the square root of 90"},
			Tags:        []string{"math"},
		},
		{
			ID:          "fact_web_search",
			Description: "looking up current information on the public web",
			Intent:      "web_search",
			Confidence:  0.8,
			Category:    "tools",
			Examples:    []string{"what is the weather in Tokyo", "latest news about the election"},
			Tags:        []string{"search"},
		},
		{
			ID:          "fact_device_control",
			Description: "controlling a smart home device",
			Intent:      "device_control",
			Confidence:  0.85,
			Category:    "home",
			Examples:    []string{"turn off the lights", "set the thermostat to 21 degrees"},
			Tags:        []string{"home", "iot"},
		},
	}

	created := 0
	for i := range seeds {
		f := seeds[i]
		if err := facts.Add(ctx, &f); err != nil {
			fmt.Printf("Skipping %s: %v\n", f.ID, err)
			continue
		}
		created++
		fmt.Printf("Created fact %s (%s)\n", f.ID, f.Intent)
	}

	fmt.Printf("\nSeeded %d facts into %s\n", created, factPath)
}
