// Smoke check for the email validation provider. Sends a handful of known
// addresses through the live API and reports what came back, so a key or
// endpoint problem is caught before a deploy.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/scamadvisory/verify-api/internal/platform/emailcheck"
)

var samples = []string{
	"phil@your.it",
	"postmaster@gmail.com",
	"nobody@thisdomaindoesnotexist.invalid",
}

func main() {
	_ = godotenv.Load(".env.local", ".env")

	apiKey := os.Getenv("EMAILCHECK_API_KEY")
	if apiKey == "" {
		log.Fatal("EMAILCHECK_API_KEY environment variable not set")
	}

	client := emailcheck.New(nil, emailcheck.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("EMAILCHECK_BASE_URL"),
	})

	ctx := context.Background()

	fmt.Println("=== Email Validation API Check ===")
	fmt.Printf("Testing %d sample addresses\n\n", len(samples))

	okCount := 0
	failCount := 0

	for i, email := range samples {
		fmt.Printf("--- Sample %d: %s ---\n", i+1, email)

		result := client.Validate(ctx, email)
		if !result.OK() {
			fmt.Printf("FAILURE: %s\n\n", result.Error)
			failCount++
			continue
		}

		fmt.Printf("OK, %d fields returned\n", len(result.Body))
		for _, key := range []string{"status", "format_valid", "mx_found", "smtp_check", "disposable"} {
			if v, present := result.Body[key]; present {
				fmt.Printf("  %s: %v\n", key, v)
			}
		}
		fmt.Println()
		okCount++

		// Small delay to avoid rate limiting
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Results: %d success, %d failed\n", okCount, failCount)

	if okCount == 0 {
		os.Exit(1)
	}
}
