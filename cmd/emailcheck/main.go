// Command emailcheck validates a single email address against the provider
// and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/scamadvisory/verify-api/internal/platform/emailcheck"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")

	key := pflag.String("key", "", "provider API key (defaults to EMAILCHECK_API_KEY)")
	baseURL := pflag.String("base-url", "", "override the provider endpoint")
	timeout := pflag.Duration("timeout", 10*time.Second, "request timeout")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: emailcheck [flags] <email>\n")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	email := pflag.Arg(0)

	apiKey := *key
	if apiKey == "" {
		apiKey = os.Getenv("EMAILCHECK_API_KEY")
	}
	if apiKey == "" {
		log.Fatal("no API key: pass --key or set EMAILCHECK_API_KEY")
	}

	client := emailcheck.New(nil, emailcheck.Config{
		APIKey:  apiKey,
		BaseURL: *baseURL,
		Timeout: *timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	result := client.Validate(ctx, email)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))

	if !result.OK() {
		os.Exit(1)
	}
}
