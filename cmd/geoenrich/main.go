// Command geoenrich resolves a domain and geolocates every address it
// points at via WhoisXML, printing the enrichment as JSON.
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

	"github.com/scamadvisory/verify-api/internal/business/enrich"
	"github.com/scamadvisory/verify-api/internal/platform/geoip"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")

	timeout := pflag.Duration("timeout", 15*time.Second, "per-request timeout")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: geoenrich [flags] <domain>\n")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	domain := pflag.Arg(0)

	apiKey := os.Getenv("WHOISXML_API_KEY")
	if apiKey == "" {
		log.Fatal("WHOISXML_API_KEY environment variable not set")
	}

	svc := enrich.NewService(geoip.New(nil, geoip.Config{
		APIKey:  apiKey,
		Timeout: *timeout,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	enrichment, err := svc.Enrich(ctx, domain)
	if err != nil {
		log.Fatalf("enrich %s: %v", domain, err)
	}

	out, err := json.MarshalIndent(enrichment, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))
}
