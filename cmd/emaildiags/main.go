// Command emaildiags runs the full domain diagnostic for an email address:
// WHOIS age, TLS posture, geolocation, blocklists and reputation, scored
// into a single risk figure. Reputation providers are optional and used
// only when their keys are set.
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

	"github.com/scamadvisory/verify-api/internal/business/diagnostics"
	"github.com/scamadvisory/verify-api/internal/platform/abuseipdb"
	"github.com/scamadvisory/verify-api/internal/platform/ipapi"
	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")

	verbose := pflag.BoolP("verbose", "v", false, "include the full DNS record set and raw WHOIS")
	timeout := pflag.Duration("timeout", 90*time.Second, "overall run timeout")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: emaildiags [flags] <email>\n")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	email := pflag.Arg(0)

	geo := ipapi.New(nil, ipapi.Config{})
	abuse := abuseipdb.New(nil, abuseipdb.Config{APIKey: os.Getenv("ABUSEIPDB_KEY")})
	ipqsClient := ipqs.New(nil, ipqs.Config{APIKey: os.Getenv("IPQS_API_KEY")})

	svc := diagnostics.NewService(geo, abuse, ipqsClient)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := svc.Run(ctx, email, *verbose)
	if err != nil {
		log.Fatalf("diagnostics: %v", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("encode report: %v", err)
	}
	fmt.Println(string(out))

	fmt.Fprintf(os.Stderr, "\nRisk: %d (%s)\n", report.RiskScore, report.RiskLabel)
}
