// Command ipqs queries IPQualityScore for an IP, email, phone number or URL
// and prints a short human summary, or the raw JSON with --json.
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

	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: ipqs <ip|email|phone|url> [flags] <target>

subcommands:
  ip     check an IP address
  email  check an email address
  phone  check a phone number (repeat --country for hints)
  url    scan a URL
`)
	os.Exit(2)
}

func main() {
	_ = godotenv.Load(".env.local", ".env")

	if len(os.Args) < 2 {
		usage()
	}
	sub := os.Args[1]

	flags := pflag.NewFlagSet("ipqs "+sub, pflag.ExitOnError)
	rawJSON := flags.Bool("json", false, "print the raw provider response")
	strictness := flags.Int("strictness", 0, "scoring strictness (0..3)")
	fast := flags.Bool("fast", false, "skip forced live lookups")
	timeout := flags.Duration("timeout", 20*time.Second, "request timeout")

	var countries []string
	var lineTypeDetect bool
	if sub == "phone" {
		flags.StringArrayVar(&countries, "country", nil, "ISO alpha-2 country hint (repeatable)")
		flags.BoolVar(&lineTypeDetect, "line-type-detect", true, "detect the line type")
	}

	if err := flags.Parse(os.Args[2:]); err != nil {
		log.Fatal(err)
	}
	if flags.NArg() != 1 {
		usage()
	}
	target := flags.Arg(0)

	apiKey := os.Getenv("IPQS_API_KEY")
	if apiKey == "" {
		log.Fatal("IPQS_API_KEY environment variable not set")
	}

	client := ipqs.New(ipqs.NewRetryingHTTPClient(*timeout, 4, nil), ipqs.Config{
		APIKey:  apiKey,
		Timeout: *timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	var data map[string]any
	var err error
	var summarize func(map[string]any) string

	switch sub {
	case "ip":
		data, err = client.IP(ctx, target, ipqs.IPOptions{
			Strictness:              *strictness,
			Fast:                    *fast,
			AllowPublicAccessPoints: true,
		})
		summarize = ipqs.SummarizeIP
	case "email":
		data, err = client.Email(ctx, target, ipqs.EmailOptions{
			Strictness:    *strictness,
			Fast:          *fast,
			LookupTimeout: 20,
		})
		summarize = ipqs.SummarizeEmail
	case "phone":
		data, err = client.Phone(ctx, target, ipqs.PhoneOptions{
			Countries:      countries,
			Strictness:     *strictness,
			Fast:           *fast,
			LineTypeDetect: lineTypeDetect,
		})
		summarize = ipqs.SummarizePhone
	case "url":
		data, err = client.URL(ctx, target, ipqs.URLOptions{
			Strictness: *strictness,
			Fast:       *fast,
		})
		summarize = ipqs.SummarizeURL
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("ipqs %s: %v", sub, err)
	}

	if *rawJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			log.Fatalf("encode response: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Println(summarize(data))
}
