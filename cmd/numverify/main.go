// Command numverify validates a phone number against either numverify
// endpoint generation: the legacy apilayer.net query-key API or the modern
// api.apilayer.com header-key API.
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

	"github.com/scamadvisory/verify-api/internal/platform/numverify"
	"github.com/scamadvisory/verify-api/pkg/model"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")

	legacy := pflag.Bool("legacy", false, "use the legacy apilayer.net endpoint")
	modern := pflag.Bool("modern", false, "use the modern api.apilayer.com endpoint")
	countryCode := pflag.String("country-code", "", "ISO alpha-2 hint for national-format numbers")
	pretty := pflag.Bool("pretty", false, "indent the JSON output")
	timeout := pflag.Duration("timeout", 15*time.Second, "request timeout")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: numverify [--legacy|--modern] [flags] <number>\n")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if *legacy && *modern {
		log.Fatal("pick one of --legacy or --modern")
	}
	number := pflag.Arg(0)

	client := numverify.New(nil, numverify.Config{
		AccessKey: os.Getenv("NUMVERIFY_ACCESS_KEY"),
		APIKey:    os.Getenv("NUMVERIFY_API_KEY"),
		Timeout:   *timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()

	var validation model.PhoneValidation
	var err error
	if *legacy {
		validation, err = client.ValidateLegacy(ctx, number, *countryCode)
	} else {
		// Modern is the default; it is the generation apilayer still sells.
		validation, err = client.ValidateModern(ctx, number, *countryCode)
	}
	if err != nil {
		log.Fatalf("numverify: %v", err)
	}

	var out []byte
	if *pretty {
		out, err = json.MarshalIndent(validation, "", "  ")
	} else {
		out, err = json.Marshal(validation)
	}
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(out))

	if info, failed := numverify.ProviderErrorInfo(validation.Data); failed {
		log.Fatalf("provider error: %s", info)
	}
}
