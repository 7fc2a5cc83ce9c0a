package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/pkg/client"
)

const (
	envRelayURL = "RELAY_URL"
	envAPIKey   = "ROBLOX_API_KEY"

	defaultRelayURL = "http://localhost:10000"
)

type globalOptions struct {
	relayURL string
	apiKey   string
	timeout  time.Duration
	output   string
	verbose  bool
}

func addGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVar(&o.relayURL, "url", defaultRelayURL, "Relay base URL (env "+envRelayURL+")")
	fs.StringVar(&o.apiKey, "api-key", "", "Open Cloud API key sent as x-api-key (env "+envAPIKey+")")
	fs.DurationVar(&o.timeout, "timeout", client.DefaultHTTPTimeout, "Request timeout")
	fs.StringVarP(&o.output, "output", "o", "text", "Output format (text|json)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
}

// resolve fills unset flags from the environment. Flags win over env.
func (o *globalOptions) resolve(fs *pflag.FlagSet) {
	if !fs.Changed("url") {
		if v := os.Getenv(envRelayURL); v != "" {
			o.relayURL = v
		}
	}
	if !fs.Changed("api-key") {
		o.apiKey = os.Getenv(envAPIKey)
	}
}

func (o *globalOptions) client() (*client.Client, error) {
	return client.NewClient(o.relayURL, o.apiKey, &http.Client{Timeout: o.timeout})
}

type optionsKey struct{}

func withOptions(ctx context.Context, o *globalOptions) context.Context {
	return context.WithValue(ctx, optionsKey{}, o)
}

func optionsFrom(cmd *cobra.Command) *globalOptions {
	if o, ok := cmd.Context().Value(optionsKey{}).(*globalOptions); ok {
		return o
	}
	return &globalOptions{relayURL: defaultRelayURL, timeout: client.DefaultHTTPTimeout, output: "text"}
}

// readWorkspace reads a workspace document from path, or stdin for "-".
func readWorkspace(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// printResult writes v as indented JSON in json mode, or calls text otherwise.
func printResult(cmd *cobra.Command, o *globalOptions, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	switch o.output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		text(out)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}
