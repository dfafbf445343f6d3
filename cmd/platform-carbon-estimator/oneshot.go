package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rshade/platform-carbon-estimator/internal/api"
)

// runOnce analyzes the request read from input ("-" for stdin) and writes
// the JSON response to out.
func runOnce(service *api.Service, input string, pretty bool, stdin io.Reader, out io.Writer) error {
	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}

	var req api.AnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}

	resp, err := service.Analyze(req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

func readInput(input string, stdin io.Reader) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}
