package main

import (
	"flag"
	"io"
)

// Flags holds the command-line options.
// Input selects one-shot mode: the analyze request is read from the named
// file ("-" for stdin) and the response printed to stdout.
type Flags struct {
	ConfigPath string
	Input      string
	Pretty     bool
}

func parseFlags(args []string, stderr io.Writer) (*Flags, error) {
	fs := flag.NewFlagSet("platform-carbon-estimator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to the YAML configuration file")
	fs.StringVar(&f.Input, "input", "", "Analyze the request in this file (- for stdin) and exit")
	fs.BoolVar(&f.Pretty, "pretty", false, "Indent one-shot JSON output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
