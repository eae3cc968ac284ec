// Command xssfilter sanitizes HTML read from files or standard input and
// writes the result to standard output.
//
// Usage:
//
//	xssfilter [-whitelist file.yaml] [-permit tag=attr,attr]... [-no-default] [file ...]
//
// Settings not given as flags are read from XSSFILTER_* environment
// variables and an optional .env file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/njchilds90/xssfilter"
	"github.com/njchilds90/xssfilter/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// permitFlag collects repeated -permit values of the form tag=attr,attr.
type permitFlag []string

func (p *permitFlag) String() string { return strings.Join(*p, " ") }

func (p *permitFlag) Set(v string) error {
	tag, _, _ := strings.Cut(v, "=")
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("permit %q: empty tag name", v)
	}
	*p = append(*p, v)
	return nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xssfilter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		permits   permitFlag
		whitelist = fs.String("whitelist", "", "YAML whitelist `file` (overrides XSSFILTER_WHITELIST_FILE)")
		noDefault = fs.Bool("no-default", false, "do not register the default whitelist")
		envFile   = fs.String("env", ".env", "optional .env `file` to read settings from")
	)
	fs.Var(&permits, "permit", "permit a tag and its attributes, as `tag=attr,attr` (repeatable)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "xssfilter: %v\n", err)
		return 1
	}
	if *whitelist != "" {
		cfg.WhitelistFile = *whitelist
	}
	if *noDefault {
		cfg.DefaultWhitelist = false
	}

	logger := cfg.Logger(stderr)
	s, err := newSanitizer(cfg, permits, logger)
	if err != nil {
		logger.Error("building whitelist", slog.Any("error", err))
		return 1
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		if err := sanitizeFile(s, name, stdin, stdout); err != nil {
			logger.Error("sanitizing input", slog.String("input", name), slog.Any("error", err))
			return 1
		}
	}
	return 0
}

// newSanitizer builds the whitelist in order: the default preset, then
// the whitelist file, then -permit flags, each overriding what came
// before for the tags it names.
func newSanitizer(cfg config.Config, permits []string, logger *slog.Logger) (*xssfilter.Sanitizer, error) {
	opts := []xssfilter.Option{xssfilter.WithLogger(logger)}

	if len(cfg.AllowedSchemes) > 0 {
		opts = append(opts, xssfilter.WithValueFilter(xssfilter.SchemeFilter(cfg.AllowedSchemes...)))
	}

	s := xssfilter.New(opts...)
	if cfg.DefaultWhitelist {
		s.LoadDefaultWhitelist()
	}
	if cfg.WhitelistFile != "" {
		wl, err := xssfilter.LoadWhitelistFile(cfg.WhitelistFile)
		if err != nil {
			return nil, err
		}
		for _, tag := range wl.Tags() {
			s.Permit(tag, wl.Attributes(tag)...)
		}
	}
	for _, p := range permits {
		tag, attrs, _ := strings.Cut(p, "=")
		s.Permit(strings.TrimSpace(tag), splitList(attrs)...)
	}

	logger.Debug("whitelist ready", slog.Any("tags", s.Whitelist().Tags()))
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func sanitizeFile(s *xssfilter.Sanitizer, name string, stdin io.Reader, w io.Writer) error {
	if name == "-" {
		return s.SanitizeReader(stdin, w)
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.SanitizeReader(f, w)
}
