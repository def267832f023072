package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"podinsights/internal/chat"
	"podinsights/internal/dataset"
	"podinsights/internal/filter"
	"podinsights/internal/util"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	FilePath     string
	UseStdin     bool
	Follow       bool
	NoBuiltin    bool
	Format       string
	Theme        Theme
	Sort         filter.SortOption
	ReplyDelay   time.Duration
	Months       []string
	ExportFormat string
	ExportOut    string
	ShowVersion  bool

	// Internal
	IsPipedStdin bool
}

// Load parses os.Args.
func Load() (*Config, error) {
	piped := false
	if fi, err := os.Stdin.Stat(); err == nil {
		piped = (fi.Mode() & os.ModeCharDevice) == 0
	}
	return LoadArgs(os.Args[1:], piped, os.Stderr)
}

// LoadArgs parses args; piped reports whether stdin is not a terminal.
func LoadArgs(args []string, piped bool, errOut io.Writer) (*Config, error) {
	cfg := &Config{IsPipedStdin: piped}

	fs := flag.NewFlagSet("podinsights", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&cfg.FilePath, "file", "", "path to a topics file (.yaml document or NDJSON)")
	fs.BoolVar(&cfg.Follow, "follow", false, "follow the NDJSON file and add new topics as they are written")
	fs.BoolVar(&cfg.UseStdin, "stdin", false, "read NDJSON topics from stdin (default: auto if piped)")
	fs.BoolVar(&cfg.NoBuiltin, "no-builtin", false, "skip the embedded topic collection")
	fs.StringVar(&cfg.Format, "format", "", "record format for line input: json|yaml (default: auto)")
	theme := getenvDefault("PODINSIGHTS_THEME", string(ThemeDark))
	fs.StringVar(&theme, "theme", theme, "theme: dark|light")
	sortOpt := string(filter.SortScore)
	fs.StringVar(&sortOpt, "sort", sortOpt, "initial sort: score|alphabetical|alphabeticalReverse")
	delayMS := getenvDefaultInt("PODINSIGHTS_REPLY_DELAY_MS", int(chat.DefaultDelay/time.Millisecond))
	fs.DurationVar(&cfg.ReplyDelay, "reply-delay", time.Duration(delayMS)*time.Millisecond, "simulated assistant typing delay")
	months := strings.Join(dataset.MonthOrder, ",")
	fs.StringVar(&months, "months", months, "comma-separated month order used for assignment and grouping")
	fs.StringVar(&cfg.ExportFormat, "export", "", "export the default view and exit: csv|json")
	fs.StringVar(&cfg.ExportOut, "out", "", "output path for export")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Theme = Theme(strings.ToLower(theme))
	if cfg.Theme != ThemeDark && cfg.Theme != ThemeLight {
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	cfg.Sort = filter.SortOption(sortOpt)
	if !cfg.Sort.Valid() {
		return nil, fmt.Errorf("unknown sort %q", sortOpt)
	}
	if cfg.ReplyDelay < 0 {
		return nil, errors.New("--reply-delay must not be negative")
	}
	cfg.Months = util.SplitList(months)
	if len(cfg.Months) == 0 {
		return nil, errors.New("--months needs at least one month")
	}

	if cfg.ExportFormat != "" && cfg.ExportOut == "" {
		return nil, errors.New("--export requires --out path")
	}
	if cfg.Follow && cfg.FilePath == "" {
		return nil, errors.New("--follow requires --file")
	}

	// Determine input source defaults
	if cfg.UseStdin || (cfg.IsPipedStdin && cfg.FilePath == "") {
		cfg.UseStdin = true
	}
	if cfg.NoBuiltin && cfg.FilePath == "" && !cfg.UseStdin {
		return nil, errors.New("--no-builtin needs --file or --stdin")
	}

	return cfg, nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("file=%s stdin=%v follow=%v builtin=%v theme=%s sort=%s reply-delay=%s",
		c.FilePath, c.UseStdin, c.Follow, !c.NoBuiltin, c.Theme, c.Sort, c.ReplyDelay)
}
