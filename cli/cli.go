// Package cli provides the configuration shared by the bot commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tliron/commonlog"

	"go.creack.net/botasm/op"
	"go.creack.net/botasm/store"

	_ "github.com/tliron/commonlog/simple"
)

// Environment.
const (
	EnvFile      = ".env"
	EnvConfig    = "BOTASM_CONFIG"
	EnvVerbosity = "BOTASM_VERBOSITY"

	DefaultConfigFile = "botasm.toml"
)

// Config is the merged configuration: flags override the environment,
// which overrides the config file.
type Config struct {
	Output    string `toml:"output"`
	Format    string `toml:"format"`
	Name      string `toml:"name"`
	Verbosity int    `toml:"verbosity"`
	LogFile   string `toml:"log_file"`
	Table     bool   `toml:"table"`
	Pretty    bool   `toml:"pretty"`

	Paths []string `toml:"-"`
}

// Program is a program given on the command line.
type Program struct {
	PathName  string
	ShortName string
	Format    store.Format
	Name      string // Stored name, ShortName when the format has none.
	Data      []byte

	Prog *op.Program
}

// LoadEnv loads the .env file of the working directory, if any.
// Variables already set are kept.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %q: %w", path, err)
	}
	return nil
}

// LoadFile decodes the config file into cfg. A missing file is not an error.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse error in %s: %w", path, err)
	}
	return nil
}

func defaults() Config {
	return Config{Format: string(store.FormatBin)}
}

// parse merges the config file, the environment and the flags.
func parse(fset *flag.FlagSet, args []string) (Config, error) {
	if err := LoadEnv(EnvFile); err != nil {
		return Config{}, err
	}

	cfg := defaults()
	configFile := DefaultConfigFile
	if v := os.Getenv(EnvConfig); v != "" {
		configFile = v
	}
	if err := LoadFile(configFile, &cfg); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvVerbosity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %q", EnvVerbosity, v)
		}
		cfg.Verbosity = n
	}

	// The merged values are the flag defaults.
	fset.StringVar(&cfg.Output, "o", cfg.Output, "output file, default to <input> with the format extension")
	fset.StringVar(&cfg.Format, "format", cfg.Format, "output format: bin, json, cbor or text")
	fset.StringVar(&cfg.Name, "name", cfg.Name, "program name, default to the input file name")
	fset.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "log verbosity, 0 is quiet")
	fset.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file, default to stderr")
	fset.BoolVar(&cfg.Table, "table", cfg.Table, "print the disassembly as a table")
	fset.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "pretty print, do not output compiled file")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Paths = fset.Args()

	if _, err := store.ParseFormat(cfg.Format); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// shortName strips the directory and the extension.
func shortName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func loadPrograms(paths []string) ([]*Program, error) {
	programs := make([]*Program, 0, len(paths))
	for _, path := range paths {
		f, err := store.FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		p := &Program{PathName: path, ShortName: shortName(path), Format: f}

		data, err := os.ReadFile(p.PathName)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", p.PathName, err)
		}
		p.Data = data

		name, prog, err := store.Decode(f, data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", p.PathName, err)
		}
		if name == "" {
			name = p.ShortName
		}
		p.Name, p.Prog = name, prog
		programs = append(programs, p)
	}
	return programs, nil
}

// ParseConfig parses the command line of the named command and loads the
// programs it lists.
func ParseConfig(cmd string, args []string, usage string) (Config, []*Program, error) {
	fset := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "usage: %s %s [options]\n", cmd, usage)
		fset.PrintDefaults()
	}
	cfg, err := parse(fset, args)
	if err != nil {
		return Config{}, nil, fmt.Errorf("parse: %w", err)
	}
	if len(cfg.Paths) == 0 {
		fset.Usage()
		return Config{}, nil, fmt.Errorf("no program provided")
	}
	programs, err := loadPrograms(cfg.Paths)
	if err != nil {
		return Config{}, nil, fmt.Errorf("load programs: %w", err)
	}
	return cfg, programs, nil
}

// ConfigureLogging sets up commonlog from the config.
func ConfigureLogging(cfg Config) {
	var path *string
	if cfg.LogFile != "" {
		path = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbosity, path)
}

// Progress counts the programs a command got through.
type Progress struct {
	Verb  string
	Done  int
	Total int
}

// Summary is logged when the command exits, including on failure.
func (p *Progress) Summary() string {
	return fmt.Sprintf("%d/%d programs %s", p.Done, p.Total, p.Verb)
}

// OutputPath returns where to write the program in the configured format.
func (cfg Config) OutputPath(p *Program) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	return strings.TrimSuffix(p.PathName, filepath.Ext(p.PathName)) + store.Format(cfg.Format).Ext()
}
