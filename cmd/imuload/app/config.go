package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

const programName = "imuload"

const (
	FormatPlain   OutputFormat = "plain"
	FormatLabeled OutputFormat = "labeled"
	FormatJSON    OutputFormat = "json"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"
)

// ErrUsage is returned when the command line cannot be used to run the tool
var ErrUsage = errors.New("invalid usage")

type OutputFormat string

type ImageFormat string

var validOutputFormats = map[OutputFormat]struct{}{
	FormatPlain:   {},
	FormatLabeled: {},
	FormatJSON:    {},
}

var imageExtensions = map[string]ImageFormat{
	".png":  ImagePNG,
	".jpg":  ImageJPEG,
	".jpeg": ImageJPEG,
}

// Config represents the tool configuration. It is read from an optional
// YAML file and then overridden by the flags given on the command line.
type Config struct {
	InputPath  string `yaml:"-"`
	ConfigPath string `yaml:"-"`
	ProfileDir string `yaml:"-"`

	Settings Settings     `yaml:"settings"`
	Loader   LoaderConfig `yaml:"loader"`
	Output   OutputConfig `yaml:"output"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// LoaderConfig controls how the input file is read
type LoaderConfig struct {
	HeaderLines int    `yaml:"headerLines"`
	Delimiter   string `yaml:"delimiter"`
}

// OutputConfig selects what is written and where
type OutputConfig struct {
	Format     OutputFormat `yaml:"format"`
	Summary    bool         `yaml:"summary"`
	ChartFile  string       `yaml:"chartFile"`
	PlotFile   string       `yaml:"plotFile"`
	PlotTheme  ColorTheme   `yaml:"plotTheme"`
	PlotWidth  int          `yaml:"plotWidth"`
	PlotHeight int          `yaml:"plotHeight"`
}

func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel: "info",
		},
		Loader: LoaderConfig{
			HeaderLines: imu.DefaultHeaderLines,
			Delimiter:   string(imu.DefaultDelimiter),
		},
		Output: OutputConfig{
			Format:    FormatPlain,
			PlotTheme: ClassicTheme,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config file '%s': %w", path, err)
	}
	c.ConfigPath = path
	return c, nil
}

func NewConfigFromCLI(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: %s [flags] <path_to_imu_csv>\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	defaults := NewConfig()

	var configPath, profileDir string
	var format, theme string
	o := defaults.Output
	l := defaults.Loader
	s := defaults.Settings
	fs.StringVar(&configPath, "c", "", "Path to the YAML configuration file")
	fs.StringVar(&format, "format", string(o.Format), "Output format. [plain, labeled, json]")
	fs.BoolVar(&o.Summary, "summary", o.Summary, "Print sample statistics after the data")
	fs.StringVar(&o.ChartFile, "chart", "", "Write an HTML chart of the data to this file")
	fs.StringVar(&o.PlotFile, "plot", "", "Render the data to this image file (.png, .jpg, .jpeg)")
	fs.StringVar(&theme, "theme", string(o.PlotTheme), "Plot color theme. [classic, thermal, marine, grayscale]")
	fs.IntVar(&o.PlotWidth, "plot-width", 0, "Plot panel width in pixels")
	fs.IntVar(&o.PlotHeight, "plot-height", 0, "Plot panel height in pixels")
	fs.IntVar(&l.HeaderLines, "header-lines", l.HeaderLines, "Number of leading lines to skip")
	fs.StringVar(&l.Delimiter, "delimiter", l.Delimiter, "Field delimiter")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level. [debug, info, warn, error]")
	fs.StringVar(&profileDir, "profile", "", "Write a CPU profile to this directory")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	c := defaults
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	c.ProfileDir = profileDir

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			c.Output.Format = OutputFormat(strings.ToLower(format))
		case "summary":
			c.Output.Summary = o.Summary
		case "chart":
			c.Output.ChartFile = o.ChartFile
		case "plot":
			c.Output.PlotFile = o.PlotFile
		case "theme":
			c.Output.PlotTheme = ColorTheme(strings.ToLower(theme))
		case "plot-width":
			c.Output.PlotWidth = o.PlotWidth
		case "plot-height":
			c.Output.PlotHeight = o.PlotHeight
		case "header-lines":
			c.Loader.HeaderLines = l.HeaderLines
		case "delimiter":
			c.Loader.Delimiter = l.Delimiter
		case "log-level":
			c.Settings.LogLevel = s.LogLevel
		}
	})

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected one IMU data file, got %d arguments", ErrUsage, fs.NArg())
	}
	c.InputPath = fs.Arg(0)

	if err := c.Validate(); err != nil {
		fs.Usage()
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input path is required")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Settings.LogLevel)
	}

	if c.Loader.HeaderLines < 0 {
		return fmt.Errorf("header lines cannot be negative: %d given", c.Loader.HeaderLines)
	}
	if utf8.RuneCountInString(c.Loader.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character: '%s' given", c.Loader.Delimiter)
	}

	if _, ok := validOutputFormats[c.Output.Format]; !ok {
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}

	if c.Output.PlotFile != "" {
		if _, err := imageFormat(c.Output.PlotFile); err != nil {
			return err
		}
	}
	if _, ok := colorThemes[c.Output.PlotTheme]; !ok {
		return fmt.Errorf("invalid plot theme: %s", c.Output.PlotTheme)
	}
	if c.Output.PlotWidth < 0 || c.Output.PlotHeight < 0 {
		return fmt.Errorf("plot size cannot be negative: %dx%d given", c.Output.PlotWidth, c.Output.PlotHeight)
	}

	return nil
}

// LogLevel returns the configured slog level, info if unset or invalid
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Delimiter returns the loader field separator
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.Loader.Delimiter)
	return r
}

func imageFormat(path string) (ImageFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := imageExtensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("invalid image format: '%s', expected .png, .jpg or .jpeg", ext)
}
