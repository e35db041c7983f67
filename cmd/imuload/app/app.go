package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

// Process exit statuses
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitFileOpen   = 3
	ExitParse      = 4
	ExitEmptyData  = 5
	ExitMisaligned = 6
)

// ExitCode maps an error returned by NewConfigFromCLI or Run to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, imu.ErrFileOpen):
		return ExitFileOpen
	case errors.Is(err, imu.ErrParse), errors.Is(err, imu.ErrTimestampRange):
		return ExitParse
	case errors.Is(err, imu.ErrEmptyData):
		return ExitEmptyData
	case errors.Is(err, imu.ErrMisaligned):
		return ExitMisaligned
	default:
		return ExitFailure
	}
}

func Run(ctx context.Context, config *Config, logger *slog.Logger, stdout io.Writer) error {
	reporter, err := NewReporter(config.Output.Format)
	if err != nil {
		return err
	}

	logger.Info("loading IMU data", slog.String("path", config.InputPath))

	series, err := imu.LoadFile(ctx, config.InputPath,
		imu.WithLogger(logger),
		imu.WithHeaderLines(config.Loader.HeaderLines),
		imu.WithDelimiter(config.Delimiter()))
	if err != nil {
		return fmt.Errorf("failed to load IMU data: %w", err)
	}

	logger.Info("loaded IMU data",
		slog.Int("samples", series.Len()),
		slog.String("duration", humanize.SIWithDigits(series.Duration(), 3, "s")))

	var summary *Summary
	if config.Output.Summary {
		summary = NewSummary(series, fileSize(config.InputPath))
	}

	if err = reporter.Write(stdout, series, summary); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if config.Output.ChartFile != "" {
		if err = writeChart(config.Output.ChartFile, series); err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		logger.Info("chart saved", slog.String("destination", config.Output.ChartFile))
	}

	if config.Output.PlotFile != "" {
		if err = renderPlot(config, series, logger); err != nil {
			return fmt.Errorf("rendering plot: %w", err)
		}
	}

	return nil
}

func renderPlot(config *Config, series *imu.Series, logger *slog.Logger) error {
	renderer, err := NewPlotRenderer(RenderConfig{
		Width:      config.Output.PlotWidth,
		Height:     config.Output.PlotHeight,
		ColorTheme: config.Output.PlotTheme,
	})
	if err != nil {
		return fmt.Errorf("creating plot renderer: %w", err)
	}

	img, err := renderer.Render(series)
	if err != nil {
		return err
	}

	if err = writeImage(config.Output.PlotFile, img); err != nil {
		return err
	}

	logger.Info("plot saved",
		slog.Group("image",
			slog.String("destination", config.Output.PlotFile),
			slog.String("theme", string(renderer.config.ColorTheme)),
			slog.Int("width", img.Bounds().Dx()),
			slog.Int("height", img.Bounds().Dy()),
		))
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
