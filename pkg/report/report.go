// Package report serializes workspace analysis results into the supported
// output formats: file, console, html, and json.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tim-richter/spinne/pkg/workspace"
)

// Format selects the report output.
type Format string

const (
	// FormatFile writes the canonical JSON to <name>.json in the working
	// directory.
	FormatFile Format = "file"
	// FormatConsole prints the canonical JSON to stdout, indented.
	FormatConsole Format = "console"
	// FormatHTML embeds the canonical JSON into the interactive
	// visualization template and writes <name>.html.
	FormatHTML Format = "html"
	// FormatJSON streams compact JSON to stdout, for piping.
	FormatJSON Format = "json"
)

// ParseFormat validates a CLI-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatFile, FormatConsole, FormatHTML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected file, console, html, or json)", s)
	}
}

// DefaultFileName is the base name for file and html outputs.
const DefaultFileName = "spinne-report"

// Write emits the reports in the requested format. fileName is the output
// base name (without extension) for the file and html formats.
func Write(reports []workspace.Report, format Format, fileName string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if fileName == "" {
		fileName = DefaultFileName
	}

	switch format {
	case FormatFile:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		outPath, err := workingDirPath(fileName + ".json")
		if err != nil {
			return err
		}
		logger.Info("writing report", "path", outPath)
		return os.WriteFile(outPath, append(data, '\n'), 0644)

	case FormatConsole:
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err

	case FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		return encoder.Encode(reports)

	case FormatHTML:
		html, err := GenerateHTML(reports)
		if err != nil {
			return err
		}
		outPath, err := workingDirPath(fileName + ".html")
		if err != nil {
			return err
		}
		logger.Info("writing report", "path", outPath)
		return os.WriteFile(outPath, []byte(html), 0644)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func workingDirPath(name string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
