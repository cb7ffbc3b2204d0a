package cmd

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/keyword"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

// readTextInput returns the joined positional args, or all of stdin when
// no args were given.
func readTextInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// expandFlagValues expands "-" to lines read from stdin and "@path" to lines
// read from a file. Other values pass through unchanged.
func expandFlagValues(values []string, stdin io.Reader, stdinUsed bool) ([]string, bool) {
	var result []string
	for _, v := range values {
		switch {
		case v == "-":
			if stdinUsed {
				output.Warning("stdin already used, ignoring additional - flag")
				continue
			}
			stdinUsed = true
			result = append(result, readLinesFromReader(stdin)...)
		case strings.HasPrefix(v, "@"):
			path := strings.TrimPrefix(v, "@")
			file, err := os.Open(path)
			if err != nil {
				output.Warning("failed to read %s: %v", path, err)
				continue
			}
			result = append(result, readLinesFromReader(file)...)
			file.Close()
		default:
			result = append(result, v)
		}
	}
	return result, stdinUsed
}

// readLinesFromReader reads non-empty lines from a reader
func readLinesFromReader(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// processorFor builds a processor from --icon-base, falling back to the
// project config and then the built-in default.
func processorFor(cmd *cobra.Command) *keyword.Processor {
	if flag := cmd.Flags().Lookup("icon-base"); flag != nil && flag.Changed {
		return keyword.New(flag.Value.String())
	}
	base, err := config.GetIconBase(getBaseDir())
	if err != nil {
		slog.Debug("icon base from config", "err", err)
	}
	return keyword.New(base)
}

// writeJSON writes v as indented JSON without HTML escaping
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
