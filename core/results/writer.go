package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/logrusorgru/aurora/v4"
)

// checkFileExists is a simple stat check to ensure that the file
// exists at the given path.
func checkFileExists(path string) bool {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return true
}

// checkIsRegular checks if the file is a regular file, else it's a special
// file (that can't be copied)
func checkIsRegular(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}

	return stat.Mode().IsRegular()
}

// copyFile copies a file from the source to the destination.
// Note: It can only copy regular files.
func copyFile(fromPath string, toPath string) error {
	if !checkIsRegular(fromPath) {
		return fmt.Errorf("%s is not a regular file that can be copied", fromPath)
	}

	source, err := os.Open(fromPath)
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(toPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	_, err = io.Copy(dest, source)

	return err
}

// writeResults marshals the summary into JSON and writes it to path.
func writeResults(path string, summary *Summary) error {
	f, err := json.MarshalIndent(summary, "", " ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, f, 0644)
}

// WriteResultsToFile writes the summary as <runId>_results.json into
// resultDir, creating it if needed, along with a copy of the configuration
// file the run used (when configPath is not empty).
func WriteResultsToFile(configPath string, summary *Summary, resultDir string) error {
	if !checkFileExists(resultDir) {
		err := os.MkdirAll(resultDir, 0755)
		if err != nil {
			return err
		}
	}

	err := writeResults(filepath.Join(resultDir, summary.RunId+"_results.json"), summary)
	if err != nil {
		return err
	}

	if configPath == "" {
		return nil
	}

	return copyFile(configPath, filepath.Join(resultDir, summary.RunId+"_config.yaml"))
}

// WriteSummary prints a human readable table of the summary.
func WriteSummary(dest io.Writer, summary *Summary, colors bool) {
	au := aurora.New(aurora.WithColors(colors))

	fmt.Fprintf(dest, "%s %s (%.1f s)\n", au.Bold("run"), au.Cyan(summary.RunId), summary.Duration)
	fmt.Fprintf(dest, "%-6s %-14s %9s %9s %9s %9s %9s %9s %9s\n",
		"kind", "name", "requests", "failures", "avg ms", "med ms", "p95 ms", "max ms", "req/s")

	for i := range summary.Requests {
		writeRequestLine(dest, au, &summary.Requests[i])
	}
	writeRequestLine(dest, au, &summary.Total)

	for msg, count := range summary.Total.Errors {
		fmt.Fprintf(dest, "%s %6d x %s\n", au.Red("error"), count, msg)
	}
}

func writeRequestLine(dest io.Writer, au *aurora.Aurora, s *RequestSummary) {
	failures := au.Green(fmt.Sprintf("%9d", s.Failures))
	if s.Failures > 0 {
		failures = au.Red(fmt.Sprintf("%9d", s.Failures))
	}

	fmt.Fprintf(dest, "%-6s %-14s %9d %s %9.1f %9.1f %9.1f %9.1f %9.1f\n",
		s.Kind, s.Name, s.Requests, failures, s.AverageLatency, s.MedianLatency,
		s.P95Latency, s.MaxLatency, s.Throughput)
}
