package benchmarks

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// SaveResults appends one line per sample to the file at path, creating the
// file if needed. The parent directory is not created. Earlier contents are
// preserved.
func SaveResults(times []float64, path string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open result file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close result file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, t := range times {
		if _, err := w.WriteString(FormatSample(t) + "\n"); err != nil {
			return fmt.Errorf("failed to write result file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}

	return nil
}

// FormatSample renders a sample the way Python prints floats into StochPy
// result files: the shortest representation that reads back to the same
// value, always with a decimal point, and in exponent form only for very small
// or large values (0.001, 2.0, 1e-05, 1e+16).
func FormatSample(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); v != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
