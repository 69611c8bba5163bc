// Package input reads the line-oriented URL list.
package input

import (
	"bufio"
	"fmt"
	"os"
)

// ReadLines returns every line of the file, blank and header lines included,
// so the record count of a run always matches the input line count.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return lines, nil
}
