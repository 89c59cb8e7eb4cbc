package detection

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadLabels reads class names, one per line, in class-id order. Blank lines
// and lines starting with '#' are skipped. A line of the form "3: 100ft"
// (the YOLO data.yaml names style) contributes only the name.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, ":"); i >= 0 {
			line = strings.TrimSpace(line[i+1:])
		}
		labels = append(labels, strings.Trim(line, `"'`))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// labelFor maps a class id to its name.
func labelFor(labels []string, classID int) string {
	if classID >= 0 && classID < len(labels) {
		return labels[classID]
	}
	return fmt.Sprintf("class%d", classID)
}
