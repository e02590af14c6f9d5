package localdump

import (
	"fmt"
	"os"
	"path"
)

// WriteMarkdown writes contents to abs, creating parent directories as needed
// and overwriting any existing file.
func WriteMarkdown(contents string, abs string) error {
	directory := path.Dir(abs)

	// there's probably a nicer way to express 0750 but meh
	if err := os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", directory, err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("localdump: couldn't create file %s: %w", abs, err)
	}

	defer f.Close()
	if _, err = f.WriteString(contents); err != nil {
		return fmt.Errorf("localdump: couldn't write to file %s: %w", abs, err)
	}

	return nil
}
