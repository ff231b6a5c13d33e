package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/project-tktt/jobscout/internal/domain"
)

type sourcesFile struct {
	Sources []domain.Source `yaml:"sources"`
}

// LoadSources reads the source list from a YAML file, in file order.
// Type aliases (feed, atom) are normalized; an unknown type is kept as
// written so the engine can report and skip that source.
func LoadSources(path string) ([]domain.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	for i := range file.Sources {
		src := &file.Sources[i]
		strategy, err := domain.ParseStrategy(string(src.Strategy))
		if err != nil {
			log.Printf("[Config] Source %q: %v", src.Name, err)
			continue
		}
		src.Strategy = strategy
	}

	return file.Sources, nil
}
