package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var defaultCorpus []byte

// Entry is one knowledge snippet.
type Entry struct {
	ID      string `yaml:"id"`
	Topic   string `yaml:"topic"`
	Content string `yaml:"content"`
}

type corpusFile struct {
	Entries []Entry `yaml:"entries"`
}

// LoadCorpus reads entries from path, or the built-in corpus when path is empty.
func LoadCorpus(path string) ([]Entry, error) {
	raw := defaultCorpus
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus %s: %w", path, err)
		}
		raw = b
	}
	return ParseCorpus(raw)
}

// ParseCorpus decodes a YAML corpus. Entries without content are dropped.
func ParseCorpus(raw []byte) ([]Entry, error) {
	var f corpusFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	entries := make([]Entry, 0, len(f.Entries))
	for i, e := range f.Entries {
		if e.Content == "" {
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("entry-%d", i)
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus has no entries")
	}
	return entries, nil
}
