package quiz

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/victornm/drawboard/internal/domain"
)

type catalogFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// LoadCatalog reads a YAML quiz catalog from path.
func LoadCatalog(path string) ([]domain.Quiz, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ParseCatalog(f)
}

// ParseCatalog decodes and validates a YAML quiz catalog:
//
//	quizzes:
//	  - id: 1
//	    topic: 추리
//	    question: ...
//	    points: 50
func ParseCatalog(r io.Reader) ([]domain.Quiz, error) {
	var c catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int]bool, len(c.Quizzes))
	for i, q := range c.Quizzes {
		if seen[q.ID] {
			return nil, fmt.Errorf("quiz #%d: duplicate id %d", i, q.ID)
		}
		seen[q.ID] = true

		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("quiz %d: empty question", q.ID)
		}
	}

	return c.Quizzes, nil
}
