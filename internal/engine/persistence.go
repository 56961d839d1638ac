package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/celerix-dev/phonebook/pkg/schema"
)

// document is the on-disk shape of a person.
type document struct {
	ID        string    `json:"_id"`
	LegacyID  int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDocument(p schema.Person) document {
	return document{ID: p.ID, LegacyID: p.LegacyID, Name: p.Name, Number: p.Number, CreatedAt: p.CreatedAt}
}

func (d document) person() schema.Person {
	return schema.Person{ID: d.ID, LegacyID: d.LegacyID, Name: d.Name, Number: d.Number, CreatedAt: d.CreatedAt}
}

// Persistence handles the disk I/O for the DocStore.
type Persistence struct {
	DataDir string
	mu      sync.Mutex // serialises writers to the same files
}

// NewPersistence initializes a persistence handler rooted at dir.
func NewPersistence(dir string) (*Persistence, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Persistence{DataDir: dir}, nil
}

func (p *Persistence) path(collection string) string {
	return filepath.Join(p.DataDir, collection+".json")
}

// SaveCollection writes a collection to its JSON file atomically.
func (p *Persistence) SaveCollection(collection string, people []schema.Person) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs := make([]document, 0, len(people))
	for _, person := range people {
		docs = append(docs, toDocument(person))
	}

	bytes, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}

	filePath := p.path(collection)
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, bytes, 0644); err != nil {
		return err
	}
	// Rename is atomic: readers see the old file or the new one, never a torn write.
	return os.Rename(tempPath, filePath)
}

// LoadCollection returns the stored collection in file order.
// A collection that was never written is empty.
func (p *Persistence) LoadCollection(collection string) ([]schema.Person, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	content, err := os.ReadFile(p.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var docs []document
	if err := json.Unmarshal(content, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}

	people := make([]schema.Person, 0, len(docs))
	for _, d := range docs {
		people = append(people, d.person())
	}
	return people, nil
}
