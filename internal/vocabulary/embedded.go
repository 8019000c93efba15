// Embedded corpus loader. The default vocabulary is baked into the binary
// with go:embed so the refiner works with no filesystem dependencies.
package vocabulary

import (
	"bytes"
	"embed"
	"fmt"
)

//go:embed data/anatomy.yaml
var embeddedCorpus embed.FS

// LoadEmbedded loads the baked-in default vocabulary.
func LoadEmbedded() (*Store, error) {
	data, err := embeddedCorpus.ReadFile("data/anatomy.yaml")
	if err != nil {
		return nil, &DataError{Source: "embedded", Reason: "failed to read embedded corpus", Err: err}
	}
	return Load(bytes.NewReader(data), "embedded")
}

// MustLoadEmbedded loads the embedded vocabulary and panics on error.
// The embedded corpus is validated by tests, so a failure here means a
// broken build rather than bad user input.
func MustLoadEmbedded() *Store {
	store, err := LoadEmbedded()
	if err != nil {
		panic(fmt.Sprintf("failed to load embedded vocabulary: %v", err))
	}
	return store
}
