package tabkit

import (
	"sort"
	"sync"

	"github.com/autom8ter/tabkit/errors"
)

// Dataset is a registry of named in-memory collections. It is safe for concurrent use.
type Dataset struct {
	mu          sync.RWMutex
	collections map[string]Records
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	return &Dataset{collections: map[string]Records{}}
}

// Set replaces the named collection
func (d *Dataset) Set(name string, records Records) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collections[name] = records
}

// Load decodes a json or yaml array of records and stores it as the named collection
func (d *Dataset) Load(name string, content []byte) error {
	if name == "" {
		return errors.New(errors.Validation, "empty collection name")
	}
	records, err := RecordsFromBytes(content)
	if err != nil {
		return errors.Wrap(err, errors.Validation, "failed to load collection: %s", name)
	}
	d.Set(name, records)
	return nil
}

// Get returns the named collection. The returned records must be treated as read-only.
func (d *Dataset) Get(name string) (Records, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	records, ok := d.collections[name]
	if !ok {
		return nil, errors.New(errors.NotFound, "collection does not exist: %s", name)
	}
	return records, nil
}

// Names returns the sorted collection names
func (d *Dataset) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var names = []string{}
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
