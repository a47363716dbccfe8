package seed

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// LoadFile reads a JSON fixture. Missing smart replies fall back to the
// defaults; duplicate identifiers are rejected.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var ds Dataset
	if err := sonic.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validating seed file: %w", err)
	}

	if len(ds.SmartReplies) == 0 {
		ds.SmartReplies = DefaultSmartReplies()
	}
	return &ds, nil
}

// WriteFile stores ds as an indented JSON fixture
func WriteFile(path string, ds *Dataset) error {
	data, err := sonic.ConfigStd.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling seed data: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating seed directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing seed file: %w", err)
	}
	return nil
}

// Validate checks identifiers are present and unique
func (ds *Dataset) Validate() error {
	callIDs := make(map[string]bool, len(ds.Calls))
	for i, c := range ds.Calls {
		if c == nil || c.ID == "" {
			return fmt.Errorf("call %d has no id", i)
		}
		if callIDs[c.ID] {
			return fmt.Errorf("duplicate call id %s", c.ID)
		}
		callIDs[c.ID] = true
	}

	contactIDs := make(map[string]bool, len(ds.Threads))
	for i, t := range ds.Threads {
		if t == nil || t.ContactID == "" {
			return fmt.Errorf("thread %d has no contact id", i)
		}
		if contactIDs[t.ContactID] {
			return fmt.Errorf("duplicate contact id %s", t.ContactID)
		}
		contactIDs[t.ContactID] = true
	}
	return nil
}
