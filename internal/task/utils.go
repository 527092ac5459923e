package task

import (
	"encoding/json"
	"fmt"
)

// DecodeAttributes loads a raw attribute map (as read from the config file) into out
func DecodeAttributes(m map[string]any, out any) error {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal attributes: %w", err)
	}
	return nil
}
