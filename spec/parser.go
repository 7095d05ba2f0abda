package spec

import (
	"encoding/json"
	"fmt"
	"io"
)

// Parse reads a JSON grammar description.
func Parse(src io.Reader) (*GrammarDescription, error) {
	d := json.NewDecoder(src)
	d.DisallowUnknownFields()
	desc := &GrammarDescription{}
	if err := d.Decode(desc); err != nil {
		return nil, fmt.Errorf("invalid grammar description: %w", err)
	}
	return desc, nil
}
