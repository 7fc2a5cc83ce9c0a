// Package workspace converts the mobile studio's JSON workspace snapshot into
// the XML place document uploaded to Open Cloud.
//
// The conversion only carries each object's class and name. It is a
// placeholder, not a complete serializer for the place file format.
package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument  = errors.New("workspace data is empty")
	ErrMissingObjects = errors.New("workspace data has no Objects array")
)

// DefaultClassName is used for objects sent without a ClassName.
const DefaultClassName = "Folder"

type Document struct {
	Objects []Object `json:"Objects"`
}

type Object struct {
	ClassName string `json:"ClassName"`
	Name      string `json:"Name"`
}

// Parse decodes a workspace document. The client sends it string-encoded
// (a JSON string whose content is the document) but a plain JSON object is
// accepted as well.
func Parse(raw []byte) (*Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptyDocument
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decoding workspace string: %w", err)
		}
		return Parse([]byte(encoded))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing workspace data: %w", err)
	}
	if doc.Objects == nil {
		return nil, ErrMissingObjects
	}
	return &doc, nil
}

// Convert parses raw workspace data and renders the place XML.
func Convert(raw []byte) ([]byte, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return Render(doc)
}
