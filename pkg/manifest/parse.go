// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lazypkg/lazypkg/pkg/cueutil"
	"github.com/lazypkg/lazypkg/pkg/types"
)

//go:embed manifest_schema.cue
var schema []byte

var errEmptyManifest = errors.New("manifest is empty")

// Parse reads and parses the manifest at path.
func Parse(path types.FilesystemPath) (*Manifest, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseBytes(data, string(path))
}

// ParseBytes parses a manifest. Files ending in ".cue" are compiled as CUE;
// anything else is read as YAML. The document is checked against the embedded
// schema, decoded in declaration order and then validated.
//
// Decoding failures are returned as *ParseError (matching ErrMalformedManifest);
// semantic problems are returned as ValidationErrors (matching ErrInvalidManifest).
func ParseBytes(data []byte, filename string) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Path: filename, Err: errEmptyManifest}
	}

	format := cueutil.FormatYAML
	if types.FilesystemPath(filename).Ext() == ".cue" {
		format = cueutil.FormatCUE
	}

	unified, err := cueutil.Unify(schema, data, "#Manifest",
		cueutil.WithFilename(filename),
		cueutil.WithFormat(format),
	)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}

	// YAML is decoded from the original bytes so scalars keep their source
	// text. CUE has no such text, so its exported JSON is decoded instead.
	doc := data
	if format == cueutil.FormatCUE {
		doc, err = unified.MarshalJSON()
		if err != nil {
			return nil, &ParseError{Path: filename, Err: cueutil.FormatError(err, filename)}
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(doc, &m); err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	m.FilePath = types.FilesystemPath(filename)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
