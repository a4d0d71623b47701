package suite

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE []byte

// Error codes for load failures.
const (
	ErrCodeRead        = "E001" // File could not be read
	ErrCodeUnsupported = "E002" // Unknown file extension
	ErrCodeParse       = "E003" // YAML or CUE syntax error, unknown field
	ErrCodeInvalid     = "E004" // Definition failed validation
	ErrCodeNoFiles     = "E005" // Directory holds no scenario files
)

// LoadError describes why a scenario file could not be loaded.
type LoadError struct {
	Path    string
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Supported reports whether path has a scenario file extension.
func Supported(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// Discover expands paths into scenario files. Directories are walked
// recursively and contribute every supported file, sorted by path. Files are
// kept as given, in order.
func Discover(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &LoadError{Path: p, Code: ErrCodeRead, Message: err.Error(), Err: err}
		}
		if !info.IsDir() {
			if !Supported(p) {
				return nil, &LoadError{Path: p, Code: ErrCodeUnsupported, Message: "expected a .yaml, .yml or .cue file"}
			}
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && Supported(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Path: p, Code: ErrCodeRead, Message: fmt.Sprintf("scanning directory: %v", err), Err: err}
		}
		if len(found) == 0 {
			return nil, &LoadError{Path: p, Code: ErrCodeNoFiles, Message: "no scenario files found"}
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}

// LoadFile reads, parses and validates a scenario file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeRead, Message: err.Error(), Err: err}
	}
	return Parse(path, data)
}

// Parse decodes data according to the extension of name and validates it.
func Parse(name string, data []byte) (*Definition, error) {
	var (
		def *Definition
		err error
	)
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		def, err = ParseYAML(data)
	case ".cue":
		def, err = ParseCUE(name, data)
	default:
		return nil, &LoadError{Path: name, Code: ErrCodeUnsupported, Message: "expected a .yaml, .yml or .cue file"}
	}
	if err != nil {
		return nil, asLoadError(name, ErrCodeParse, err)
	}

	if err := Validate(def); err != nil {
		return nil, &LoadError{Path: name, Code: ErrCodeInvalid, Message: err.Error(), Err: err}
	}
	return def, nil
}

// ParseYAML decodes a YAML scenario. Unknown fields are rejected.
func ParseYAML(data []byte) (*Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &def, nil
}

// ParseCUE decodes a CUE scenario. The file is unified with the closed
// #Scenario schema and must be concrete.
func ParseCUE(filename string, data []byte) (*Definition, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("building scenario schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(file)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("failed to validate CUE: %w", err)
	}

	// Both formats share one strict decoder, so a CUE file and its YAML
	// rendering always produce the same Definition.
	out, err := cueyaml.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to export CUE: %w", err)
	}
	return ParseYAML(out)
}

// asLoadError wraps err, keeping the first CUE position if it carries one.
func asLoadError(path, code string, err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	loadErr := &LoadError{Path: path, Code: code, Message: err.Error(), Err: err}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
