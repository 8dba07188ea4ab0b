package ir

import "encoding/json"

// Marshal serializes a CompilationUnit to JSON, the compact form the
// `inspect-ir` CLI subcommand prints when --pretty is off.
func Marshal(cu *CompilationUnit) ([]byte, error) {
	return json.Marshal(cu)
}

// Unmarshal parses JSON previously produced by Marshal back into a
// CompilationUnit.
func Unmarshal(data []byte) (*CompilationUnit, error) {
	var cu CompilationUnit
	if err := json.Unmarshal(data, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}
