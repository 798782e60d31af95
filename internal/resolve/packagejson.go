package resolve

import (
	"encoding/json"
	"os"
)

// packageJSON is the subset of npm's package.json the resolver consults.
// Parsed with encoding/json rather than an ecosystem JSON library: the
// format is mandated by npm itself (not a novac design choice), and the
// conditional-"exports" map needs exactly the ordered lookup
// encoding/json's map decoding already gives map[string]json.RawMessage;
// no parser in the example pack targets npm's package.json shape.
type packageJSON struct {
	Name    string          `json:"name"`
	Main    string          `json:"main"`
	Types   string          `json:"types"`
	Typings string          `json:"typings"`
	Exports json.RawMessage `json:"exports"`
}

func readPackageJSON(path string) (*packageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var pj packageJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, err
	}
	return &pj, nil
}

func (pj *packageJSON) typesEntry() string {
	if pj.Types != "" {
		return pj.Types
	}
	return pj.Typings
}

// resolveExports walks package.json's "exports" field for subpath
// (relative to the package root, "" for the package's own root import)
// against conditions in priority order, walking package.json's
// exports/imports under configured custom conditions.
//
// Supports the common shapes: a bare string ("exports": "./index.js"), a
// subpath map ("exports": {".": ..., "./x": ...}), and a condition map at
// either level ({"types": ..., "import": ..., "default": ...}), including
// one level of nesting (a subpath entry whose value is itself a condition
// map). Deeper nesting and pattern subpaths ("./features/*") are treated
// as PackageJsonError territory left to the build driver's diagnostics,
// not silently matched.
func (pj *packageJSON) resolveExports(subpath string, conditions []string) (string, bool) {
	if len(pj.Exports) == 0 {
		return "", false
	}
	var asString string
	if err := json.Unmarshal(pj.Exports, &asString); err == nil {
		if subpath == "" {
			return asString, true
		}
		return "", false
	}

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(pj.Exports, &asMap); err != nil {
		return "", false
	}

	key := "."
	if subpath != "" {
		key = "./" + subpath
	}
	if raw, ok := asMap[key]; ok {
		return resolveExportTarget(raw, conditions)
	}
	if subpath == "" {
		// "exports" might be a bare condition map with no subpath keys at all.
		if looksLikeConditionMap(asMap) {
			return resolveExportTarget(pj.Exports, conditions)
		}
	}
	return "", false
}

func looksLikeConditionMap(m map[string]json.RawMessage) bool {
	for k := range m {
		if len(k) == 0 || k[0] == '.' {
			return false
		}
	}
	return len(m) > 0
}

func resolveExportTarget(raw json.RawMessage, conditions []string) (string, bool) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, true
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return "", false
	}
	for _, cond := range conditions {
		if target, ok := asMap[cond]; ok {
			var s string
			if err := json.Unmarshal(target, &s); err == nil {
				return s, true
			}
		}
	}
	return "", false
}
