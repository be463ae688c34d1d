package projection

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fatflowers/siteexport/pkg/tabular"
)

// maxFlattenDepth bounds recursion: the booking format is nested but not
// guaranteed acyclic once decoded into maps, so anything deeper is
// serialized in place.
const maxFlattenDepth = 8

// Flatten walks a nested record and returns its flat projection: keys joined
// with ".", arrays treated as leaves and serialized as JSON text. Keys are
// sorted at each level so the derived column order is stable across runs.
func Flatten(nested map[string]any) ([]tabular.Column, tabular.Row) {
	row := tabular.Row{}
	cols := make([]tabular.Column, 0, len(nested))
	flattenInto("", nested, 1, &cols, row)
	return cols, row
}

func flattenInto(prefix string, m map[string]any, depth int, cols *[]tabular.Column, row tabular.Row) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := m[k].(type) {
		case map[string]any:
			if depth >= maxFlattenDepth {
				setFlat(key, jsonText(v), cols, row)
				continue
			}
			flattenInto(key, v, depth+1, cols, row)
		case []any:
			setFlat(key, jsonText(v), cols, row)
		case nil:
			setFlat(key, "", cols, row)
		case string:
			setFlat(key, v, cols, row)
		case bool:
			setFlat(key, strconv.FormatBool(v), cols, row)
		case float64:
			setFlat(key, strconv.FormatFloat(v, 'f', -1, 64), cols, row)
		case json.Number:
			setFlat(key, v.String(), cols, row)
		default:
			setFlat(key, fmt.Sprint(v), cols, row)
		}
	}
}

func setFlat(key, value string, cols *[]tabular.Column, row tabular.Row) {
	*cols = append(*cols, tabular.Column{ID: key, Title: key})
	row[key] = value
}

func jsonText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
