package keymap

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/pelletier/go-toml/v2"

	"github.com/klondike-tools/dash/pkg/paths"
)

// Overrides maps snake_case action names to replacement key lists, e.g.
// select_all = ["ctrl+a"].
type Overrides map[string][]string

// OverridesFile is the per-user keybinding override file in the config dir.
const OverridesFile = "keymap.toml"

// LoadOverrides reads keymap.toml from the config dir. A missing file
// yields nil overrides; a broken file is an error the caller reports.
func LoadOverrides() (Overrides, error) {
	return loadOverridesFrom(filepath.Join(paths.ConfigDir(), OverridesFile))
}

func loadOverridesFrom(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var overrides Overrides
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

// ApplyOverrides applies keybinding overrides to any keymap struct. Config
// keys (snake_case) map to struct fields (CamelCase); only key.Binding
// fields are touched, and embedded structs are processed recursively.
func ApplyOverrides(km interface{}, overrides Overrides) {
	if overrides == nil {
		return
	}

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	applyOverridesRecursive(v, overrides)
}

func applyOverridesRecursive(v reflect.Value, overrides Overrides) {
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverridesRecursive(field, overrides)
			continue
		}

		if fieldType.Type != bindingType {
			continue
		}

		configKey := camelToSnake(fieldType.Name)

		if keys, ok := overrides[configKey]; ok && len(keys) > 0 {
			// Preserve the help description from the default binding.
			currentBinding := field.Interface().(key.Binding)
			helpDesc := currentBinding.Help().Desc

			newBinding := key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(keys[0], helpDesc),
			)
			field.Set(reflect.ValueOf(newBinding))
		}
	}
}

// camelToSnake converts a CamelCase string to snake_case.
// Examples: SelectAll -> select_all, PageUp -> page_up
func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
