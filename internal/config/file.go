package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadFile reads a YAML document whose nested keys flatten to environment
// variable names: {db: {driver: sqlite}} supplies DB_DRIVER.
func loadFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFile(contents)
}

func parseFile(contents []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}
	values := make(map[string]string)
	flatten("", doc, values)
	return values, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		name := strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if prefix != "" {
			name = prefix + "_" + name
		}
		switch typed := value.(type) {
		case map[string]any:
			flatten(name, typed, out)
		case []any:
			parts := make([]string, 0, len(typed))
			for _, item := range typed {
				parts = append(parts, fmt.Sprint(item))
			}
			out[name] = strings.Join(parts, ",")
		case nil:
		default:
			out[name] = fmt.Sprint(typed)
		}
	}
}
