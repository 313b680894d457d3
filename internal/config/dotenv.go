package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"rental-app-go/pkg/logger"
)

// dotenvLayers returns the candidate files of one directory, highest
// precedence first.
func dotenvLayers(env string) []string {
	layers := []string{".env.local", ".env"}
	if env = strings.TrimSpace(env); env != "" {
		layers = append([]string{".env." + env + ".local", ".env." + env}, layers...)
	}
	return layers
}

// loadDotEnv fills unset variables from dotenv files. ENV_FILE names the
// files explicitly (comma separated, all required); otherwise the nearest
// directory above the working directory holding any layer is used.
func loadDotEnv(log logger.Logger) ([]string, error) {
	var paths []string
	if explicit := strings.TrimSpace(os.Getenv("ENV_FILE")); explicit != "" {
		for _, path := range strings.Split(explicit, ",") {
			if path = strings.TrimSpace(path); path != "" {
				paths = append(paths, path)
			}
		}
	} else {
		found, err := findDotEnvLayers(dotenvLayers(os.Getenv("ENV")))
		if err != nil {
			return nil, err
		}
		paths = found
	}

	merged := make(map[string]string)
	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for key, value := range values {
			if _, seen := merged[key]; !seen {
				merged[key] = value
			}
		}
	}

	loaded, skipped := 0, 0
	for key, value := range merged {
		if _, exists := os.LookupEnv(key); exists {
			skipped++
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return nil, err
		}
		loaded++
	}
	if len(paths) > 0 {
		log.Info("dotenv: loaded variables", "count", loaded, "skipped", skipped, "files", strings.Join(paths, ","))
	}
	return paths, nil
}

func findDotEnvLayers(layers []string) ([]string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for {
		var found []string
		for _, name := range layers {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			switch {
			case err == nil && !info.IsDir():
				found = append(found, candidate)
			case err != nil && !errors.Is(err, os.ErrNotExist):
				return nil, err
			}
		}
		if len(found) > 0 {
			return found, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
