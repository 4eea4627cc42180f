package gallery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Caption sidecar filenames probed in the input directory, in order.
var captionSidecars = []string{"captions.yaml", "captions.yml", "captions.toml"}

// LoadCaptions reads an optional caption sidecar from the input directory.
// The sidecar maps original filenames to alt text:
//
//	sunset.jpg: "Sunset over the pier"
//
// Both YAML and TOML sidecars are supported. A missing sidecar returns a nil
// map; a malformed one is an error, since silently dropping the operator's
// captions would be worse than stopping.
func LoadCaptions(inputDir string) (map[string]string, error) {
	for _, name := range captionSidecars {
		path := filepath.Join(inputDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading caption sidecar %s: %w", path, err)
		}

		captions := make(map[string]string)
		switch filepath.Ext(name) {
		case ".toml":
			if err := toml.Unmarshal(data, &captions); err != nil {
				return nil, fmt.Errorf("parsing caption sidecar %s: %w", path, err)
			}
		default:
			if err := yaml.Unmarshal(data, &captions); err != nil {
				return nil, fmt.Errorf("parsing caption sidecar %s: %w", path, err)
			}
		}
		return captions, nil
	}
	return nil, nil
}
