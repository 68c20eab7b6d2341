package syncer

import (
	"path/filepath"

	"npmyaml/internal/fileutil"
	"npmyaml/internal/manifest"
)

// Plan is the conversion a triggered run would perform in a directory.
type Plan struct {
	Action       Action
	Source       string
	Target       string
	SourceFormat manifest.Format
	TargetFormat manifest.Format
}

// Plan inspects dir and picks the conversion direction. Only file existence
// is checked; manifest contents are not read. The YAML manifest takes
// precedence when both files exist.
func (s *Syncer) Plan(dir string) (Plan, error) {
	yamlPath := filepath.Join(dir, s.opts.YAMLName)
	jsonPath := filepath.Join(dir, s.opts.JSONName)

	ok, err := fileutil.Exists(yamlPath)
	if err != nil {
		return Plan{}, manifest.Wrap(manifest.ErrIO, "stat manifest", yamlPath, err)
	}
	if ok {
		return Plan{
			Action:       ActionYAMLToJSON,
			Source:       yamlPath,
			Target:       jsonPath,
			SourceFormat: manifest.FormatYAML,
			TargetFormat: manifest.FormatJSON,
		}, nil
	}

	ok, err = fileutil.Exists(jsonPath)
	if err != nil {
		return Plan{}, manifest.Wrap(manifest.ErrIO, "stat manifest", jsonPath, err)
	}
	if ok {
		return Plan{
			Action:       ActionJSONToYAML,
			Source:       jsonPath,
			Target:       yamlPath,
			SourceFormat: manifest.FormatJSON,
			TargetFormat: manifest.FormatYAML,
		}, nil
	}

	return Plan{Action: ActionNoManifest}, nil
}

// InSync reports whether both manifests exist in dir and describe the same
// tree. Mapping key order is ignored.
func (s *Syncer) InSync(dir string) (bool, error) {
	yamlPath := filepath.Join(dir, s.opts.YAMLName)
	jsonPath := filepath.Join(dir, s.opts.JSONName)

	for _, path := range []string{yamlPath, jsonPath} {
		ok, err := fileutil.Exists(path)
		if err != nil {
			return false, manifest.Wrap(manifest.ErrIO, "stat manifest", path, err)
		}
		if !ok {
			return false, nil
		}
	}

	yamlDoc, err := manifest.LoadAs(yamlPath, manifest.FormatYAML)
	if err != nil {
		return false, err
	}
	jsonDoc, err := manifest.LoadAs(jsonPath, manifest.FormatJSON)
	if err != nil {
		return false, err
	}
	return manifest.Equivalent(yamlDoc.Root, jsonDoc.Root), nil
}
