package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Dir is the on-disk prefab directory. Files found there take precedence over
// the embedded copies so specs can be edited without rebuilding.
var Dir = "prefabs"

const scriptExt = ".tengo"

//go:embed *.yaml scripts/*.tengo
var bundled embed.FS

// Load returns a YAML spec by name, preferring the disk copy.
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name))
}

// LoadScript returns a pilot script by name. The extension and any
// prefabs/ or scripts/ prefix are optional.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name))
}

// ModTime reports when the disk copy of a spec last changed. Embedded-only
// specs have no mod time.
func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(clean string) ([]byte, error) {
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(diskPath(clean))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return bundled.ReadFile(clean)
}

func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := cleanPrefabPath(name)
	s = strings.TrimPrefix(s, "scripts/")
	if path.Ext(s) != scriptExt {
		s += scriptExt
	}
	return path.Join("scripts", s)
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
