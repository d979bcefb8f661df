// Package paths maps workspace-relative form and instance paths to absolute
// paths under the collect storage root.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StorageDirName is the directory that holds a collect workspace.
const StorageDirName = ".collect"

// Storage subdirectories.
const (
	FormsDir     = "forms"
	InstancesDir = "instances"
	MediaDir     = "media"
)

// ResolveStorageDir resolves the workspace storage root from user input.
// It accepts either the project directory or the .collect directory itself
// and follows a redirect file so several checkouts can share one workspace.
//
//   - "/path/to/project" -> "/path/to/project/.collect"
//   - "/path/to/project/.collect" -> "/path/to/project/.collect"
//   - "" -> "./.collect"
func ResolveStorageDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	storageDir := path
	if filepath.Base(path) != StorageDirName {
		storageDir = filepath.Join(path, StorageDirName)
	}

	return followRedirect(storageDir)
}

// followRedirect reads <dir>/redirect and, when it names a target, returns
// that target resolved relative to dir.
func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, "redirect")) //nolint:gosec // redirect path is within the storage dir
	if err != nil {
		return dir
	}

	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(dir, target))
}

// Layout resolves paths inside one storage root.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at the resolved storage dir for path.
func NewLayout(path string) Layout {
	return Layout{Root: ResolveStorageDir(path)}
}

// Dir returns the absolute path of a storage subdirectory.
func (l Layout) Dir(sub string) string {
	return filepath.Join(l.Root, sub)
}

// EnsureDirs creates the storage root and its subdirectories.
func (l Layout) EnsureDirs() error {
	for _, sub := range []string{FormsDir, InstancesDir, MediaDir} {
		if err := os.MkdirAll(l.Dir(sub), 0750); err != nil {
			return err
		}
	}
	return nil
}

// AbsoluteFormFilePath maps a stored form path to an absolute path.
func (l Layout) AbsoluteFormFilePath(filePath string) string {
	return l.absolute(FormsDir, filePath)
}

// AbsoluteInstanceFilePath maps a stored instance path to an absolute path.
func (l Layout) AbsoluteInstanceFilePath(filePath string) string {
	return l.absolute(InstancesDir, filePath)
}

// RelativeInstanceFilePath is the inverse of AbsoluteInstanceFilePath for
// paths inside the instances dir. Other paths are returned unchanged.
func (l Layout) RelativeInstanceFilePath(filePath string) string {
	return l.relative(InstancesDir, filePath)
}

// RelativeFormFilePath is the inverse of AbsoluteFormFilePath.
func (l Layout) RelativeFormFilePath(filePath string) string {
	return l.relative(FormsDir, filePath)
}

// absolute keeps empty and already absolute paths as they are; anything else
// is joined onto the subdirectory.
func (l Layout) absolute(sub, filePath string) string {
	if filePath == "" {
		return ""
	}
	if filepath.IsAbs(filePath) {
		return filepath.Clean(filePath)
	}
	return filepath.Join(l.Dir(sub), filePath)
}

func (l Layout) relative(sub, filePath string) string {
	rel, err := filepath.Rel(l.Dir(sub), filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filePath
	}
	return rel
}
