// Package resolve maps catalogue source paths onto the source tree.
//
// Resolution is plain path joining. Nothing here touches the filesystem; a
// missing document is reported by the tool that is asked to read it.
package resolve

import "path/filepath"

// Resolver joins catalogue paths with the source root.
type Resolver struct {
	// Root is the directory holding every interface and schema document.
	Root string
	// CommonDir is the shared schema directory, relative to Root. It is added
	// to the include path of every schema compilation.
	CommonDir string
}

func New(root, commonDir string) Resolver {
	return Resolver{Root: root, CommonDir: commonDir}
}

// Path resolves a slash-separated catalogue path.
func (r Resolver) Path(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

// SourceDir is the directory containing the resolved document.
func (r Resolver) SourceDir(rel string) string {
	return filepath.Dir(r.Path(rel))
}

// CommonSchemaDir is the resolved shared schema directory.
func (r Resolver) CommonSchemaDir() string {
	return r.Path(r.CommonDir)
}

// IncludeDirs returns the include roots for compiling the schema at rel: the
// document's own directory followed by the common schema directory. The
// common directory is omitted when it is not configured or equals the
// document's directory.
func (r Resolver) IncludeDirs(rel string) []string {
	dirs := []string{r.SourceDir(rel)}
	if r.CommonDir == "" {
		return dirs
	}
	if common := r.CommonSchemaDir(); common != dirs[0] {
		dirs = append(dirs, common)
	}
	return dirs
}
