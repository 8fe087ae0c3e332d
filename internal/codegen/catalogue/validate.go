package catalogue

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/mod/module"
)

var (
	ErrDuplicateModule   = errors.New("duplicate module name")
	ErrInvalidModuleName = errors.New("invalid module name")
	ErrInvalidSourcePath = errors.New("invalid source path")
	ErrUnknownMode       = errors.New("unknown generation mode")
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name can be used as both a file name and a
// module symbol in generated code.
func IsIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// SuggestModuleName derives an identifier from an arbitrary name, such as an
// interface name or a document base name. It returns "" if no sensible
// identifier can be derived.
func SuggestModuleName(name string) string {
	s := strcase.ToSnake(name)
	s = strings.Map(func(r rune) rune {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, s)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	if !IsIdentifier(s) || strings.Trim(s, "_") == "" {
		return ""
	}
	return s
}

// Validate checks the whole catalogue and reports every problem found.
// Module names must be unique within each table; the binding table and the
// schema table are separate namespaces.
func (c *Catalogue) Validate() error {
	var errs []error

	seen := map[string]int{}
	for i, b := range c.Bindings {
		errs = append(errs, checkEntry("binding", i, b.Module, b.Source, seen)...)
		if !slices.Contains(knownKinds, b.Mode.normalize().Kind) {
			errs = append(errs, fmt.Errorf("binding #%d %q: %w %q", i, b.Module, ErrUnknownMode, b.Mode.Kind))
		}
	}

	seen = map[string]int{}
	for i, p := range c.Protos {
		errs = append(errs, checkEntry("proto", i, p.Module, p.Source, seen)...)
	}

	return errors.Join(errs...)
}

func checkEntry(table string, i int, name, source string, seen map[string]int) []error {
	var errs []error
	if !IsIdentifier(name) {
		err := fmt.Errorf("%s #%d %q: %w", table, i, name, ErrInvalidModuleName)
		if s := SuggestModuleName(name); s != "" {
			err = fmt.Errorf("%w (try %q)", err, s)
		}
		errs = append(errs, err)
	}
	if prev, ok := seen[name]; ok {
		errs = append(errs, fmt.Errorf("%s #%d %q: %w, first declared at #%d", table, i, name, ErrDuplicateModule, prev))
	} else {
		seen[name] = i
	}
	if err := checkSourcePath(source); err != nil {
		errs = append(errs, fmt.Errorf("%s #%d %q: %w: %w", table, i, name, ErrInvalidSourcePath, err))
	}
	return errs
}

// checkSourcePath accepts clean, slash-separated paths below the source root.
func checkSourcePath(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if path.IsAbs(p) || strings.HasPrefix(p, "../") || p == ".." {
		return fmt.Errorf("%q must be relative to the source root", p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("%q is not clean (want %q)", p, path.Clean(p))
	}
	return module.CheckFilePath(p)
}
