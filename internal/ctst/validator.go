package ctst

import (
	"net/url"

	"github.com/containust/containust/internal/primitives"
)

// recognizedRemoteSchemes are the import URL schemes the remote-import
// fetcher understands; any other scheme that parses as a URL is rejected
// at load time rather than silently treated as a local path.
var recognizedRemoteSchemes = map[string]bool{
	"git+ssh":   true,
	"git+https": true,
	"https":     true,
}

// IsRemoteImport reports whether source parses as a URL with a recognized
// scheme; all else (including unparseable strings) is a local path
// relative to the importing file's directory.
func IsRemoteImport(source string) bool {
	u, err := url.Parse(source)
	return err == nil && u.Scheme != "" && recognizedRemoteSchemes[u.Scheme]
}

// Validate runs the static semantic checks over a parsed Composition:
// component-name uniqueness, connection endpoints exist, and every
// component without a template parent declares an image. It is
// deterministic and pure; it reports once, on the first failure found, in
// declaration order (names, then connections, then images).
func Validate(comp *Composition) error {
	for _, imp := range comp.Imports {
		if err := validateImportScheme(imp.Source); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(comp.Components))
	for _, c := range comp.Components {
		if seen[c.Name] {
			return primitives.NewConfig("duplicate component name %q", c.Name)
		}
		seen[c.Name] = true
	}

	for _, conn := range comp.Connections {
		if !seen[conn.From] {
			return primitives.NewConfig("connection endpoint %q is not a defined component", conn.From)
		}
		if !seen[conn.To] {
			return primitives.NewConfig("connection endpoint %q is not a defined component", conn.To)
		}
	}

	for _, c := range comp.Components {
		if c.TemplateParent == "" && c.Image == "" {
			return primitives.NewConfig("component %q has no template parent and declares no image", c.Name)
		}
	}

	return nil
}

// validateImportScheme rejects an import source that parses as a URL with
// an unrecognized scheme. Sources with no scheme (or that fail to parse as
// a URL at all, e.g. a relative path containing characters url.Parse
// tolerates but a scheme check would never see) are treated as local
// paths and pass through unchecked.
func validateImportScheme(source string) error {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		return nil
	}
	if !recognizedRemoteSchemes[u.Scheme] {
		return primitives.NewConfig("import %q has unrecognized URL scheme %q", source, u.Scheme)
	}
	return nil
}

// ParseAndValidate is the composed load-time entry point: lex, parse,
// validate.
func ParseAndValidate(src string) (*Composition, error) {
	comp, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if err := Validate(comp); err != nil {
		return nil, err
	}
	return comp, nil
}
