package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

const layoutFile = "layout.html"

//go:embed templates/*.html
var embedded embed.FS

type templateMap map[string]*template.Template

// DefaultTemplates returns the pages shipped with the binary.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// parsePages clones the layout for every page in fsys so that each page can define its own blocks.
func parsePages(fsys fs.FS) (templateMap, error) {
	layoutTmpl, err := template.New("layout").ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout %q: %w", layoutFile, err)
	}

	tmplMap := make(templateMap)
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk templates at path %q: %w", p, err)
		}

		const suffix = ".html"
		if d.IsDir() || !strings.HasSuffix(p, suffix) || path.Base(p) == layoutFile {
			return nil
		}

		clone, err := layoutTmpl.Clone()
		if err != nil {
			return fmt.Errorf("clone layout: %w", err)
		}

		page, err := clone.ParseFS(fsys, p)
		if err != nil {
			return fmt.Errorf("parse page %q: %w", p, err)
		}

		name := strings.TrimSuffix(p, suffix)
		tmplMap[name] = page
		slog.Debug("parsed page", "path", p, "name", name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pages templates: %w", err)
	}

	return tmplMap, nil
}

func (m templateMap) render(tmplName string, data map[string]string) (string, error) {
	tmpl, ok := m[tmplName]
	if !ok {
		return "", fmt.Errorf("template does not exist: %s", tmplName)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		return "", fmt.Errorf("execute template %q: %w", tmplName, err)
	}
	return buf.String(), nil
}
