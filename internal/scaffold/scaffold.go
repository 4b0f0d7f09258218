// Package scaffold initializes new datasets from embedded templates.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

//go:embed all:templates
var templatesFS embed.FS

// GetTemplatesFS returns the embedded templates filesystem for testing purposes.
// This allows tests to access embedded templates without filesystem I/O.
func GetTemplatesFS() embed.FS {
	return templatesFS
}

// Scaffolder creates dataset skeletons from templates
type Scaffolder struct {
	log datalad.Logger
}

// NewScaffolder creates a new Scaffolder instance
func NewScaffolder(log datalad.Logger) *Scaffolder {
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Scaffolder{log: log}
}

// CreateDataset scaffolds a new dataset from a template, substituting the
// dataset name, license, and authors into the template files.
func (s *Scaffolder) CreateDataset(config datalad.InitConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	templatePath := fmt.Sprintf("templates/%s", config.Template)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return fmt.Errorf("template '%s' not found: %w", config.Template, err)
	}

	isEmpty, err := isDirectoryEmpty(config.TargetPath)
	if err != nil {
		return fmt.Errorf("failed to check target directory: %w", err)
	}
	if !isEmpty {
		return fmt.Errorf("%w: '%s'\n\ninit requires an empty directory to avoid overwriting existing files.\n\nOptions:\n• Choose a different location\n• Remove existing files manually\n• Use a new directory name", datalad.ErrTargetNotEmpty, config.TargetPath)
	}

	if err := os.MkdirAll(config.TargetPath, 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	s.log.Verbose("Creating dataset '%s' at %s with template '%s'", config.Name, config.TargetPath, config.Template)

	if err := s.copyTemplateFiles(templatePath, config.TargetPath, substitutions(config)); err != nil {
		return fmt.Errorf("failed to copy template files: %w", err)
	}

	s.log.Verbose("Dataset created successfully")
	return nil
}

// copyTemplateFiles recursively copies files from embedded template to target directory
func (s *Scaffolder) copyTemplateFiles(templatePath, targetPath string, subs map[string]string) error {
	return fs.WalkDir(templatesFS, templatePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip the root template directory itself
		if path == templatePath {
			return nil
		}

		// Calculate relative path from template root
		relPath, err := filepath.Rel(templatePath, path)
		if err != nil {
			return err
		}

		targetFilePath := filepath.Join(targetPath, relPath)

		if d.IsDir() {
			s.log.Verbose("Creating directory: %s", relPath)
			return os.MkdirAll(targetFilePath, 0755)
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		processed := processTemplate(string(content), subs)

		s.log.Verbose("Creating file: %s", relPath)
		if err := os.WriteFile(targetFilePath, []byte(processed), 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", targetFilePath, err)
		}

		return nil
	})
}

// substitutions builds the template variable map from the init
// configuration.
func substitutions(config datalad.InitConfig) map[string]string {
	authors := make([]any, 0, len(config.Authors))
	for _, a := range config.Authors {
		authors = append(authors, a)
	}
	return map[string]string{
		"{{DATASET_NAME}}": config.Name,
		"{{LICENSE}}":      config.License,
		"{{AUTHORS_JSON}}": oj.JSON(authors),
	}
}

// processTemplate replaces template variables in content
func processTemplate(content string, subs map[string]string) string {
	for variable, value := range subs {
		content = strings.ReplaceAll(content, variable, value)
	}
	return content
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}

	return templates, nil
}

// IsValidTemplate reports whether a template with the given name exists.
func IsValidTemplate(name string) bool {
	templates, err := ListTemplates()
	if err != nil {
		return false
	}
	for _, t := range templates {
		if t == name {
			return true
		}
	}
	return false
}

// isDirectoryEmpty checks if a directory is empty or doesn't exist.
// Returns (true, nil) if directory doesn't exist or is empty.
// A directory holding only the project configuration and .env counts as
// empty: those are written before init when the user configures first.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Directory doesn't exist - consider it "empty" (safe to create)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check directory: %w", err)
	}

	if !info.IsDir() {
		return false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return false, nil
		}
		switch entry.Name() {
		case "datalad.yaml", ".env":
			continue
		default:
			return false, nil
		}
	}
	return true, nil
}

// BuildFileTree creates a visual tree representation of the directory
// structure for post-init display.
func BuildFileTree(rootPath string) (string, error) {
	var sb strings.Builder

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		absPath = rootPath
	}

	sb.WriteString(absPath + "/\n")

	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip root directory itself
		if path == rootPath {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return err
		}

		depth := strings.Count(relPath, string(os.PathSeparator))

		indent := ""
		for i := 0; i < depth; i++ {
			indent += "│   "
		}

		// Determine if this is the last item in its directory
		parentDir := filepath.Dir(path)
		entries, err := os.ReadDir(parentDir)
		if err != nil {
			return err
		}

		isLast := false
		baseName := filepath.Base(path)
		for i, entry := range entries {
			if entry.Name() == baseName && i == len(entries)-1 {
				isLast = true
				break
			}
		}

		branch := "├── "
		if isLast {
			branch = "└── "
			if depth > 0 {
				indent = indent[:len(indent)-4] + "    "
			}
		}

		name := info.Name()
		if info.IsDir() {
			name += "/"
		}

		sb.WriteString(indent + branch + name + "\n")

		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to build file tree: %w", err)
	}

	return sb.String(), nil
}
