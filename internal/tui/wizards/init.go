package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmgolembiowski/datalad/internal/config"
)

// TemplateInfo holds template metadata for display.
type TemplateInfo struct {
	Name        string
	Description string
}

// DefaultTemplates returns the available template information.
func DefaultTemplates() []TemplateInfo {
	return []TemplateInfo{
		{Name: "basic", Description: "Single-subject starter with descriptor, README, and subject table"},
		{Name: "longitudinal", Description: "Multi-session layout with change log and task sidecar"},
	}
}

type licenseChoice struct {
	ID          string
	Description string
}

func defaultLicenseChoices() []licenseChoice {
	return []licenseChoice{
		{ID: "PD", Description: "Public domain, no restrictions"},
		{ID: "PDDL", Description: "Open Data Commons Public Domain Dedication and License"},
		{ID: "CC0-1.0", Description: "Creative Commons Zero 1.0 Universal"},
		{ID: "CC-BY-4.0", Description: "Creative Commons Attribution 4.0"},
		{ID: "", Description: "Decide later and leave the descriptor field blank"},
	}
}

// InitResult holds the result of the init wizard.
type InitResult struct {
	Cancelled    bool
	TargetDir    string
	Template     string
	Name         string
	License      string
	Authors      []string
	SetupConfig  bool
	ConfigResult ConfigResult
}

// InitWizard guides users through dataset initialization.
type InitWizard struct {
	step initStep

	// Target directory
	targetDir   string
	dirExists   bool
	dirNonEmpty bool

	// Template selection
	templates   []TemplateInfo
	templateIdx int

	// Descriptor fields
	nameInput    textinput.Model
	licenses     []licenseChoice
	licenseIdx   int
	authorsInput textinput.Model
	inputErr     string

	// Config setup choice
	setupConfig bool

	// Embedded config wizard
	cfgActive bool
	cfgWizard *ConfigWizard

	// Result
	result InitResult

	// Dimensions
	width  int
	height int

	// Styles and keys
	styles wizardStyles
	keys   wizardKeys
}

type initStep int

const (
	initStepDirectory initStep = iota
	initStepTemplate
	initStepName
	initStepLicense
	initStepAuthors
	initStepSetupChoice
	initStepConfig
	initStepComplete
)

// NewInitWizard creates a new init wizard.
func NewInitWizard(targetDir string, templates []TemplateInfo) InitWizard {
	if targetDir == "" {
		targetDir = "."
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		absPath = targetDir
	}

	name := textinput.New()
	name.Placeholder = "My Dataset"
	name.CharLimit = 128
	name.Width = 40
	name.SetValue(filepath.Base(absPath))

	authors := textinput.New()
	authors.Placeholder = "A. Author, B. Author"
	authors.CharLimit = 256
	authors.Width = 40

	exists, nonEmpty, _ := DirectoryExists(targetDir)

	return InitWizard{
		step:         initStepDirectory,
		targetDir:    targetDir,
		dirExists:    exists,
		dirNonEmpty:  nonEmpty,
		templates:    templates,
		nameInput:    name,
		licenses:     defaultLicenseChoices(),
		authorsInput: authors,
		width:        80,
		height:       24,
		styles:       defaultWizardStyles(),
		keys:         defaultWizardKeys(),
	}
}

// Init implements tea.Model.
func (w InitWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w InitWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.cfgActive && w.cfgWizard != nil {
		return w.updateConfigWizard(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.result.Cancelled = true
			return w, tea.Quit
		}

		switch w.step {
		case initStepDirectory:
			return w.updateDirectory(msg)
		case initStepTemplate:
			return w.updateTemplate(msg)
		case initStepName:
			return w.updateName(msg)
		case initStepLicense:
			return w.updateLicense(msg)
		case initStepAuthors:
			return w.updateAuthors(msg)
		case initStepSetupChoice:
			return w.updateSetupChoice(msg)
		case initStepComplete:
			return w.updateComplete(msg)
		}
	}

	return w, nil
}

func (w InitWizard) updateConfigWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.cfgWizard.Update(msg)
	cw := model.(ConfigWizard)
	w.cfgWizard = &cw

	// The embedded wizard finishing, either way, ends the whole program.
	if cw.result.Cancelled || cw.step == configStepDone {
		w.result.ConfigResult = cw.Result()
		w.step = initStepComplete
		return w, tea.Quit
	}

	return w, cmd
}

func (w InitWizard) updateDirectory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.step = initStepTemplate
	case key.Matches(msg, w.keys.Back), key.Matches(msg, w.keys.Quit):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w InitWizard) updateTemplate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.templateIdx > 0 {
			w.templateIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.templateIdx < len(w.templates)-1 {
			w.templateIdx++
		}
	case key.Matches(msg, w.keys.Select):
		w.result.Template = w.templates[w.templateIdx].Name
		w.step = initStepName
		return w, w.nameInput.Focus()
	case key.Matches(msg, w.keys.Back):
		w.step = initStepDirectory
	}
	return w, nil
}

func (w InitWizard) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		if strings.TrimSpace(w.nameInput.Value()) == "" {
			w.inputErr = "dataset name is required"
			return w, nil
		}
		w.inputErr = ""
		w.nameInput.Blur()
		w.step = initStepLicense
	case key.Matches(msg, w.keys.Back):
		w.inputErr = ""
		w.nameInput.Blur()
		w.step = initStepTemplate
	default:
		var cmd tea.Cmd
		w.nameInput, cmd = w.nameInput.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w InitWizard) updateLicense(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.licenseIdx > 0 {
			w.licenseIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.licenseIdx < len(w.licenses)-1 {
			w.licenseIdx++
		}
	case key.Matches(msg, w.keys.Select):
		w.step = initStepAuthors
		return w, w.authorsInput.Focus()
	case key.Matches(msg, w.keys.Back):
		w.step = initStepName
		return w, w.nameInput.Focus()
	}
	return w, nil
}

func (w InitWizard) updateAuthors(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.authorsInput.Blur()
		w.step = initStepSetupChoice
	case key.Matches(msg, w.keys.Back):
		w.authorsInput.Blur()
		w.step = initStepLicense
	default:
		var cmd tea.Cmd
		w.authorsInput, cmd = w.authorsInput.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w InitWizard) updateSetupChoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up), key.Matches(msg, w.keys.Down):
		w.setupConfig = !w.setupConfig
	case key.Matches(msg, w.keys.Select):
		w.finalizeResult()
		if w.setupConfig {
			cfg := NewConfigWizard()
			w.cfgActive = true
			w.cfgWizard = &cfg
			w.step = initStepConfig
			return w, cfg.Init()
		}
		w.step = initStepComplete
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = initStepAuthors
		return w, w.authorsInput.Focus()
	}
	return w, nil
}

func (w *InitWizard) finalizeResult() {
	w.result.TargetDir = w.targetDir
	w.result.Name = strings.TrimSpace(w.nameInput.Value())
	w.result.License = w.licenses[w.licenseIdx].ID
	w.result.Authors = splitAuthors(w.authorsInput.Value())
	w.result.SetupConfig = w.setupConfig
}

func splitAuthors(raw string) []string {
	var authors []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

func (w InitWizard) updateComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, w.keys.Select) {
		return w, tea.Quit
	}
	return w, nil
}

// View implements tea.Model.
func (w InitWizard) View() string {
	if w.cfgActive && w.cfgWizard != nil {
		return w.cfgWizard.View()
	}

	var b strings.Builder

	b.WriteString(w.styles.Title.Render("datalad-meta init - Dataset Setup"))
	b.WriteString("\n")

	switch w.step {
	case initStepDirectory:
		b.WriteString(w.viewDirectory())
	case initStepTemplate:
		b.WriteString(w.viewTemplate())
	case initStepName:
		b.WriteString(w.viewName())
	case initStepLicense:
		b.WriteString(w.viewLicense())
	case initStepAuthors:
		b.WriteString(w.viewAuthors())
	case initStepSetupChoice:
		b.WriteString(w.viewSetupChoice())
	case initStepComplete:
		b.WriteString(w.viewComplete())
	}

	return b.String()
}

func (w InitWizard) viewDirectory() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Target directory"))
	b.WriteString("\n\n")

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString("  " + absPath)
	b.WriteString("\n")

	switch {
	case !w.dirExists:
		b.WriteString(w.styles.Description.Render("Will be created."))
	case w.dirNonEmpty:
		b.WriteString(w.styles.Error.Render("  ⚠ Directory is not empty; init only proceeds in empty directories."))
	default:
		b.WriteString(w.styles.Description.Render("Exists and is empty."))
	}
	b.WriteString("\n")

	b.WriteString(w.styles.Help.Render("\nenter continue • esc cancel"))

	return b.String()
}

func (w InitWizard) viewTemplate() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Select a template"))
	b.WriteString("\n\n")

	for i, t := range w.templates {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if i == w.templateIdx {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + t.Name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(t.Description))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • esc back"))

	return b.String()
}

func (w InitWizard) viewName() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Dataset name"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Stored as the descriptor's Name field."))
	b.WriteString("\n\n")

	b.WriteString(w.styles.FocusedBox.Render(w.nameInput.View()))
	b.WriteString("\n")

	if w.inputErr != "" {
		b.WriteString(w.styles.Error.Render("✗ " + w.inputErr))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter continue • esc back"))

	return b.String()
}

func (w InitWizard) viewLicense() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("License"))
	b.WriteString("\n\n")

	for i, c := range w.licenses {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if i == w.licenseIdx {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		label := c.ID
		if label == "" {
			label = "(none)"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + label))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(c.Description))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • esc back"))

	return b.String()
}

func (w InitWizard) viewAuthors() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Authors"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Comma-separated, optional."))
	b.WriteString("\n\n")

	b.WriteString(w.styles.FocusedBox.Render(w.authorsInput.View()))
	b.WriteString("\n")

	b.WriteString(w.styles.Help.Render("\nenter continue • esc back"))

	return b.String()
}

func (w InitWizard) viewSetupChoice() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Write extraction defaults now?"))
	b.WriteString("\n\n")

	options := []struct {
		selected bool
		name     string
		desc     string
	}{
		{!w.setupConfig, "No, I'll configure later", "Creates the dataset without a " + config.ConfigFileName},
		{w.setupConfig, "Yes, pick extractor defaults (recommended)", "Writes " + config.ConfigFileName + " next to the descriptor"},
	}

	for _, opt := range options {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if opt.selected {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + opt.name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(opt.desc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ toggle • enter select • esc back"))

	return b.String()
}

func (w InitWizard) viewComplete() string {
	var b strings.Builder

	b.WriteString(w.styles.Success.Render("✓ Ready to create dataset"))
	b.WriteString("\n\n")

	absPath, _ := filepath.Abs(w.targetDir)
	b.WriteString(fmt.Sprintf("Directory: %s\n", absPath))
	b.WriteString(fmt.Sprintf("Template:  %s\n", w.result.Template))
	b.WriteString(fmt.Sprintf("Name:      %s\n", w.result.Name))
	if w.result.License != "" {
		b.WriteString(fmt.Sprintf("License:   %s\n", w.result.License))
	}
	if len(w.result.Authors) > 0 {
		b.WriteString(fmt.Sprintf("Authors:   %s\n", strings.Join(w.result.Authors, ", ")))
	}

	if w.result.SetupConfig && !w.result.ConfigResult.Cancelled {
		b.WriteString("\nExtraction defaults will be written to " + config.ConfigFileName + ".\n")
	}

	b.WriteString(w.styles.Help.Render("\nenter create dataset • esc cancel"))

	return b.String()
}

// Result returns the wizard result.
func (w InitWizard) Result() InitResult {
	return w.result
}

// RunInitWizard executes the init wizard. The config wizard runs embedded
// in the same program when the user opts into extraction defaults.
func RunInitWizard(targetDir string) (InitResult, error) {
	templates := DefaultTemplates()
	if len(templates) == 0 {
		return InitResult{Cancelled: true}, fmt.Errorf("no templates available")
	}

	wizard := NewInitWizard(targetDir, templates)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return InitResult{Cancelled: true}, err
	}

	return model.(InitWizard).Result(), nil
}

// ShowInitComplete displays the completion message after dataset creation.
func ShowInitComplete(targetDir string, template string, files []string) {
	absPath, _ := filepath.Abs(targetDir)

	fmt.Println()
	fmt.Println("✓ Dataset created successfully!")
	fmt.Println()
	fmt.Printf("%s/\n", absPath)

	for _, f := range files {
		rel, _ := filepath.Rel(targetDir, f)
		fmt.Printf("├── %s\n", rel)
	}

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. cd %s\n", targetDir)
	fmt.Println("  2. Add imaging files and fill in the README")
	fmt.Println("  3. Run: datalad-meta extract --content")
	fmt.Println()
}

// DirectoryExists checks if a directory exists and is not empty.
func DirectoryExists(path string) (bool, bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if !info.IsDir() {
		return false, false, fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return true, false, err
	}

	return true, len(entries) > 0, nil
}
