package wizards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// ConfigResult holds the result of the config wizard.
type ConfigResult struct {
	Cancelled bool
	Config    config.ProjectConfig
	SavePath  string
}

// ConfigWizard guides users through creating datalad.yaml.
type ConfigWizard struct {
	step configStep

	// Extractor selection
	extractors   []extractorChoice
	extractorIdx int

	// Mode toggles
	modeIdx         int
	strict          bool
	skipDerivatives bool

	// Aggregate store directory
	outputInput textinput.Model

	// Seeded from an already saved configuration
	hasExisting bool

	// Result
	result ConfigResult

	// Dimensions
	width  int
	height int

	// Styles and keys
	styles wizardStyles
	keys   wizardKeys
}

type configStep int

const (
	configStepExtractor configStep = iota
	configStepModes
	configStepOutput
	configStepReview
	configStepDone
)

type extractorChoice struct {
	Name        string
	Description string
}

func defaultExtractorChoices() []extractorChoice {
	return []extractorChoice{
		{Name: datalad.DefaultExtractor, Description: "Dataset descriptor, subject table, and per-file records"},
		{Name: "audio", Description: "ID3/Vorbis/MP4 tags from audio files"},
	}
}

// NewConfigWizard creates a new config wizard.
func NewConfigWizard() ConfigWizard {
	output := textinput.New()
	output.Placeholder = datalad.AggregateDirName
	output.CharLimit = 256
	output.Width = 40

	return ConfigWizard{
		step:        configStepExtractor,
		extractors:  defaultExtractorChoices(),
		outputInput: output,
		width:       80,
		height:      24,
		styles:      defaultWizardStyles(),
		keys:        defaultWizardKeys(),
	}
}

// WithExisting seeds the wizard's answers from an already saved configuration.
func (w ConfigWizard) WithExisting(cfg config.ProjectConfig) ConfigWizard {
	w.hasExisting = true
	w.strict = cfg.Extraction.Strict
	w.skipDerivatives = cfg.Extraction.SkipDerivatives
	w.outputInput.SetValue(cfg.Aggregate.Output)
	for i, e := range w.extractors {
		if e.Name == cfg.Extraction.Extractor {
			w.extractorIdx = i
			break
		}
	}
	return w
}

// Init implements tea.Model.
func (w ConfigWizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (w ConfigWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case configStepExtractor:
			return w.updateExtractor(msg)
		case configStepModes:
			return w.updateModes(msg)
		case configStepOutput:
			return w.updateOutput(msg)
		case configStepReview:
			return w.updateReview(msg)
		}
	}

	return w, nil
}

func (w ConfigWizard) updateExtractor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.extractorIdx > 0 {
			w.extractorIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.extractorIdx < len(w.extractors)-1 {
			w.extractorIdx++
		}
	case key.Matches(msg, w.keys.Select):
		w.step = configStepModes
	case key.Matches(msg, w.keys.Back):
		w.result.Cancelled = true
		return w, tea.Quit
	}
	return w, nil
}

func (w ConfigWizard) updateModes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Up):
		if w.modeIdx > 0 {
			w.modeIdx--
		}
	case key.Matches(msg, w.keys.Down):
		if w.modeIdx < 1 {
			w.modeIdx++
		}
	case key.Matches(msg, w.keys.Select), msg.String() == " ":
		if w.modeIdx == 0 {
			w.strict = !w.strict
		} else {
			w.skipDerivatives = !w.skipDerivatives
		}
	case msg.String() == "n":
		// Next step
		w.step = configStepOutput
		return w, w.outputInput.Focus()
	case key.Matches(msg, w.keys.Back):
		w.step = configStepExtractor
	}
	return w, nil
}

func (w ConfigWizard) updateOutput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.outputInput.Blur()
		w.step = configStepReview
	case key.Matches(msg, w.keys.Back):
		w.outputInput.Blur()
		w.step = configStepModes
	default:
		var cmd tea.Cmd
		w.outputInput, cmd = w.outputInput.Update(msg)
		return w, cmd
	}
	return w, nil
}

func (w ConfigWizard) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, w.keys.Select):
		w.buildConfig()
		w.step = configStepDone
		return w, tea.Quit
	case key.Matches(msg, w.keys.Back):
		w.step = configStepOutput
		return w, w.outputInput.Focus()
	}
	return w, nil
}

func (w *ConfigWizard) buildConfig() {
	w.result.Config = w.draftConfig()
	w.result.SavePath = config.ConfigFileName
}

func (w ConfigWizard) draftConfig() config.ProjectConfig {
	return config.ProjectConfig{
		Extraction: config.ExtractionDefaults{
			Extractor:       w.extractors[w.extractorIdx].Name,
			Strict:          w.strict,
			SkipDerivatives: w.skipDerivatives,
		},
		Aggregate: config.AggregateDefaults{
			Output: strings.TrimSpace(w.outputInput.Value()),
		},
	}
}

// View implements tea.Model.
func (w ConfigWizard) View() string {
	var b strings.Builder

	b.WriteString(w.styles.Title.Render("datalad-meta - Configuration Builder"))
	b.WriteString("\n")

	switch w.step {
	case configStepExtractor:
		b.WriteString(w.viewExtractor())
	case configStepModes:
		b.WriteString(w.viewModes())
	case configStepOutput:
		b.WriteString(w.viewOutput())
	case configStepReview:
		b.WriteString(w.viewReview())
	}

	return b.String()
}

func (w ConfigWizard) viewExtractor() string {
	var b strings.Builder

	if w.hasExisting {
		b.WriteString(w.styles.Success.Render("✓ Editing existing "))
		b.WriteString(config.ConfigFileName)
		b.WriteString("\n\n")
	}

	b.WriteString(w.styles.Subtitle.Render("Default extractor"))
	b.WriteString("\n\n")

	for i, e := range w.extractors {
		cursor := "  "
		style := w.styles.Unselected
		symbol := "○"

		if i == w.extractorIdx {
			cursor = ""
			style = w.styles.Selected
			symbol = "●"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + e.Name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(e.Description))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • enter select • esc cancel"))

	return b.String()
}

func (w ConfigWizard) viewModes() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Extraction modes"))
	b.WriteString("\n\n")

	rows := []struct {
		on   bool
		name string
		desc string
	}{
		{w.strict, "Strict extraction", "Stop at the first unreadable metadata source"},
		{w.skipDerivatives, "Skip derivatives", "Leave derivatives/ and sourcedata/ out of content extraction"},
	}

	for i, row := range rows {
		cursor := "  "
		style := w.styles.Unselected
		if i == w.modeIdx {
			cursor = ""
			style = w.styles.Selected
		}

		box := "[ ]"
		if row.on {
			box = "[x]"
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(box + " " + row.name))
		b.WriteString("\n")
		b.WriteString(w.styles.Description.Render(row.desc))
		b.WriteString("\n")
	}

	b.WriteString(w.styles.Help.Render("\n↑/↓ navigate • space toggle • n next step • esc back"))

	return b.String()
}

func (w ConfigWizard) viewOutput() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Aggregate store location"))
	b.WriteString("\n")
	b.WriteString(w.styles.Description.Render("Relative paths resolve against the dataset root. Leave blank for the default."))
	b.WriteString("\n\n")

	b.WriteString(w.styles.Label.Render("Store directory"))
	b.WriteString("\n")
	b.WriteString(w.styles.FocusedBox.Render(w.outputInput.View()))
	b.WriteString("\n")

	b.WriteString(w.styles.Help.Render("\nenter continue • esc back"))

	return b.String()
}

func (w ConfigWizard) viewReview() string {
	var b strings.Builder

	b.WriteString(w.styles.Subtitle.Render("Review Configuration"))
	b.WriteString("\n\n")

	yamlBytes, _ := yaml.Marshal(w.draftConfig())
	b.WriteString(w.styles.Box.Render(strings.TrimRight(string(yamlBytes), "\n")))
	b.WriteString("\n")

	b.WriteString(w.styles.Help.Render(fmt.Sprintf("\nenter save to %s • esc go back", config.ConfigFileName)))

	return b.String()
}

// Result returns the wizard result.
func (w ConfigWizard) Result() ConfigResult {
	return w.result
}

// SaveConfig saves the configuration to datalad.yaml.
func (w ConfigWizard) SaveConfig(dir string) error {
	path := filepath.Join(dir, config.ConfigFileName)

	data, err := yaml.Marshal(w.result.Config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RunConfigWizard executes the config wizard. An existing configuration,
// when present, pre-seeds the answers.
func RunConfigWizard(existing *config.ProjectConfig) (ConfigResult, error) {
	wizard := NewConfigWizard()
	if existing != nil {
		wizard = wizard.WithExisting(*existing)
	}
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	model, err := p.Run()
	if err != nil {
		return ConfigResult{Cancelled: true}, err
	}

	return model.(ConfigWizard).Result(), nil
}
