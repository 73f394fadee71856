// Package tui provides the interactive brief form. Tab and shift+tab move
// between fields, enter advances and submits from the last field. Submitting
// runs Brief.Validate and keeps the form open while it fails.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vivaneiona/contentcal"
)

// ErrCancelled is returned by Run when the user leaves the form with esc or ctrl+c.
var ErrCancelled = errors.New("brief form cancelled")

type fieldID int

const (
	fieldBrandName fieldID = iota
	fieldIndustry
	fieldVoice
	fieldAudience
	fieldGoals
	fieldPlatforms
	fieldPostsPerWeek
	fieldThemes
	fieldValues
	fieldCompetitors
	fieldEvents
	fieldAvoid
	fieldCount
)

type fieldSpec struct {
	label       string
	placeholder string
	required    bool
}

var fields = [fieldCount]fieldSpec{
	fieldBrandName:    {"Brand name", "Acme Co", true},
	fieldIndustry:     {"Industry", "Developer tools", true},
	fieldVoice:        {"Brand voice", strings.Join(contentcal.BrandVoices, " | "), false},
	fieldAudience:     {"Target audience", "Engineers at early-stage startups", true},
	fieldGoals:        {"Content goals", "Awareness, community growth", true},
	fieldPlatforms:    {"Platforms", "tiktok, twitter, instagram", false},
	fieldPostsPerWeek: {"Posts per week", "1-5", false},
	fieldThemes:       {"Content themes", "optional", false},
	fieldValues:       {"Brand values", "optional", false},
	fieldCompetitors:  {"Competitors", "optional", false},
	fieldEvents:       {"Upcoming events", "optional", false},
	fieldAvoid:        {"Topics to avoid", "optional", false},
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#667eea")).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Width(22)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#764ba2")).Bold(true)
	requiredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e4405f"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53e3e")).MarginTop(1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096")).MarginTop(1)
)

// Form is the bubbletea model of the brief form.
type Form struct {
	inputs    []textinput.Model
	focus     int
	err       error
	submitted bool
	cancelled bool
	brief     contentcal.Brief
}

// NewForm creates a form prefilled from initial.
func NewForm(initial contentcal.Brief) Form {
	f := Form{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = fields[i].placeholder
		ti.Prompt = ""
		ti.CharLimit = 500
		ti.Width = 60
		f.inputs[i] = ti
	}

	set := func(id fieldID, v string) { f.inputs[id].SetValue(v) }
	set(fieldBrandName, initial.BrandName)
	set(fieldIndustry, initial.Industry)
	set(fieldVoice, initial.BrandVoice)
	set(fieldAudience, initial.TargetAudience)
	set(fieldGoals, initial.ContentGoals)
	platforms := make([]string, len(initial.Platforms))
	for i, p := range initial.Platforms {
		platforms[i] = string(p)
	}
	set(fieldPlatforms, strings.Join(platforms, ", "))
	if initial.PostsPerWeek > 0 {
		set(fieldPostsPerWeek, strconv.Itoa(initial.PostsPerWeek))
	}
	set(fieldThemes, initial.ContentThemes)
	set(fieldValues, initial.BrandValues)
	set(fieldCompetitors, initial.Competitors)
	set(fieldEvents, initial.UpcomingEvents)
	set(fieldAvoid, initial.AvoidTopics)

	f.inputs[0].Focus()
	return f
}

func (f Form) Init() tea.Cmd { return textinput.Blink }

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			f.cancelled = true
			return f, tea.Quit
		case "tab", "down":
			return f.moveFocus(1), nil
		case "shift+tab", "up":
			return f.moveFocus(-1), nil
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return f.moveFocus(1), nil
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f Form) moveFocus(delta int) Form {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (f Form) submit() (tea.Model, tea.Cmd) {
	b, err := f.collect()
	if err == nil {
		err = b.Validate()
	}
	if err != nil {
		f.err = err
		return f, nil
	}
	f.err = nil
	f.brief = b.WithDefaults()
	f.submitted = true
	return f, tea.Quit
}

func (f Form) collect() (contentcal.Brief, error) {
	v := func(id fieldID) string { return strings.TrimSpace(f.inputs[id].Value()) }
	b := contentcal.Brief{
		BrandName:      v(fieldBrandName),
		Industry:       v(fieldIndustry),
		BrandVoice:     v(fieldVoice),
		TargetAudience: v(fieldAudience),
		ContentGoals:   v(fieldGoals),
		Platforms:      contentcal.ParsePlatforms(v(fieldPlatforms)),
		ContentThemes:  v(fieldThemes),
		BrandValues:    v(fieldValues),
		Competitors:    v(fieldCompetitors),
		UpcomingEvents: v(fieldEvents),
		AvoidTopics:    v(fieldAvoid),
	}
	if s := v(fieldPostsPerWeek); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return b, fmt.Errorf("posts per week must be a number, got %q", s)
		}
		b.PostsPerWeek = n
	}
	return b, nil
}

func (f Form) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Content Calendar Brief"))
	sb.WriteString("\n")
	for i, in := range f.inputs {
		label := fields[i].label
		if fields[i].required {
			label += requiredStyle.Render(" *")
		}
		if i == f.focus {
			label = focusedStyle.Render("> ") + label
		} else {
			label = "  " + label
		}
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(in.View())
		sb.WriteString("\n")
	}
	if f.err != nil {
		sb.WriteString(errorStyle.Render("✗ " + f.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("tab/shift+tab move • enter next/submit • esc cancel"))
	sb.WriteString("\n")
	return sb.String()
}

// Brief returns the submitted brief with defaults applied.
func (f Form) Brief() contentcal.Brief { return f.brief }

// Submitted reports whether the form closed with a valid brief.
func (f Form) Submitted() bool { return f.submitted }

// Err is the validation error currently shown, if any.
func (f Form) Err() error { return f.err }

// Run shows the form on the terminal and returns the submitted brief.
func Run(initial contentcal.Brief, opts ...tea.ProgramOption) (contentcal.Brief, error) {
	final, err := tea.NewProgram(NewForm(initial), opts...).Run()
	if err != nil {
		return contentcal.Brief{}, fmt.Errorf("brief form: %w", err)
	}
	f, ok := final.(Form)
	if !ok || !f.Submitted() {
		return contentcal.Brief{}, ErrCancelled
	}
	return f.Brief(), nil
}
