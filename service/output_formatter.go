package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/qgrade/domain"
)

// Closing lines of the text report
const (
	MessageNoViolations       = "No violations found"
	MessageNoCritical         = "No critical violations found"
	MessageCriticalViolations = "Critical violations found, please fix them!"
)

// OutputFormatterImpl implements domain.OutputFormatter
type OutputFormatterImpl struct {
	color bool
}

// NewOutputFormatter creates a formatter. color only affects the text
// format and is still dropped for NO_COLOR and non-terminal writers.
func NewOutputFormatter(color bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{color: color}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write renders the response in the given format
func (f *OutputFormatterImpl) Write(response *domain.GradeResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// reportStyles are the text report styles bound to one renderer
type reportStyles struct {
	heading    lipgloss.Style
	section    lipgloss.Style
	grade      lipgloss.Style
	file       lipgloss.Style
	ignored    lipgloss.Style
	ignoredRow lipgloss.Style
}

func (f *OutputFormatterImpl) styles(writer io.Writer) reportStyles {
	renderer := lipgloss.NewRenderer(writer)
	if !f.color || os.Getenv("NO_COLOR") != "" {
		renderer.SetColorProfile(termenv.Ascii)
	}

	gray := lipgloss.Color("#828282")
	return reportStyles{
		heading:    renderer.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("1")),
		section:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		grade:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		file:       renderer.NewStyle().Foreground(lipgloss.Color("4")),
		ignored:    renderer.NewStyle().Italic(true).Foreground(gray),
		ignoredRow: renderer.NewStyle().Foreground(gray),
	}
}

// writeText writes the human readable report
func (f *OutputFormatterImpl) writeText(response *domain.GradeResponse, writer io.Writer) error {
	st := f.styles(writer)
	var b strings.Builder

	card := response.Card
	if card != nil {
		b.WriteString(st.heading.Render("Grading Scheme:") + "\n\n")

		b.WriteString(st.section.Render("Characteristic Grades:") + "\n")
		for _, cg := range card.Characteristics {
			if cg.Assumed {
				fmt.Fprintf(&b, "%s: %d%% (assumed)\n", cg.Characteristic.Name(), cg.Percentage)
				continue
			}
			fmt.Fprintf(&b, "%s: %d%% (%d/%d)\n", cg.Characteristic.Name(), cg.Percentage, cg.ViolatedFiles, cg.TotalFiles)
		}
		b.WriteString("\n")

		b.WriteString(st.section.Render("Attribute Grades:") + "\n")
		for _, ag := range card.Attributes {
			fmt.Fprintf(&b, "%s: %s\n", ag.Attribute.Name(), FormatGrade(ag.Grade))
		}
		b.WriteString("\n")

		b.WriteString(st.grade.Render("Final Grade: "+FormatGrade(card.FinalGrade)) + "\n\n")
	}

	if !response.HasViolations() {
		b.WriteString(MessageNoViolations + "\n")
		_, err := io.WriteString(writer, b.String())
		return err
	}

	b.WriteString(st.heading.Render("Violations found:") + "\n\n")
	for _, file := range response.Files {
		if file.Ignored {
			b.WriteString(st.ignored.Render(string(file.File)+" (IGNORED)") + "\n")
			for _, v := range file.Violations {
				b.WriteString(" - " + st.ignoredRow.Render(v.Describe()) + "\n")
			}
		} else {
			b.WriteString(st.file.Render(string(file.File)) + "\n")
			for _, v := range file.Violations {
				b.WriteString(" - " + v.Describe() + "\n")
			}
		}
		b.WriteString("\n")
	}

	if response.Passed {
		b.WriteString(MessageNoCritical + "\n")
	} else {
		b.WriteString(MessageCriticalViolations + "\n")
	}

	_, err := io.WriteString(writer, b.String())
	return err
}

// FormatGrade prints a grade with the fewest digits that round-trip
func FormatGrade(grade float64) string {
	return strconv.FormatFloat(grade, 'f', -1, 64)
}
