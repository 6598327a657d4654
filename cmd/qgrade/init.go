package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/qgrade/internal/config"
	"github.com/ludo-technologies/qgrade/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a qgrade configuration file",
		Long: `Generate a documented qgrade configuration file with sensible defaults.

By default, creates .qgrade.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create .qgrade.yaml in current directory
  qgrade init

  # Custom output path
  qgrade init --config qgrade.yaml

  # Overwrite existing file
  qgrade init --force

  # Generate smaller config with essential options only
  qgrade init --minimal

  # Interactive setup wizard
  qgrade init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")
	out := cmd.OutOrStdout()

	opts := config.DefaultTemplateOptions()

	if interactive {
		var err error
		opts, configPath, err = runInteractiveSetup(out, configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(opts)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'qgrade grade <export...>' to grade your project.")

	return nil
}

func runInteractiveSetup(out io.Writer, defaultConfigPath string) (config.TemplateOptions, string, error) {
	opts := config.DefaultTemplateOptions()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "qgrade Configuration Setup")
	fmt.Fprintln(out, "==========================")
	fmt.Fprintln(out)

	projectTypes := []struct {
		Label string
		Value config.ProjectType
	}{
		{"Generic", config.ProjectTypeGeneric},
		{"Rust (cargo)", config.ProjectTypeRust},
		{"C/C++", config.ProjectTypeCpp},
		{"Java (maven/gradle)", config.ProjectTypeJava},
	}

	projectPrompt := promptui.Select{
		Label: "What type of project is this?",
		Items: projectTypes,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "\U0001F449 {{ .Label | cyan }}",
			Inactive: "   {{ .Label | white }}",
			Selected: "\U00002705 {{ .Label | green }}",
		},
	}

	projectIdx, _, err := projectPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("project selection cancelled: %w", err)
	}
	opts.ProjectType = projectTypes[projectIdx].Value

	sourcesPrompt := promptui.Prompt{
		Label:   "Export files (comma separated, empty for none)",
		Default: "",
	}
	sources, err := sourcesPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("sources input cancelled: %w", err)
	}
	opts.Sources = splitList(sources)

	markerPrompt := promptui.Prompt{
		Label:   "Ignore marker",
		Default: opts.Marker,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("marker cannot be empty")
			}
			return nil
		},
	}
	marker, err := markerPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("marker input cancelled: %w", err)
	}
	opts.Marker = strings.TrimSpace(marker)

	rootPrompt := promptui.Prompt{
		Label:   "Project root (exported file names are relative to it)",
		Default: opts.ProjectRoot,
	}
	root, err := rootPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("project root input cancelled: %w", err)
	}
	if root = strings.TrimSpace(root); root != "" {
		opts.ProjectRoot = root
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	outputPath, err := outputPrompt.Run()
	if err != nil {
		return opts, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Fprintln(out)
	return opts, outputPath, nil
}

// splitList splits comma separated input, dropping blanks
func splitList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
