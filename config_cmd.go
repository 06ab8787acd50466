package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
)

const defaultConfig = `# audiblez configuration

# narration voice; run "audiblez voices" for the catalog
# voice: "af_sky"

# narration speed multiplier, 0.5-2.0
# speed: 1.0

# compute device: "cpu", "cuda" or "apple"
# engine: "cpu"

# folder the audiobook is written to
# output: "."

# keep the intermediate per-chapter WAV files after assembly
# keep-wavs: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the audiblez config file",
	Long:    paragraph(fmt.Sprintf("Let's %s the configuration, shall we?", keyword("edit"))),
	Example: paragraph("audiblez config\n# Your editor will open with the config file."),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Audiblez", configFile)
		if err != nil {
			return err
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return err
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

// ensureConfigFile creates the config file with commented defaults if it
// doesn't exist yet.
func ensureConfigFile() error {
	if ext := filepath.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported config type: use '%s' or '%s'",
			ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return err
		}
		f, err := os.Create(configFile)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck

		if _, err := f.WriteString(defaultConfig); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}
