package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/forgelight/reflect/archive"
	"github.com/forgelight/reflect/meta"
)

var dumpFormat string

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "", "Output format: yaml or json (overrides config)")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Serialize a sample instance",
	Long:  "Serialize a sample Character instance, showing the default-value, Force, and Discard serialization policy in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format := cfg.Format
		if dumpFormat != "" {
			format = dumpFormat
		}

		reg := meta.NewRegistry()
		registerDemoTypes(reg)

		instance := sampleCharacter()
		instance.DebugTint = 0xFF00FF // present in memory, absent from output

		if format == "json" {
			return archive.EncodeJSON(os.Stdout, reg, instance)
		}
		return archive.EncodeYAML(os.Stdout, reg, instance)
	},
}
