package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forgelight/reflect/meta"
)

var describeCmd = &cobra.Command{
	Use:   "describe [type]",
	Short: "Print the descriptor of a registered type",
	Long:  "Render the field table of one registered demonstration type, or of every type when no name is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.NoColor {
			color.NoColor = true
		}

		reg := meta.NewRegistry()
		registerDemoTypes(reg)

		if len(args) == 1 {
			s, ok := reg.FindByName(args[0])
			if !ok {
				return fmt.Errorf("unknown type %q (try: %s)", args[0], strings.Join(reg.Structures(), ", "))
			}
			describeStructure(reg, s)
			return nil
		}
		for _, name := range reg.Structures() {
			s, _ := reg.FindByName(name)
			describeStructure(reg, s)
			fmt.Println()
		}
		return nil
	},
}

func describeStructure(reg *meta.Registry, s *meta.Structure) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	if s.Base() != nil {
		header.Printf("%s", s.Name())
		dim.Printf(" : %s\n", s.Base().Name())
	} else {
		header.Printf("%s\n", s.Name())
	}
	dim.Printf("  base fields: %d, own fields: %d\n", s.GetBaseFieldCount(), s.NumFields())

	fmt.Printf("  %-4s %-28s %-9s %-7s %-6s %-6s %s\n",
		"idx", "name", "shape", "offset", "size", "count", "flags")
	for _, f := range s.Fields() {
		fmt.Printf("  %-4d %-28s %-9s %-7d %-6d %-6d %s\n",
			f.Index(), f.Name(), f.Shape(), f.Offset(), f.Size(), f.Count(), flagString(f.Flags()))
	}

	if derived := reg.DerivedOf(s); len(derived) > 0 {
		names := make([]string, len(derived))
		for i, d := range derived {
			names[i] = d.Name()
		}
		dim.Printf("  derived: %s\n", strings.Join(names, ", "))
	}
}

func flagString(flags meta.FieldFlags) string {
	if flags == 0 {
		return "-"
	}
	var parts []string
	for _, entry := range []struct {
		flag meta.FieldFlags
		name string
	}{
		{meta.FlagDiscard, "discard"},
		{meta.FlagForce, "force"},
		{meta.FlagShare, "share"},
		{meta.FlagHide, "hide"},
		{meta.FlagReadOnly, "readonly"},
	} {
		if flags.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, ",")
}
