package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rbrovko/SwiftLint/internal/rule"
	"github.com/rbrovko/SwiftLint/internal/rules"
)

func newRulesCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List the available rules",
		Long: `List every built-in rule with its kind, default severity and whether it is
enabled by the current configuration. With a rule ID, print that rule's full
description including its example corpora.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.OutOrStdout(), a, format, args)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table|yaml|json)")
	return cmd
}

type ruleRow struct {
	rule.Description `yaml:",inline"`
	Enabled          bool `yaml:"enabled" json:"enabled"`
}

func runRules(out io.Writer, a *app, format string, args []string) error {
	reg, err := rules.NewRegistry()
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(nil)
	if err != nil {
		return err
	}
	configs, err := cfg.Resolve(reg)
	if err != nil {
		return err
	}

	ids := reg.IDs()
	if len(args) == 1 {
		if _, ok := reg.Lookup(args[0]); !ok {
			return fmt.Errorf("unknown rule %q", args[0])
		}
		ids = args[:1]
	}
	rows := make([]ruleRow, 0, len(ids))
	for _, id := range ids {
		r, _ := reg.Lookup(id)
		d := r.Description()
		eff := configs.For(d)
		d.Severity = eff.Severity
		if len(args) == 0 {
			d.NonTriggering, d.Triggering, d.Corrections = nil, nil, nil
		}
		rows = append(rows, ruleRow{Description: d, Enabled: eff.Enabled})
	}

	switch strings.ToLower(format) {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		renderRulesTable(out, rows)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be table, yaml or json)", format)
	}
}

func renderRulesTable(out io.Writer, rows []ruleRow) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Identifier", "Name", "Kind", "Correctable", "Severity", "Enabled"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	enabled := 0
	for _, r := range rows {
		if r.Enabled {
			enabled++
		}
		table.Append([]string{
			r.ID,
			r.Name,
			r.Kind.String(),
			yesNo(r.Correctable),
			r.Severity.String(),
			yesNo(r.Enabled),
		})
	}
	table.SetFooter([]string{fmt.Sprintf("%d rules", len(rows)), "", "", "", "", fmt.Sprintf("%d enabled", enabled)})
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
