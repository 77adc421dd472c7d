package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/syssam/pygen/compiler/gen"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the data classes data models resolve to",
		Example: `  pygen inspect -i model.yaml
  pygen inspect -i model.yaml --fields`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			g, err := cmdCtx.Build()
			if err != nil {
				return err
			}
			fields, _ := cmd.Flags().GetBool("fields")
			renderClasses(cmd.OutOrStdout(), g)
			if fields {
				for _, dc := range g.DataClasses {
					renderFields(cmd.OutOrStdout(), dc)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("fields", false, "also list the fields of every data class")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderClasses(w io.Writer, g *gen.Graph) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Class", "View", "Kind", "Fields", "Writable", "Interface", "Implements"})
	for _, dc := range g.DataClasses {
		var implements []string
		for _, p := range dc.Implements() {
			implements = append(implements, p.Name)
		}
		t.AppendRow(table.Row{
			dc.Name,
			dc.ViewID.String(),
			string(dc.UsedFor),
			len(dc.Fields()),
			yesNo(dc.IsWritable()),
			yesNo(dc.IsInterface()),
			strings.Join(implements, ", "),
		})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d data classes)\n", len(g.DataClasses))
}

func renderFields(w io.Writer, dc *gen.DataClass) {
	_, _ = fmt.Fprintf(w, "\n%s\n", dc.Name)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Property", "Kind", "Type", "Read only"})
	for _, f := range dc.Fields() {
		spec, err := gen.ExportField(f)
		if err != nil {
			continue
		}
		typ := spec.PythonType
		if spec.Target != "" {
			typ = spec.Target
		}
		t.AppendRow(table.Row{spec.Name, spec.PropName, spec.Kind, typ, yesNo(spec.ReadOnly)})
	}
	t.Render()
}
