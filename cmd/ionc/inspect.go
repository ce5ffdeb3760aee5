package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"ionc/internal/backend/cgen"
	"ionc/internal/hir"
	"ionc/internal/snapshot"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <snapshot>",
	Short: "Summarize a program snapshot and its runtime typeids",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	inspectCmd.Flags().Bool("types", false, "list every type slot with its typeid")
	inspectCmd.Flags().Bool("fullgen", false, "treat every declaration as reachable")
}

type packageSummary struct {
	Path   string `json:"path" msgpack:"path"`
	Prefix string `json:"prefix" msgpack:"prefix"`
	Decls  int    `json:"decls" msgpack:"decls"`
}

type inspectPayload struct {
	Snapshot  string           `json:"snapshot" msgpack:"snapshot"`
	Digest    string           `json:"digest" msgpack:"digest"`
	Packages  []packageSummary `json:"packages" msgpack:"packages"`
	Symbols   map[string]int   `json:"symbols" msgpack:"symbols"`
	Reachable map[string]int   `json:"reachability" msgpack:"reachability"`
	Types     int              `json:"types" msgpack:"types"`
	Tuples    int              `json:"tuples" msgpack:"tuples"`
	TypeRows  []cgen.TypeRow   `json:"type_rows,omitempty" msgpack:"type_rows,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	withTypes, err := cmd.Flags().GetBool("types")
	if err != nil {
		return err
	}
	fullGen, err := cmd.Flags().GetBool("fullgen")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", format)
	}

	prog, sum, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}
	payload := summarize(prog)
	payload.Snapshot = args[0]
	payload.Digest = fmt.Sprintf("%x", sum[:])
	if withTypes {
		if payload.TypeRows, err = cgen.DescribeTypes(prog, cgen.Options{FullGen: fullGen}); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "msgpack":
		return msgpack.NewEncoder(out).Encode(payload)
	default:
		renderInspectPretty(out, &payload)
		return nil
	}
}

func summarize(prog *hir.Program) inspectPayload {
	p := inspectPayload{
		Symbols:   make(map[string]int),
		Reachable: make(map[string]int),
		Types:     prog.Types.Len() - 1,
		Tuples:    len(prog.Types.Tuples()),
	}
	for _, id := range prog.PackageIDs() {
		pkg := prog.Package(id)
		p.Packages = append(p.Packages, packageSummary{Path: pkg.Path, Prefix: cgen.PackagePrefix(pkg), Decls: len(pkg.Decls)})
	}
	for _, id := range prog.Sorted {
		sym := prog.Sym(id)
		if sym == nil {
			continue
		}
		p.Symbols[sym.Kind.String()]++
		p.Reachable[sym.Reachable.String()]++
	}
	return p
}

func renderInspectPretty(out io.Writer, p *inspectPayload) {
	head := lipgloss.NewStyle().Bold(true)
	fmt.Fprintf(out, "%s %s\n", head.Render("snapshot"), p.Snapshot)
	fmt.Fprintf(out, "%s %s\n", head.Render("digest  "), p.Digest)
	fmt.Fprintf(out, "%s %d (%d tuples)\n\n", head.Render("types   "), p.Types, p.Tuples)

	pkgs := table.New().Border(lipgloss.NormalBorder()).Headers("PACKAGE", "PREFIX", "DECLS")
	for _, pkg := range p.Packages {
		pkgs.Row(pkg.Path, pkg.Prefix, strconv.Itoa(pkg.Decls))
	}
	fmt.Fprintln(out, pkgs.Render())

	syms := table.New().Border(lipgloss.NormalBorder()).Headers("SYMBOLS", "COUNT")
	for _, k := range []hir.SymbolKind{hir.SymbolType, hir.SymbolFunc, hir.SymbolVar, hir.SymbolConst} {
		syms.Row(k.String(), strconv.Itoa(p.Symbols[k.String()]))
	}
	for _, r := range []hir.Reachability{hir.ReachableNatural, hir.ReachableForced, hir.Unreachable} {
		syms.Row(r.String(), strconv.Itoa(p.Reachable[r.String()]))
	}
	fmt.Fprintln(out, syms.Render())

	if len(p.TypeRows) == 0 {
		return
	}
	rows := table.New().Border(lipgloss.NormalBorder()).Headers("ID", "KIND", "C TYPE", "SIZE", "TYPEID")
	for _, r := range p.TypeRows {
		word := fmt.Sprintf("0x%016x", r.Word)
		if r.Excluded {
			word += " (excluded)"
		}
		rows.Row(strconv.Itoa(int(r.ID)), r.Kind, r.CDecl, strconv.Itoa(r.Size), word)
	}
	fmt.Fprintln(out, rows.Render())
}
