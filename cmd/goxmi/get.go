package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/uml"
)

// maxSuggestions bounds the "did you mean" list.
const maxSuggestions = 5

func (c *cli) newGetCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get FILE NAME",
		Short: "Show a class, enumeration or package by name",
		Example: `  goxmi get model.xmi Book
  goxmi get --format json model.xmi Genre`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadFile(cmd, args[0])
			if doc == nil {
				return err
			}
			return runGet(cmd.OutOrStdout(), doc, args[1], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")
	return cmd
}

func runGet(w io.Writer, doc *uml.Document, name, format string) error {
	var found any
	switch {
	case doc.FindClass(name) != nil:
		found = doc.FindClass(name)
	case doc.FindEnum(name) != nil:
		found = doc.FindEnum(name)
	case doc.FindPackage(name) != nil:
		found = doc.FindPackage(name)
	default:
		msg := fmt.Sprintf("no class, enumeration or package named %q", name)
		if hints := cliutil.Suggest(name, elementNames(doc), maxSuggestions); len(hints) > 0 {
			msg += "; did you mean " + strings.Join(hints, ", ") + "?"
		}
		return &exitCodeError{code: exitError, err: fmt.Errorf("%s", msg)}
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	switch v := found.(type) {
	case *uml.Class:
		printClass(w, doc, v)
	case *uml.Enum:
		printEnum(w, v)
	case *uml.Package:
		printPackage(w, v)
	}
	return nil
}

func elementNames(doc *uml.Document) []string {
	var names []string
	for p := range doc.AllPackages() {
		names = append(names, p.Name)
	}
	for cl := range doc.AllClasses() {
		names = append(names, cl.Name)
	}
	for e := range doc.AllEnums() {
		names = append(names, e.Name)
	}
	return names
}

func printClass(w io.Writer, doc *uml.Document, c *uml.Class) {
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.Type)
	fmt.Fprintf(w, "  id:         %s\n", c.XMIID)
	if c.Stereotype != "" {
		fmt.Fprintf(w, "  stereotype: %s\n", c.Stereotype)
	}
	if c.IsAbstract {
		fmt.Fprintln(w, "  abstract:   true")
	}
	if c.Definition != "" {
		fmt.Fprintf(w, "  definition: %s\n", c.Definition)
	}

	if len(c.Attributes) > 0 {
		fmt.Fprintln(w, "Attributes:")
		for _, a := range c.Attributes {
			fmt.Fprintf(w, "  %s: %s %s\n", a.Name, a.Type, a.Cardinality)
		}
	}
	if len(c.Associations) > 0 {
		fmt.Fprintln(w, "Associations:")
		for _, a := range c.Associations {
			line := fmt.Sprintf("  %s %s", a.MemberEndType, a.MemberEnd)
			if a.MemberEndAttributeName != "" {
				line += " as " + a.MemberEndAttributeName
			}
			if card := a.MemberEndCardinality.String(); card != "" {
				line += " " + card
			}
			fmt.Fprintln(w, line)
		}
	}
	if len(c.Operations) > 0 {
		fmt.Fprintln(w, "Operations:")
		for _, op := range c.Operations {
			ret := ""
			if op.ReturnTypeXMIID != "" {
				ret = ": " + op.ReturnTypeXMIID
				if t := doc.ClassByID(op.ReturnTypeXMIID); t != nil {
					ret = ": " + t.Name
				}
			}
			fmt.Fprintf(w, "  %s()%s\n", op.Name, ret)
		}
	}
	if len(c.Constraints) > 0 {
		fmt.Fprintln(w, "Constraints:")
		for _, con := range c.Constraints {
			fmt.Fprintf(w, "  %s\n", con.Name)
		}
	}
}

func printEnum(w io.Writer, e *uml.Enum) {
	fmt.Fprintf(w, "%s (enumeration)\n", e.Name)
	fmt.Fprintf(w, "  id:         %s\n", e.XMIID)
	if e.Definition != "" {
		fmt.Fprintf(w, "  definition: %s\n", e.Definition)
	}
	fmt.Fprintln(w, "Values:")
	for _, v := range e.Values {
		fmt.Fprintf(w, "  %s\n", v.Name)
	}
}

func printPackage(w io.Writer, p *uml.Package) {
	fmt.Fprintf(w, "%s (package)\n", p.Name)
	fmt.Fprintf(w, "  id:         %s\n", p.XMIID)
	if p.Definition != "" {
		fmt.Fprintf(w, "  definition: %s\n", p.Definition)
	}
	fmt.Fprintf(w, "  packages:   %d\n", len(p.Packages))
	fmt.Fprintf(w, "  classes:    %d\n", len(p.Classes)+len(p.DataTypes))
	fmt.Fprintf(w, "  enums:      %d\n", len(p.Enums))
	fmt.Fprintf(w, "  diagrams:   %d\n", len(p.Diagrams))
}
