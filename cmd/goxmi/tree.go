package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/uml"
)

func (c *cli) newTreeCmd() *cobra.Command {
	var members bool
	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the package and class tree",
		Example: `  goxmi tree model.xmi
  goxmi tree --members model.xmi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadFile(cmd, args[0])
			if doc == nil {
				return err
			}
			out := cmd.OutOrStdout()
			t := treePrinter{w: out, styles: cliutil.NewStyles(out), members: members}
			fmt.Fprintln(out, t.styles.Package.Render(doc.Name))
			for i := range doc.Packages {
				t.print(t.packageNode(&doc.Packages[i]), "", i == len(doc.Packages)-1)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&members, "members", false, "include attributes and enumeration values")
	return cmd
}

type treePrinter struct {
	w       io.Writer
	styles  cliutil.Styles
	members bool
}

// node is one line of the tree with its own children.
type node struct {
	label    string
	children []node
}

func (t *treePrinter) packageNode(p *uml.Package) node {
	n := node{label: t.styles.Package.Render(p.Name)}
	for _, c := range p.Classes {
		n.children = append(n.children, t.classNode(&c, t.styles.Class))
	}
	for _, c := range p.DataTypes {
		n.children = append(n.children, t.classNode(&c, t.styles.DataType))
	}
	for _, e := range p.Enums {
		en := node{label: t.styles.Enum.Render(e.Name) + t.styles.Muted.Render(" «enum»")}
		if t.members {
			for _, v := range e.Values {
				en.children = append(en.children, node{label: v.Name})
			}
		}
		n.children = append(n.children, en)
	}
	for i := range p.Packages {
		n.children = append(n.children, t.packageNode(&p.Packages[i]))
	}
	return n
}

func (t *treePrinter) classNode(c *uml.Class, style lipgloss.Style) node {
	label := style.Render(c.Name)
	if c.Stereotype != "" {
		label += t.styles.Muted.Render(" «" + c.Stereotype + "»")
	}
	n := node{label: label}
	if t.members {
		for _, a := range c.Attributes {
			n.children = append(n.children, node{label: a.Name + t.styles.Muted.Render(": "+a.Type)})
		}
	}
	return n
}

func (t *treePrinter) print(n node, prefix string, last bool) {
	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}
	fmt.Fprintln(t.w, t.styles.Branch.Render(prefix+branch)+n.label)
	for i, child := range n.children {
		t.print(child, prefix+indent, i == len(n.children)-1)
	}
}
