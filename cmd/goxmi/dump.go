package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/umlkit/goxmi"
	"github.com/umlkit/goxmi/cmd/internal/cliutil"
	"github.com/umlkit/goxmi/uml"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

func (c *cli) newDumpCmd() *cobra.Command {
	var (
		compact       bool
		noDiagnostics bool
		output        string
	)
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Write the assembled document as JSON, YAML or TOML",
		Example: `  goxmi dump model.xmi
  goxmi dump --format yaml model.xmi
  goxmi dump --compact -o model.json model.xmi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadFile(cmd, args[0])
			if doc == nil {
				return err
			}
			if noDiagnostics {
				doc.Diagnostics = nil
			}

			data, encErr := encodeDocument(doc, c.v.GetString(keyFormat), compact)
			if encErr != nil {
				return encErr
			}

			w, done, openErr := cliutil.GetOutput(output, cmd.OutOrStdout())
			if openErr != nil {
				return openErr
			}
			defer done()
			if _, werr := w.Write(data); werr != nil {
				return werr
			}

			if errors.Is(err, goxmi.ErrDiagnostics) {
				return &exitCodeError{code: exitError, err: err}
			}
			return nil
		},
	}
	cmd.Flags().String("format", formatJSON, "output format: json, yaml, toml")
	cmd.Flags().BoolVar(&compact, "compact", false, "compact JSON without indentation")
	cmd.Flags().BoolVar(&noDiagnostics, "no-diagnostics", false, "omit diagnostics from the output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	_ = c.v.BindPFlag(keyFormat, cmd.Flags().Lookup("format"))
	return cmd
}

func encodeDocument(doc *uml.Document, format string, compact bool) ([]byte, error) {
	switch format {
	case formatJSON, "":
		if compact {
			data, err := json.Marshal(doc)
			return append(data, '\n'), err
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		return append(data, '\n'), err
	case formatYAML:
		return yaml.Marshal(doc)
	case formatTOML:
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q (want json, yaml or toml)", format)
	}
}
