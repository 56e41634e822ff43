package cmd

import (
	"fmt"
	"io"

	"sfgen/pkg/headers"

	"github.com/spf13/cobra"
)

var headsCmd = &cobra.Command{
	Use:   "heads <header-or-directory>...",
	Short: "List the function prototypes declared in C headers",
	Long: `Find every function prototype in the given headers (directories are searched
for *.h files) and parse it as a declaration. Prototypes using an excluded type
(headers.exclude_types in the config) are dropped, and prototypes the
declaration grammar cannot express are skipped with a reason.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := findAll(args, isHeader)
		if err != nil {
			return err
		}

		results, err := extractHeads(cmd, files)
		if err != nil {
			return err
		}

		showSkipped, _ := cmd.Flags().GetBool("skipped")

		type headerView struct {
			File     string          `json:"file" yaml:"file"`
			Heads    []signatureView `json:"heads" yaml:"heads"`
			Excluded []string        `json:"excluded,omitempty" yaml:"excluded,omitempty"`
			Skipped  []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
		}

		views := make([]headerView, len(files))
		for i, file := range files {
			r := results[i]
			v := headerView{File: file, Heads: []signatureView{}}
			for _, h := range r.Heads {
				v.Heads = append(v.Heads, newSignatureView(h.Signature))
			}
			for _, h := range r.Excluded {
				v.Excluded = append(v.Excluded, h.Signature.Name)
			}
			if showSkipped {
				for _, s := range r.Skipped {
					v.Skipped = append(v.Skipped, fmt.Sprintf("%d: %s", s.Line, s.Reason))
				}
			}
			views[i] = v
		}

		return emit(cmd, views, func(w io.Writer) {
			for i, file := range files {
				r := results[i]
				fmt.Fprintf(w, "%s: %d heads, %d excluded, %d skipped\n",
					file, len(r.Heads), len(r.Excluded), len(r.Skipped))
				for _, h := range r.Heads {
					fmt.Fprintf(w, "  %s\n", h.Signature)
				}
				if showSkipped {
					for _, s := range r.Skipped {
						fmt.Fprintf(w, "  skipped line %d: %s\n", s.Line, s.Reason)
					}
				}
			}
		})
	},
}

// extractHeads scans each header in turn with one tree-sitter parser.
func extractHeads(cmd *cobra.Command, files []string) ([]*headers.Result, error) {
	e := headers.NewExtractor(cfg.Headers.ExcludeTypes)
	defer e.Close()

	results := make([]*headers.Result, len(files))
	for i, file := range files {
		r, err := e.ExtractFile(cmd.Context(), file)
		if err != nil {
			return nil, err
		}
		logger.Printf("%s: %d heads, %d excluded, %d skipped", file, len(r.Heads), len(r.Excluded), len(r.Skipped))
		for _, s := range r.Skipped {
			logger.Printf("%s:%d: skipped %q: %s", file, s.Line, s.Text, s.Reason)
		}
		results[i] = r
	}
	return results, nil
}

func init() {
	addFormatFlag(headsCmd)
	headsCmd.Flags().BoolP("skipped", "s", false, "Also list prototypes that could not be parsed")
}
