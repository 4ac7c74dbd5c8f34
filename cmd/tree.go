package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/contentpacks/internal/ops"
	"github.com/fulmenhq/contentpacks/pkg/ascii"
	"github.com/fulmenhq/contentpacks/pkg/importer"
	"github.com/fulmenhq/contentpacks/pkg/staging"
)

const (
	titleColumn = 48
	kindColumn  = 10
)

var treeCmd = &cobra.Command{
	Use:   "tree <path> <channel>",
	Short: "Preview the content tree of a directory",
	Long: `Tree runs an import in memory and prints the resulting content tree.
Nothing is staged on disk and no pack is written.

Formats:
  pretty  indented outline with kind and id columns (default)
  json    nodes, assessment items and assessment files as JSON
  yaml    the same document as YAML`,
	Args: cobra.ExactArgs(2),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().String("format", "pretty", "Output format (pretty|json|yaml)")

	if err := ops.RegisterCommand("tree", ops.GroupInspect, treeCmd, "Preview the content tree of a directory"); err != nil {
		panic(fmt.Sprintf("Failed to register tree command: %v", err))
	}
}

// treeDocument is the structured output of the tree command.
type treeDocument struct {
	Nodes           []*importer.Node          `json:"nodes"`
	AssessmentItems []importer.AssessmentItem `json:"assessment_items"`
	AssessmentFiles []string                  `json:"assessment_files"`
}

func runTree(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "pretty", "json", "yaml":
	default:
		return fmt.Errorf("%w: unknown format %q", importer.ErrInvalidInput, format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, root, err := openSource(args[0])
	if err != nil {
		return err
	}
	scratch := memfs.New()
	im, err := newImporter(src, root, cfg, importer.Options{
		Stage:  staging.NewContentStage(scratch, staging.ContentDir),
		Assets: staging.NewAssessmentCache(scratch, staging.AssessmentDir),
	})
	if err != nil {
		return err
	}
	res, err := im.Run(root, args[1])
	if err != nil {
		return err
	}

	doc := treeDocument{
		Nodes:           res.Nodes,
		AssessmentItems: res.AssessmentItems,
		AssessmentFiles: res.AssessmentFiles,
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		return writeYAML(out, doc)
	default:
		return writePrettyTree(out, res)
	}
}

// writeYAML emits doc through its JSON shape so node keys match content.json.
func writeYAML(w io.Writer, doc treeDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// writePrettyTree prints the tree root first, children in sort order.
func writePrettyTree(w io.Writer, res *importer.Result) error {
	root := res.Root()
	if root == nil {
		return nil
	}
	children := make(map[string][]*importer.Node)
	for _, n := range res.Nodes {
		if n == root {
			continue
		}
		children[parentPath(n.Path)] = append(children[parentPath(n.Path)], n)
	}

	var walk func(n *importer.Node, depth int) error
	walk = func(n *importer.Node, depth int) error {
		label := strings.Repeat("  ", depth) + n.Title
		if n.IsTopic() {
			label += "/"
		}
		line := ascii.PadRight(ascii.Truncate(label, titleColumn), titleColumn) + "  " +
			ascii.PadRight(string(n.Kind), kindColumn) + "  " + n.ID
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
		for _, c := range children[n.Path] {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d nodes, %d assessment items, %d assessment files\n",
		len(res.Nodes), len(res.AssessmentItems), len(res.AssessmentFiles))
	return err
}

// parentPath strips the last segment of a node path: "a/b/c/" -> "a/b/".
func parentPath(p string) string {
	trimmed := strings.TrimSuffix(p, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return ""
	}
	return trimmed[:i+1]
}
