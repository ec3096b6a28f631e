package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rfc-formalizer/internal/rfcdoc"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Preview the property-rich sections of an RFC text file",
	Long: `Parse segments the document into numbered sections, scores each by
RFC 2119 keyword density, and prints the survivors ranked by score.
Nothing is persisted and no model is called; use extract to run the
full first stage.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
	}

	var parser rfcdoc.Parser
	res := parser.Parse(text)

	fmt.Printf("RFC %s: %s\n", res.Document.RFCNumber, res.Document.Title)
	fmt.Printf("%d characters, %d property-rich sections\n\n", res.Document.TotalChars, len(res.Sections))

	if len(res.Sections) == 0 {
		fmt.Println("No property-rich sections found.")
		return nil
	}

	fmt.Printf("%-10s  %-8s  %s\n", "Section", "Keywords", "Title")
	fmt.Println(strings.Repeat("-", 70))
	for _, sec := range res.Sections {
		title := sec.Title
		if len(title) > 48 {
			title = title[:45] + "..."
		}
		fmt.Printf("%-10s  %-8d  %s\n", sec.Number, sec.KeywordCount, title)
	}
	return nil
}

// readDocument loads a plain-text file, dropping any invalid UTF-8 bytes.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
