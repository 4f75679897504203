package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

const reportName = "report.md"

// WriteMarkdown writes report.md into dir together with one JPEG per telop
// still, and returns the report path.
func WriteMarkdown(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Review: %s\n\n", doc.URL)
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_%s_\n\n", doc.GeneratedAt.Format("2006-01-02 15:04"))
	}
	if doc.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", doc.Summary)
	}
	b.WriteString("## Timeline\n\n")

	for _, bucket := range doc.Buckets {
		label, link, anchor := heading(doc, bucket)
		if anchor == review.KindVoice {
			fmt.Fprintf(&b, "### [%s](%s)\n\n", label, link)
		} else {
			fmt.Fprintf(&b, "### [%s](%s) (telop)\n\n", label, link)
		}

		for _, v := range bucket.Voice {
			fmt.Fprintf(&b, "- 🗣 %s\n", v.Text)
		}
		for i, t := range bucket.Telop {
			name := stillName(bucket.Key, i)
			if len(t.Image) > 0 {
				if _, err := writeStill(dir, name, t.Image); err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "- 📺 %s\n\n  ![%s](%s)\n", t.Text, t.Text, name)
			} else {
				fmt.Fprintf(&b, "- 📺 %s\n", t.Text)
			}
		}
		b.WriteString("\n")
	}

	path := filepath.Join(dir, reportName)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
