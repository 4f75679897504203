package report

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/telop-review/internal/review"
)

const (
	fontName = "Times New Roman"
	fontSize = 13

	colorText  = "000000"
	colorVoice = "1F3864"
	colorTelop = "833C0B"

	stillWidth = units.Inch(4.5)
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

// WriteDocx writes the summary and the timeline as a Word document with
// the telop stills embedded. The still files are written next to path.
func WriteDocx(path string, doc Document) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addStyledRun(d.AddParagraph(""), "Review: "+doc.URL, true, 16)

	if doc.Summary != "" {
		addStyledRun(d.AddParagraph(""), "Summary", true, 15)
		addMarkdown(d, doc.Summary)
	}

	addStyledRun(d.AddParagraph(""), "Timeline", true, 15)
	for _, bucket := range doc.Buckets {
		label, link, anchor := heading(doc, bucket)
		p := d.AddParagraph("")
		addStyledRun(p, label, true, 14)
		if anchor == review.KindTelop {
			p.AddText(" (telop)").Font(fontName).Size(fontSize).Color(colorTelop)
		}
		p.AddText("  " + link).Font(fontName).Size(11).Color(colorVoice)

		for _, v := range bucket.Voice {
			d.AddParagraph("").AddText("Voice: " + v.Text).Font(fontName).Size(fontSize).Color(colorVoice)
		}
		for i, t := range bucket.Telop {
			if err := addStill(d, filepath.Dir(path), stillName(bucket.Key, i), t); err != nil {
				return err
			}
		}
	}

	if err := d.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

// addStill writes the telop caption and embeds its frame below it. Stills
// that do not decode as JPEG keep only their file name.
func addStill(d *docx.RootDoc, dir, name string, t review.TelopEvent) error {
	p := d.AddParagraph("")
	p.AddText("Telop: " + t.Text).Font(fontName).Size(fontSize).Color(colorTelop)
	if len(t.Image) == 0 {
		return nil
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(t.Image))
	if err != nil || cfg.Width == 0 {
		p.AddText(" [" + name + "]").Font(fontName).Size(fontSize).Color(colorTelop)
		return nil
	}

	stillPath, err := writeStill(dir, name, t.Image)
	if err != nil {
		return err
	}

	height := units.Inch(float64(stillWidth) * float64(cfg.Height) / float64(cfg.Width))
	if _, err := d.AddPicture(stillPath, stillWidth, height); err != nil {
		return fmt.Errorf("embed telop still: %w", err)
	}
	return nil
}

// addMarkdown renders the subset of markdown the summary uses.
func addMarkdown(d *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(d.AddParagraph(""), m[2], true, headingSize(len(m[1])))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(d.AddParagraph(""), "• "+m[1])
			continue
		}

		addRichText(d.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color(colorText)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(colorText)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(colorText).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
