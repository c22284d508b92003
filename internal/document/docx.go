package document

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Calibri"
	fontSize  = 12
	titleSize = 20
	textColor = "1F1F1F"

	// 16:9 frames fill the printable width of a portrait page
	slideWidthInch  = 6.4
	slideHeightInch = 3.6
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

func (b *implBuilder) BuildDeck(title string, imagePaths []string, outputPath string) (int, error) {
	ctx := context.Background()

	doc, err := godocx.NewDocument()
	if err != nil {
		return 0, fmt.Errorf("new document: %w", err)
	}
	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	included := 0
	for _, path := range imagePaths {
		if _, err := os.Stat(path); err != nil {
			b.logger.Warn(ctx, "document: skipping slide image %s: %v", path, err)
			continue
		}
		if included > 0 {
			doc.AddPageBreak()
		}
		if _, err := doc.AddPicture(path, units.Inch(slideWidthInch), units.Inch(slideHeightInch)); err != nil {
			b.logger.Warn(ctx, "document: skipping slide image %s: %v", path, err)
			continue
		}
		included++
	}

	if included == 0 && len(imagePaths) > 0 {
		b.logger.Warn(ctx, "document: deck %q has no usable images", title)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return 0, fmt.Errorf("save deck: %w", err)
	}
	return included, nil
}

// BuildSummary writes markdown as a styled document with headings, bullets and bold runs
func (b *implBuilder) BuildSummary(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}
	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		addLine(doc.AddParagraph(""), trimmed)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// BuildTranscript writes one paragraph per blank-line separated block
func (b *implBuilder) BuildTranscript(title, transcript, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}
	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, block := range Paragraphs(transcript) {
		addLine(doc.AddParagraph(""), block)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// Paragraphs splits text on blank lines and joins the lines of each block with a space
func Paragraphs(text string) []string {
	var (
		out   []string
		block []string
	)
	flush := func() {
		if len(block) > 0 {
			out = append(out, strings.Join(block, " "))
			block = nil
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		// headings stand alone
		if reHeading.MatchString(trimmed) {
			flush()
			out = append(out, trimmed)
			continue
		}
		block = append(block, trimmed)
	}
	flush()
	return out
}

func addLine(p *docx.Paragraph, line string) {
	if m := reHeading.FindStringSubmatch(line); m != nil {
		addStyledRun(p, m[2], true, headingSize(len(m[1])))
		return
	}
	if m := reBullet.FindStringSubmatch(line); m != nil {
		addRichText(p, "• "+m[1])
		return
	}
	addRichText(p, line)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 16
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanInline(text)).Font(fontName).Size(size).Color(textColor)
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans as bold runs
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanInline(part)).Font(fontName).Size(fontSize).Color(textColor)
		}
		if i < len(matches) {
			p.AddText(cleanInline(matches[i][1])).Font(fontName).Size(fontSize).Color(textColor).Bold(true)
		}
	}
}

func cleanInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
