// Package export renders cached note documents as plain text, markdown
// with YAML front matter, or a print-ready HTML page.
package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/akshatgupta/notetube/models"
	"gopkg.in/yaml.v3"
)

// Format identifies an export output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a request parameter to a supported format, defaulting
// to markdown.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, true
	case FormatHTML:
		return FormatHTML, true
	case FormatMarkdown, Format(""):
		return FormatMarkdown, true
	default:
		return FormatMarkdown, false
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

var (
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+(.*)$`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	codeBlockRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	bulletRe     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedRe   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceLineRe  = regexp.MustCompile(`(?m)^[ \t]+$`)
	timestampRe  = regexp.MustCompile(`\[(\d{1,2}:\d{2}(?::\d{2})?)\]`)
	unsafeRe     = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// AsText renders the note as plain text: an underlined title header
// followed by the body with markdown formatting stripped.
func AsText(note *models.Note) string {
	var b strings.Builder

	title := note.VideoInfo.Title
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	fmt.Fprintf(&b, "Video URL: %s\n", note.VideoInfo.URL)
	fmt.Fprintf(&b, "Generated: %s\n\n", note.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	plain := note.Notes
	plain = headingRe.ReplaceAllString(plain, "$1")
	plain = boldRe.ReplaceAllString(plain, "$1")
	plain = italicRe.ReplaceAllString(plain, "$1")
	plain = linkRe.ReplaceAllString(plain, "$1")
	plain = codeBlockRe.ReplaceAllString(plain, "")
	plain = inlineCodeRe.ReplaceAllString(plain, "$1")
	plain = bulletRe.ReplaceAllString(plain, "• ")
	plain = numberedRe.ReplaceAllString(plain, "• ")
	plain = blankRunRe.ReplaceAllString(plain, "\n\n")

	b.WriteString(plain)
	return b.String()
}

type frontMatter struct {
	Title     string `yaml:"title"`
	VideoURL  string `yaml:"video_url"`
	Generated string `yaml:"generated"`
	VideoID   string `yaml:"video_id"`
}

// AsMarkdown renders the note as markdown with a YAML front matter
// block carrying the video metadata.
func AsMarkdown(note *models.Note) (string, error) {
	meta, err := yaml.Marshal(frontMatter{
		Title:     note.VideoInfo.Title,
		VideoURL:  note.VideoInfo.URL,
		Generated: note.GeneratedAt.Format(time.RFC3339),
		VideoID:   note.VideoID,
	})
	if err != nil {
		return "", err
	}

	body := blankRunRe.ReplaceAllString(note.Notes, "\n\n")
	body = spaceLineRe.ReplaceAllString(body, "")

	return "---\n" + string(meta) + "---\n\n" + body, nil
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s - Notes</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .header h1 {
            margin: 0 0 10px 0;
            color: #2c3e50;
        }
        .meta {
            color: #666;
            font-size: 14px;
        }
        .meta a {
            color: #3498db;
            text-decoration: none;
        }
        .content h1, .content h2, .content h3 {
            color: #2c3e50;
            margin-top: 30px;
            margin-bottom: 15px;
        }
        .content ul, .content ol {
            margin-bottom: 15px;
            padding-left: 30px;
        }
        .timestamp-link {
            color: #3498db;
            font-weight: 500;
            background: #f8f9fa;
            padding: 2px 6px;
            border-radius: 3px;
            font-size: 12px;
        }
        @media print {
            body { margin: 0; padding: 15px; }
            .header { page-break-after: avoid; }
            h1, h2, h3 { page-break-after: avoid; }
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
        <div class="meta">
            <p><strong>Video URL:</strong> <a href="%s">%s</a></p>
            <p><strong>Generated:</strong> %s</p>
        </div>
    </div>
    <div class="content">
%s
    </div>
</body>
</html>
`

// AsHTML renders the note as a self-contained print-ready HTML page.
func AsHTML(note *models.Note) string {
	title := html.EscapeString(note.VideoInfo.Title)
	url := html.EscapeString(note.VideoInfo.URL)

	return fmt.Sprintf(htmlPage,
		title,
		title,
		url, url,
		note.GeneratedAt.Format("2006-01-02 15:04:05"),
		markdownToHTML(note.Notes),
	)
}

// markdownToHTML is a small line-oriented converter covering the markdown
// subset the note generator emits: headings, bullet and numbered lists,
// paragraphs, and the inline bold/italic/link/code spans.
func markdownToHTML(md string) string {
	var (
		b      strings.Builder
		para   []string
		inList bool
	)

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		b.WriteString("<p>" + strings.Join(para, "<br>") + "</p>\n")
		para = nil
	}
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushPara()
			closeList()

		case strings.HasPrefix(trimmed, "#"):
			flushPara()
			closeList()
			level := 0
			for level < len(trimmed) && trimmed[level] == '#' && level < 6 {
				level++
			}
			text := strings.TrimSpace(trimmed[level:])
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, inlineHTML(text), level)

		case bulletRe.MatchString(line) || numberedRe.MatchString(line):
			flushPara()
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			item := bulletRe.ReplaceAllString(line, "")
			item = numberedRe.ReplaceAllString(item, "")
			b.WriteString("<li>" + inlineHTML(strings.TrimSpace(item)) + "</li>\n")

		case trimmed == "---":
			flushPara()
			closeList()
			b.WriteString("<hr>\n")

		default:
			closeList()
			para = append(para, inlineHTML(trimmed))
		}
	}

	flushPara()
	closeList()
	return strings.TrimRight(b.String(), "\n")
}

// inlineHTML escapes a line and converts the inline markdown spans.
func inlineHTML(s string) string {
	s = html.EscapeString(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = inlineCodeRe.ReplaceAllString(s, "<code>$1</code>")
	s = timestampRe.ReplaceAllString(s, `<span class="timestamp-link">[$1]</span>`)
	return s
}

// Filename builds a safe download filename from the video title.
func Filename(title string, format Format) string {
	name := unsafeRe.ReplaceAllString(title, "")
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), "-")
	name = strings.ToLower(name)
	if name == "" {
		name = "notes"
	}
	if len(name) > 80 {
		name = name[:80]
	}
	return name + "-notes." + format.Extension()
}
