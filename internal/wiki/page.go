package wiki

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SourceExtension is the extension of Markdown source documents.
const SourceExtension = ".md"

// OutputExtension is the extension of generated documents.
const OutputExtension = ".html"

// acronymMaxLen is the longest prettified directory name that is upcased
// wholesale instead of title-cased (e.g. "api" -> "API").
const acronymMaxLen = 4

// Page represents one discovered Markdown source document.
type Page struct {
	SourcePath  string // Path relative to the input root (e.g. "guides/setup.md")
	OutputPath  string // SourcePath with the extension swapped to .html; durable page identity
	Title       string // First H1 heading, or the filename stem when absent
	Slug        string // URL-safe identifier derived from SourcePath
	SectionPath string // Parent directory of SourcePath, empty for root-level pages
}

// OutputPathFor returns the output path for a source path relative to the
// input root, with the source extension swapped for the output extension.
func OutputPathFor(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, path.Ext(sourcePath)) + OutputExtension
}

var slugStrip = regexp.MustCompile(`[^\w-]`)

// Slugify turns a relative source key into a URL-friendly slug: lowercased,
// with every run of non-word characters collapsed to hyphens.
func Slugify(key string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(key), "-"), "-")
}

var titleCaser = cases.Title(language.English)

// PrettifySectionName converts a directory name into a display title.
// Hyphens and underscores become spaces; short all-alphabetic names are
// treated as acronyms and upcased ("api" -> "API"), everything else is
// title-cased per word ("core-services" -> "Core Services").
func PrettifySectionName(dirName string) string {
	pretty := strings.NewReplacer("-", " ", "_", " ").Replace(dirName)
	if len(pretty) <= acronymMaxLen && isAlpha(pretty) {
		return strings.ToUpper(pretty)
	}
	return titleCaser.String(pretty)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
