package markdown

import (
	"regexp"
	"strings"
)

// blockKind enumerates the block-level variants produced by the line scanner.
type blockKind int

const (
	blockText blockKind = iota
	blockHeading
	blockRule
	blockList
	blockQuote
	blockCode
	blockDiagram
	blockTable
)

type block struct {
	kind    blockKind
	level   int        // heading level (1-4)
	text    string     // heading text or bare text line
	ordered bool       // list marker type
	items   []string   // list item texts or quote line texts
	lang    string     // fence language tag
	lines   []string   // fence body lines
	rows    [][]string // table rows, separator dropped
}

var (
	fenceOpenRe   = regexp.MustCompile("^```(\\w*)$")
	headingRe     = regexp.MustCompile(`^(#{1,4}) (.+)$`)
	ruleRe        = regexp.MustCompile(`^-{3,}$`)
	quoteRe       = regexp.MustCompile(`^> (.+)$`)
	bulletItemRe  = regexp.MustCompile(`^[*-] (.+)$`)
	orderedItemRe = regexp.MustCompile(`^\d+\. (.+)$`)
	separatorCell = regexp.MustCompile(`^[-: ]*$`)
)

// scanBlocks performs a single line-oriented pass over the document, grouping
// lines into blocks. Adjacent list items of the same order kind and adjacent
// quote lines merge into one block; everything unrecognized is a text line
// passed through verbatim.
func scanBlocks(lines []string) []block {
	var blocks []block
	i := 0
	for i < len(lines) {
		line := lines[i]

		if m := fenceOpenRe.FindStringSubmatch(line); m != nil {
			if end := findFenceClose(lines, i+1); end >= 0 {
				b := block{kind: blockCode, lang: m[1], lines: lines[i+1 : end]}
				if b.lang == DiagramLanguage {
					b.kind = blockDiagram
				}
				blocks = append(blocks, b)
				i = end + 1
				continue
			}
			// Unterminated fence: the opening line is ordinary text.
		}

		if consumed, rows := scanTable(lines, i); consumed > 0 {
			blocks = append(blocks, block{kind: blockTable, rows: rows})
			i += consumed
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, block{
				kind:  blockHeading,
				level: len(m[1]),
				text:  strings.TrimSpace(m[2]),
			})
			i++
			continue
		}

		if ruleRe.MatchString(line) {
			blocks = append(blocks, block{kind: blockRule})
			i++
			continue
		}

		if m := quoteRe.FindStringSubmatch(line); m != nil {
			b := block{kind: blockQuote, items: []string{m[1]}}
			for i++; i < len(lines); i++ {
				mm := quoteRe.FindStringSubmatch(lines[i])
				if mm == nil {
					break
				}
				b.items = append(b.items, mm[1])
			}
			blocks = append(blocks, b)
			continue
		}

		if item, ordered, ok := listItem(line); ok {
			b := block{kind: blockList, ordered: ordered, items: []string{item}}
			for i++; i < len(lines); i++ {
				next, nextOrdered, nextOK := listItem(lines[i])
				if !nextOK || nextOrdered != ordered {
					break
				}
				b.items = append(b.items, next)
			}
			blocks = append(blocks, b)
			continue
		}

		blocks = append(blocks, block{kind: blockText, text: line})
		i++
	}
	return blocks
}

// findFenceClose returns the index of the closing fence line, or -1.
func findFenceClose(lines []string, from int) int {
	for j := from; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], "```") {
			return j
		}
	}
	return -1
}

func listItem(line string) (text string, ordered, ok bool) {
	if m := bulletItemRe.FindStringSubmatch(line); m != nil {
		return m[1], false, true
	}
	if m := orderedItemRe.FindStringSubmatch(line); m != nil {
		return m[1], true, true
	}
	return "", false, false
}

// scanTable matches a pipe table starting at lines[start]: a header row, a
// separator row whose every cell consists only of '-', ':' and spaces, and
// one or more body rows. Returns the number of source lines consumed and the
// cell rows with the separator dropped.
func scanTable(lines []string, start int) (int, [][]string) {
	if start+3 > len(lines) {
		return 0, nil
	}
	if !isTableRow(lines[start]) || !isTableRow(lines[start+1]) || !isTableRow(lines[start+2]) {
		return 0, nil
	}
	if !isSeparatorRow(splitRow(lines[start+1])) {
		return 0, nil
	}

	rows := [][]string{splitRow(lines[start])}
	consumed := 2
	for start+consumed < len(lines) && isTableRow(lines[start+consumed]) {
		rows = append(rows, splitRow(lines[start+consumed]))
		consumed++
	}
	return consumed, rows
}

func isTableRow(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|")
}

func splitRow(line string) []string {
	cells := strings.Split(strings.Trim(line, "|"), "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if !separatorCell.MatchString(c) {
			return false
		}
	}
	return true
}
