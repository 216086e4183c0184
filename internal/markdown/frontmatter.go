package markdown

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML metadata block at the top of a note
type FrontMatter map[string]any

const frontMatterDelim = "---"

// SplitFrontMatter parses a leading "---" delimited YAML block. It returns
// the metadata and the byte offset where the Markdown body starts. A
// missing, unterminated or invalid block yields nil metadata and offset 0,
// so the whole source is treated as body
func SplitFrontMatter(source []byte) (FrontMatter, int) {
	if !bytes.HasPrefix(source, []byte(frontMatterDelim)) {
		return nil, 0
	}
	first := nextLine(source, 0)
	if len(bytes.TrimRight(source[:first], " \t\r\n")) != len(frontMatterDelim) {
		return nil, 0
	}

	for pos := first; pos < len(source); {
		next := nextLine(source, pos)
		if string(bytes.TrimRight(source[pos:next], " \t\r\n")) == frontMatterDelim {
			var fm FrontMatter
			if err := yaml.Unmarshal(source[first:pos], &fm); err != nil {
				return nil, 0
			}
			if fm == nil {
				fm = FrontMatter{}
			}
			return fm, next
		}
		pos = next
	}
	return nil, 0
}

// Title returns the "title" key, if it is a string
func (fm FrontMatter) Title() string {
	s, _ := fm["title"].(string)
	return s
}

// Tags returns the "tags" key, accepting either a YAML list or a single
// string
func (fm FrontMatter) Tags() []string {
	return fm.strings("tags")
}

// Aliases returns the "aliases" key
func (fm FrontMatter) Aliases() []string {
	return fm.strings("aliases")
}

func (fm FrontMatter) strings(key string) []string {
	switch v := fm[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
