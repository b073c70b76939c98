package rule

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// TransformFile is the raw content of one CLDR transform XML file: its
// source/target attributes and every rule text node's content, in
// document order, with line-continuation already joined.
type TransformFile struct {
	Source string
	Target string
	Lines  []string
}

type xmlTransform struct {
	XMLName xml.Name   `xml:"transform"`
	Source  string     `xml:"source,attr"`
	Target  string     `xml:"target,attr"`
	Rules   []xmlTRule `xml:"tRule"`
}

type xmlTRule struct {
	Text string `xml:",chardata"`
}

// LoadTransformFile parses one CLDR transform XML file.
func LoadTransformFile(path string) (*TransformFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTransformFile(f, path)
}

// ParseTransformFile parses a transform document from r. path is used
// only for diagnostics.
func ParseTransformFile(r io.Reader, path string) (*TransformFile, error) {
	var doc xmlTransform
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "decoding transform XML %s", path)
	}

	tf := &TransformFile{Source: doc.Source, Target: doc.Target}

	var pending string
	for _, tr := range doc.Rules {
		for _, line := range strings.Split(tr.Text, "\n") {
			line = strings.TrimRight(line, "\r")
			text := pending + line
			pending = ""
			if strings.HasSuffix(text, `\`) {
				pending = strings.TrimSuffix(text, `\`)
				continue
			}
			text = stripLine(text)
			if text != "" {
				tf.Lines = append(tf.Lines, text)
			}
		}
	}
	if pending != "" {
		tf.Lines = append(tf.Lines, stripLine(pending))
	}
	return tf, nil
}

// stripLine strips a trailing ';' and any '#' comment, then trims
// surrounding whitespace. A '#' inside a quoted string or bracketed set
// does not start a comment.
func stripLine(line string) string {
	end := len(line)
	inQuote := false
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '\'':
			inQuote = !inQuote
		case '[':
			if !inQuote {
				depth++
			}
		case ']':
			if !inQuote && depth > 0 {
				depth--
			}
		case '#':
			if !inQuote && depth == 0 {
				end = i
			}
		}
		if end != len(line) {
			break
		}
	}
	line = strings.TrimSpace(line[:end])
	line = strings.TrimSuffix(line, ";")
	return strings.TrimSpace(line)
}
