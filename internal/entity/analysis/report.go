package analysis

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/htmlindex"
)

// ReportSummary is what Interpret extracts from the engine's XML report.
type ReportSummary struct {
	Findings   int
	ByPriority map[string]int
	ByCategory map[string]int
}

// ParseReport streams a BugCollection document and counts BugInstance
// elements. The document must have a BugCollection root.
func ParseReport(r io.Reader) (*ReportSummary, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	sum := &ReportSummary{ByPriority: map[string]int{}, ByCategory: map[string]int{}}
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if t.Name.Local != "BugCollection" {
					return nil, fmt.Errorf("unexpected root element <%s>", t.Name.Local)
				}
				sawRoot = true
				continue
			}
			if depth == 2 && t.Name.Local == "BugInstance" {
				sum.Findings++
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "priority":
						sum.ByPriority[a.Value]++
					case "category":
						sum.ByCategory[a.Value]++
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return nil, errors.New("no BugCollection element")
	}
	return sum, nil
}

// charsetReader decodes a report written in the declared non-UTF-8 encoding.
func charsetReader(label string, in io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported report encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(in), nil
}

// readReport returns (nil, nil) when the report is absent or empty.
func readReport(path string) (*ReportSummary, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, nil
	}
	return ParseReport(f)
}
