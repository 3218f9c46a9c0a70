package polygon

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// FileName is the descriptor every Polygon package carries at its root.
const FileName = "problem.xml"

// Asset is a checker or interactor declared in problem.xml.
type Asset struct {
	// Source is relative to the package root.
	Source string
	Type   string
}

// Problem is the subset of problem.xml the converter needs.
type Problem struct {
	ShortName   string
	Name        string
	TimeLimit   time.Duration
	MemoryLimit int64 // bytes, 0 when not declared
	Checker     *Asset
	Interactor  *Asset
}

func (p *Problem) IsInteractive() bool {
	return p.Interactor != nil
}

type xmlSource struct {
	Path string `xml:"path,attr"`
	Type string `xml:"type,attr"`
}

type xmlAsset struct {
	Source *xmlSource `xml:"source"`
}

type xmlTestset struct {
	Name        string `xml:"name,attr"`
	TimeLimit   string `xml:"time-limit"`
	MemoryLimit string `xml:"memory-limit"`
}

type xmlProblem struct {
	XMLName   xml.Name `xml:"problem"`
	ShortName string   `xml:"short-name,attr"`
	Names     []struct {
		Language string `xml:"language,attr"`
		Value    string `xml:"value,attr"`
	} `xml:"names>name"`
	Testsets   []xmlTestset `xml:"judging>testset"`
	Checker    *xmlAsset    `xml:"assets>checker"`
	Interactor *xmlAsset    `xml:"assets>interactor"`
}

// Read parses the problem.xml at path.
func Read(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a problem.xml document. The first name and the first testset
// are used.
func Parse(r io.Reader) (*Problem, error) {
	var doc xmlProblem
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}

	if len(doc.Names) == 0 {
		return nil, fmt.Errorf("problem has no name")
	}
	if len(doc.Testsets) == 0 {
		return nil, fmt.Errorf("problem has no testset")
	}

	ts := doc.Testsets[0]
	ms, err := strconv.ParseFloat(strings.TrimSpace(ts.TimeLimit), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid time limit %q: %w", ts.TimeLimit, err)
	}

	p := &Problem{
		ShortName: doc.ShortName,
		Name:      doc.Names[0].Value,
		TimeLimit: time.Duration(ms * float64(time.Millisecond)),
	}

	if s := strings.TrimSpace(ts.MemoryLimit); s != "" {
		p.MemoryLimit, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid memory limit %q: %w", ts.MemoryLimit, err)
		}
	}

	p.Checker, err = asset(doc.Checker, "checker")
	if err != nil {
		return nil, err
	}
	p.Interactor, err = asset(doc.Interactor, "interactor")
	if err != nil {
		return nil, err
	}
	return p, nil
}

func asset(a *xmlAsset, kind string) (*Asset, error) {
	if a == nil {
		return nil, nil
	}
	if a.Source == nil || a.Source.Path == "" {
		return nil, fmt.Errorf("%s has no source", kind)
	}
	return &Asset{Source: a.Source.Path, Type: a.Source.Type}, nil
}
