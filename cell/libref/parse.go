package libref

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/cellkit/cell/strtab"
	"github.com/joshuapare/cellkit/internal/format"
)

const (
	commentPrefix = "#"
	headerPrefix  = "(library"
	maxLineSize   = 1 << 20
)

// duplicate records a name defined more than once in one library.
type duplicate struct {
	name string
	line int
}

// parser builds a Library from either source form. Nothing it produces is
// visible to the Index until parsing has succeeded.
type parser struct {
	file string
	dir  string
	vars map[string]string
	lib  *Library
	dups []duplicate
}

func newParser(path string, kind Kind) *parser {
	return &parser{
		file: path,
		dir:  filepath.Dir(path),
		vars: make(map[string]string),
		lib:  newLibrary(path, kind),
	}
}

func (p *parser) errorf(line, col int, msg string, args ...any) error {
	return &ParseError{File: p.file, Line: line, Col: col, Msg: fmt.Sprintf(msg, args...)}
}

// parse decodes data and dispatches on the file extension.
func (p *parser) parse(data []byte) error {
	text, err := format.DecodeText(data)
	if err != nil {
		return p.errorf(0, 0, "decode: %v", err)
	}
	switch strings.ToLower(filepath.Ext(p.file)) {
	case ".yaml", ".yml":
		return p.parseManifest(text)
	}
	return p.parseLines(text)
}

func (p *parser) parseLines(text []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	seenHeader := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, commentPrefix) {
			continue
		}
		if !seenHeader {
			name, ok := parseHeader(trim)
			if !ok {
				return p.errorf(lineNo, indent(line)+1, "expected (Library <name>); header")
			}
			p.lib.name = name
			seenHeader = true
			continue
		}
		toks, err := tokenize(line)
		if err != nil {
			return p.errorf(lineNo, err.col, "%s", err.msg)
		}
		if err := p.parseDirective(lineNo, toks); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return p.errorf(lineNo+1, 0, "read: %v", err)
	}
	if !seenHeader {
		return p.errorf(0, 0, "missing (Library <name>); header")
	}
	return nil
}

func (p *parser) parseDirective(line int, toks []token) error {
	kw, args := toks[0], toks[1:]
	switch strings.ToLower(kw.text) {
	case "reference":
		if len(args) < 2 || len(args) > 3 {
			return p.errorf(line, kw.col, "Reference takes a name, a path and an optional location")
		}
		path, err := p.expand(line, args[1])
		if err != nil {
			return err
		}
		loc := CellLocation(strtab.Make(args[0].text))
		if len(args) == 3 {
			if loc, err = p.parseLocation(line, args[2]); err != nil {
				return err
			}
		}
		p.addReference(line, args[0].text, path, loc)
		return nil

	case "alias":
		if len(args) != 2 {
			return p.errorf(line, kw.col, "Alias takes a name and a target")
		}
		p.addAlias(line, args[0].text, args[1].text)
		return nil

	case "define":
		if len(args) != 2 {
			return p.errorf(line, kw.col, "Define takes a variable and a value")
		}
		val, err := p.expand(line, args[1])
		if err != nil {
			return err
		}
		p.vars[args[0].text] = val
		return nil
	}
	return p.errorf(line, kw.col, "unknown keyword %q", kw.text)
}

func (p *parser) parseLocation(line int, tok token) (Location, error) {
	if !strings.HasPrefix(tok.text, "@") {
		name, err := p.expand(line, tok)
		if err != nil {
			return Location{}, err
		}
		return CellLocation(strtab.Make(name)), nil
	}
	off, err := strconv.ParseInt(tok.text[1:], 0, 64)
	if err != nil || off < 0 {
		return Location{}, p.errorf(line, tok.col, "bad offset %q", tok.text)
	}
	return OffsetLocation(off), nil
}

// expand substitutes $(var) with values from earlier Define lines.
func (p *parser) expand(line int, tok token) (string, error) {
	s := tok.text
	if !strings.Contains(s, "$(") {
		return s, nil
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "$(")
		if i < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		j := strings.IndexByte(s[i:], ')')
		if j < 0 {
			return "", p.errorf(line, tok.col+len(tok.text)-len(s)+i, "unterminated $(")
		}
		name := s[i+2 : i+j]
		val, ok := p.vars[name]
		if !ok {
			return "", p.errorf(line, tok.col+len(tok.text)-len(s)+i, "undefined variable %q", name)
		}
		b.WriteString(s[:i])
		b.WriteString(val)
		s = s[i+j+1:]
	}
}

func (p *parser) resolvePath(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	return filepath.Clean(path)
}

func (p *parser) addReference(line int, name, path string, loc Location) {
	path = p.resolvePath(path)
	p.store(line, &Reference{
		Name: strtab.Make(name),
		Dir:  strtab.Make(filepath.Dir(path)),
		File: strtab.Make(filepath.Base(path)),
		Loc:  loc,
	})
}

func (p *parser) addAlias(line int, name, target string) {
	p.store(line, &Reference{
		Name:    strtab.Make(name),
		Loc:     CellLocation(strtab.Make(target)),
		IsAlias: true,
	})
}

func (p *parser) store(line int, r *Reference) {
	if prev := p.lib.add(r); prev != nil {
		p.dups = append(p.dups, duplicate{name: r.Name.String(), line: line})
	}
}

// parseHeader accepts "(Library name);" with the semicolon optional.
func parseHeader(s string) (string, bool) {
	if len(s) < len(headerPrefix) || !strings.EqualFold(s[:len(headerPrefix)], headerPrefix) {
		return "", false
	}
	rest := strings.TrimSpace(s[len(headerPrefix):])
	rest = strings.TrimSuffix(rest, ";")
	rest = strings.TrimSpace(rest)
	if !strings.HasSuffix(rest, ")") {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimSuffix(rest, ")"))
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", false
	}
	return name, true
}

type token struct {
	text string
	col  int // 1-based byte column
}

type tokenError struct {
	col int
	msg string
}

// tokenize splits a line on whitespace. Double quotes group a token that
// contains spaces.
func tokenize(line string) ([]token, *tokenError) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		start := i
		if c == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, &tokenError{col: start + 1, msg: "unterminated quote"}
			}
			toks = append(toks, token{text: line[i+1 : i+1+end], col: start + 1})
			i += end + 2
			continue
		}
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		toks = append(toks, token{text: line[start:i], col: start + 1})
	}
	return toks, nil
}

func indent(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// manifest is the YAML form of a library file.
type manifest struct {
	Library    string            `yaml:"library"`
	Define     map[string]string `yaml:"define"`
	References []manifestRef     `yaml:"references"`
}

type manifestRef struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Cell   string `yaml:"cell"`
	Offset *int64 `yaml:"offset"`
	Alias  string `yaml:"alias"`

	line, col int
}

// UnmarshalYAML records the position of each entry for error reporting.
func (m *manifestRef) UnmarshalYAML(node *yaml.Node) error {
	type plain manifestRef
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	m.line, m.col = node.Line, node.Column
	return nil
}

func (p *parser) parseManifest(text []byte) error {
	var m manifest
	if err := yaml.Unmarshal(text, &m); err != nil {
		return p.errorf(0, 0, "%v", err)
	}
	if strings.TrimSpace(m.Library) == "" {
		return p.errorf(1, 1, "missing library name")
	}
	p.lib.name = m.Library
	for k, v := range m.Define {
		p.vars[k] = v
	}

	for _, r := range m.References {
		if r.Name == "" {
			return p.errorf(r.line, r.col, "reference without a name")
		}
		if r.Alias != "" {
			if r.Path != "" || r.Cell != "" || r.Offset != nil {
				return p.errorf(r.line, r.col, "alias %q cannot also have a path or location", r.Name)
			}
			p.addAlias(r.line, r.Name, r.Alias)
			continue
		}
		if r.Path == "" {
			return p.errorf(r.line, r.col, "reference %q has no path", r.Name)
		}
		path, err := p.expand(r.line, token{text: r.Path, col: r.col})
		if err != nil {
			return err
		}
		loc := CellLocation(strtab.Make(r.Name))
		switch {
		case r.Offset != nil && r.Cell != "":
			return p.errorf(r.line, r.col, "reference %q has both cell and offset", r.Name)
		case r.Offset != nil:
			if *r.Offset < 0 {
				return p.errorf(r.line, r.col, "reference %q has a negative offset", r.Name)
			}
			loc = OffsetLocation(*r.Offset)
		case r.Cell != "":
			cellName, err := p.expand(r.line, token{text: r.Cell, col: r.col})
			if err != nil {
				return err
			}
			loc = CellLocation(strtab.Make(cellName))
		}
		p.addReference(r.line, r.Name, path, loc)
	}
	return nil
}
