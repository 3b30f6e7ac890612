package cell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/cellkit/cell/strtab"
)

// ErrBadHierarchy is returned by ReadDatabase for invalid descriptions.
var ErrBadHierarchy = errors.New("cell: bad hierarchy description")

// ParseView accepts "physical"/"phys"/"p" and "electrical"/"elec"/"e".
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "physical", "phys", "p":
		return Physical, nil
	case "electrical", "elec", "e":
		return Electrical, nil
	}
	return Physical, fmt.Errorf("%w: unknown view %q", ErrBadHierarchy, s)
}

type hierFile struct {
	Cells []hierCell `yaml:"cells"`
}

type hierCell struct {
	Name   string      `yaml:"name"`
	View   string      `yaml:"view"`
	Device bool        `yaml:"device"`
	BBox   []int       `yaml:"bbox"`
	Place  []hierPlace `yaml:"place"`
}

type hierPlace struct {
	Cell string `yaml:"cell"`
	N    *int   `yaml:"n"`
}

// ReadDatabase builds a database from a YAML hierarchy description:
//
//	cells:
//	  - name: top
//	    bbox: [0, 0, 100, 50]
//	    place:
//	      - {cell: inv, n: 4}
//	      - {cell: nand2}
//	  - name: inv
//	    device: true
//	  - name: top
//	    view: electrical
//
// Placements refer to cells of the same view; a placement of a cell that
// is not described stays unresolved. n defaults to 1.
func ReadDatabase(r io.Reader) (*Database, error) {
	var f hierFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrBadHierarchy, err)
	}

	db := NewDatabase()
	cells := make([]*Cell, len(f.Cells))
	for i, hc := range f.Cells {
		if hc.Name == "" {
			return nil, fmt.Errorf("%w: cell %d has no name", ErrBadHierarchy, i+1)
		}
		v, err := ParseView(hc.View)
		if err != nil {
			return nil, err
		}
		c := db.AddNamed(hc.Name, v)
		if hc.Device {
			c.SetDevice(true)
		}
		switch len(hc.BBox) {
		case 0:
		case 4:
			c.SetBBox(BBox{hc.BBox[0], hc.BBox[1], hc.BBox[2], hc.BBox[3]})
		default:
			return nil, fmt.Errorf("%w: cell %s: bbox needs 4 values", ErrBadHierarchy, hc.Name)
		}
		cells[i] = c
	}

	for i, hc := range f.Cells {
		parent := cells[i]
		for _, p := range hc.Place {
			n := 1
			if p.N != nil {
				n = *p.N
			}
			if p.Cell == "" || n < 0 {
				return nil, fmt.Errorf("%w: cell %s: bad placement", ErrBadHierarchy, hc.Name)
			}
			name := strtab.Make(p.Cell)
			if child, ok := db.FindCell(name, parent.View()); ok {
				parent.Place(child, n)
			} else {
				parent.PlaceUnresolved(name, n)
			}
		}
	}
	return db, nil
}

// LoadDatabase reads a YAML hierarchy description from path.
func LoadDatabase(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cell: load %s: %w", path, err)
	}
	defer f.Close()
	return ReadDatabase(f)
}
