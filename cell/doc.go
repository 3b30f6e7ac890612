// Package cell defines the dual-view cell model the identity core works on,
// and an in-memory working database.
//
// A cell is a named unit of hierarchical design data. Each name may carry a
// physical (layout) view, an electrical (schematic) view, or both; the two
// are separate *Cell values with separate identities. A cell refers to its
// subcells through masters: one Master per distinct subcell, with the number
// of placed instances.
//
// Subpackages:
//   - strtab: interned name handles
//   - bitab: the name/alias bidirectional table
//   - namepool: deduplicated storage for minted aliases
//   - alias: the alias resolver that renames cells during translation
//   - libref: the library reference index
//   - walker: bounded, cycle-free hierarchy traversal
//   - digest: cacheable hierarchy summaries
package cell
