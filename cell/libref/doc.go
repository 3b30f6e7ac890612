// Package libref indexes library description files and resolves symbolic
// cell references to locations in archive files.
//
// A library file lists the cells a library provides and where each one
// lives: at a byte offset in an archive, under another name in an archive,
// or in another library. Libraries are either device libraries, whose cell
// names are protected from renaming, or user libraries.
//
// Two source forms are accepted. The line form:
//
//	# comment
//	(Library stdcells);
//	Define root /pdk/v2
//	Reference inv    $(root)/inv.gds
//	Reference nand2  $(root)/logic.gds  @4096
//	Reference nor2   $(root)/logic.gds  NOR2_X1
//	Alias     inv_x1 inv
//
// and a YAML manifest (.yaml or .yml) with the same content:
//
//	library: stdcells
//	define: {root: /pdk/v2}
//	references:
//	  - {name: inv, path: $(root)/inv.gds}
//	  - {name: nand2, path: $(root)/logic.gds, offset: 4096}
//	  - {name: nor2, path: $(root)/logic.gds, cell: NOR2_X1}
//	  - {name: inv_x1, alias: inv}
//
// Relative paths are taken relative to the library file's directory.
//
// An Index owns its libraries and their digest caches. It is not safe for
// concurrent use.
package libref
