// Package alias renames cells during format translation.
//
// A Resolver sits between a format codec and the working database. The codec
// asks Alias(name) for every cell name it reads or writes; the resolver
// answers with the name to use instead, minting a new one when the original
// collides with a name already in use, is reserved by an earlier file, or
// breaks the target format's naming rules. Bindings are stable for the life
// of the resolver (or until Reinit), and may be saved to and restored from an
// alias file.
//
// # Name mutation
//
// A fresh alias is built in a fixed order:
//
//  1. Case folding (ToLower / ToUpper), only for single-case names
//  2. Prefix and suffix
//  3. Truncation to 32 bytes (Limit32)
//  4. Character set legalization (Charset): '.' becomes '_', anything outside
//     [A-Za-z0-9_?$] becomes '$'
//  5. Whitespace and control characters become '_' (unless KeepSpace)
//
// If that candidate is taken, "$1", "$2", ... are appended at the end of the
// transformed name (overwriting its tail under Limit32) until one is free.
//
// # Lifecycle
//
//	r := alias.New(alias.Options{Policy: alias.ToLower | alias.Limit32, Database: db})
//	_ = r.ReadFile("top.alias")
//	for _, n := range names {
//	    out := r.Alias(n)
//	    ...
//	}
//	r.SetFrozen()
//	_ = r.WriteFile("top.alias")
//
// Device cells (as reported by Options.Devices) are never renamed.
package alias
