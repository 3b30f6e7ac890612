// Package types holds the small value types shared by the cell identity
// packages and their front ends, chiefly the diagnostic report that
// collects renames, library warnings and walk failures for display.
package types
