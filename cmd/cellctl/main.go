// Command cellctl inspects cell names, library references and cell
// hierarchies.
package main

func main() {
	execute()
}
