// cmdgen compiles annotated Go struct declarations into command-line
// grammars and the typed decoders that read parsed arguments back into them.
package main

var (
	// Set via ldflags at build time
	version = "dev"
	commit  = "none"
)

func main() {
	Execute()
}
