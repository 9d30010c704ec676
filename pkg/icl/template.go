package icl

import _ "embed"

//go:embed testdata/hello_world.icl
var helloWorldSource string

// HelloWorldTemplate returns the canonical minimal contract used as a
// starting point by `init` tooling and as the fixture for the hello-world
// round-trip scenario.
func HelloWorldTemplate() string {
	return helloWorldSource
}
