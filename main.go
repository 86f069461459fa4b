package main

import "github.com/comperml/pianoprep/cmd"

func main() {
	cmd.Execute()
}
