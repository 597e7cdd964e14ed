package main

import "github.com/glotscan/glot/cmd/glot/cmd"

func main() {
	cmd.Execute()
}
