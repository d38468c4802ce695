package main

import "weave/cmd"

func main() {
	cmd.Execute()
}
