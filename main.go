package main

import "github.com/fafukeh/AramEnjoyer/cmd"

func main() {
	cmd.Execute()
}
