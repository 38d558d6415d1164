package main

import "github.com/ngld/launchgen/cmd"

func main() {
	cmd.Execute()
}
