package main

import "github.com/theirongolddev/flowrank/cmd"

func main() {
	cmd.Execute()
}
