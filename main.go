package main

import "github.com/birdql/goldgraph/cmd"

func main() {
	cmd.Execute()
}
