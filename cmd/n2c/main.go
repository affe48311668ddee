package main

import "github.com/Ereliath/NodeToCode/internal/cmd"

func main() {
	cmd.Execute()
}
