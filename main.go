package main

import "mcpauth/cmd"

func main() {
	cmd.Execute()
}
