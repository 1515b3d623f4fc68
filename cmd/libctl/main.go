package main

import "library-management-be/cmd/libctl/commands"

func main() {
	commands.Execute()
}
