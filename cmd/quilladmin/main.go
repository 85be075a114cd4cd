package main

import "quill/cmd/quilladmin/commands"

func main() {
	commands.Execute()
}
