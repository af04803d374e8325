package main

import "github.com/strrl/blogpessoal/cmd/blogpessoal/commands"

func main() {
	commands.Execute()
}
