package main

import "github.com/cegme/mdoutline/internal/cmd"

func main() {
	cmd.Execute()
}
