package main

import "github.com/howeyc/degiro/degiro/cmd"

func main() {
	cmd.Execute()
}
