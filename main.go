package main

import "github.com/gaurav-prasanna/pagepress/cmd"

func main() {
	cmd.Execute()
}
