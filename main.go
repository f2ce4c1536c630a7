package main

import "github.com/KaramelBytes/tabprep-cli/cmd"

func main() {
	cmd.Execute()
}
