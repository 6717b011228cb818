package main

import "github.com/jsphweid/gyrotone/cmd"

func main() {
	cmd.Execute()
}
