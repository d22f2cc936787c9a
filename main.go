package main

import "ssrmodes/cmd"

func main() {
	cmd.Execute()
}
