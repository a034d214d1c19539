package main

import "anchorbar/cmd/anchorbar/cmd"

func main() {
	cmd.Execute()
}
