package main

import "vendorpull/cmd"

func main() {
	cmd.Execute()
}
