package main

import "vsupload/cmd"

func main() {
	cmd.Execute()
}
