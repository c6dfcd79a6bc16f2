package main

import "github.com/MBatuhanOzer/filter/cmd"

func main() {
	cmd.Execute()
}
