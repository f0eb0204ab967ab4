package main

import "github.com/khanhnv2901/site-checker/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
