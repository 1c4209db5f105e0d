package main

import (
	"pledge/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version + "-" + commit)
}
