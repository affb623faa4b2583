package main

import "github.com/kartoza/mof-predictor/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
