package main

import "github.com/rachit9876/bitArchive/cmd/bitarchive/cmd"

func main() {
	cmd.Execute()
}
