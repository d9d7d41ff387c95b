package main

import (
	"os"

	"github.com/EtchProject/qiling/go/cmd"
)

func main() { os.Exit(cmd.Main(os.Args[1:])) }
