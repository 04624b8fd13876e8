package main

import (
	"innovation-challenge-system/cmd/server"
)

func main() {
	server.Init()
	server.Run()
}
