package main

import "fairworkly/internal/app/server"

func main() {
	server.Run()
}
