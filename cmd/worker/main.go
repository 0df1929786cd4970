package main

import "fairworkly/internal/app/worker"

func main() {
	worker.Run()
}
