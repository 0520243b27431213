package main

import "staffing/internal/app/server"

func main() {
	server.Run()
}
