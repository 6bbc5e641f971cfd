package main

import "github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
