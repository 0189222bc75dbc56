package main

import "github.com/bryanwahyu/growthaudit/internal/cli"

func main() {
	cli.Execute()
}
