/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/prism-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// A missing .env file is fine, the environment may already be set
	_ = godotenv.Load()
}
