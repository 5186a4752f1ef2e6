/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/membuf/cmd/membuf/cmd"

func main() {
	cmd.Execute()
}
