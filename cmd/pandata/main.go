/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/panoptes-data/pandata/cmd/pandata/cmd"

func main() {
	cmd.Execute()
}
