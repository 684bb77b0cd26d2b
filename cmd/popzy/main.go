// Package main provides the CLI entrypoint for popzy.
package main

func main() {
	Execute()
}
