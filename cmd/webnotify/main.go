// Package main provides the CLI entrypoint for webnotify.
package main

func main() {
	Execute()
}
