package main

import "github.com/fieldsurvey/collect/cmd"

func main() {
	cmd.Execute()
}
