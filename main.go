package main

import "github.com/KaramelBytes/titanic-insights/cmd"

func main() {
	cmd.Execute()
}
