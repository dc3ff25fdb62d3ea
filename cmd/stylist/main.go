package main

import "aistylist/cmd/stylist/cmd"

func main() {
	cmd.Execute()
}
