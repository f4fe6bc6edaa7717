// File: /main.go
package main

import "reabastece-api/cmd"

func main() {
	cmd.Execute()
}
