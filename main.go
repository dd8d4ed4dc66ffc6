package main

import "date-journal-backend/cmd"

func main() {
	cmd.Execute()
}
