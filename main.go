package main

import "github.com/frahmantamala/staff-attendance/cmd"

func main() {
	cmd.Execute()
}
