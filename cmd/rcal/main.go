package main

import "github.com/dharmeshiPhone/RealCalender-sub003/cmd/rcal/root"

func main() {
	root.Execute()
}
