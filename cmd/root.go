package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "toolplanner"}

	root.AddCommand(serveCMD(), migrateCMD(), seedCMD(), enrichCMD(), ratingsCMD())
	_ = root.Execute()
}
