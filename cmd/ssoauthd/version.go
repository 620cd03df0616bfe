package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags; "dev" otherwise.
var Version = "dev"

func commandVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ssoauthd version: %s\nGo version: %s\nGo OS/ARCH: %s %s\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
