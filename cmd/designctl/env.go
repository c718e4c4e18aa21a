package main

import (
	"os"
	"strings"
)

func envFileFromArgs() string {
	return envFileFrom(os.Args[1:])
}

func envFileFrom(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--env-file" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--env-file="):
			return strings.TrimPrefix(arg, "--env-file=")
		}
	}
	return ".env"
}
