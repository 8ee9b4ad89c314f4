package main

import (
	"errors"
	"os"

	"github.com/tjanson/decsync-go/internal/applog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errVerifyMismatch) {
			os.Exit(1)
		}

		applog.ExitOnError(err)
	}
}
