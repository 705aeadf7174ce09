package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/nemtech/gocatbuffer/pkg/util/common"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	if opts.Help {
		showUsage()
		return nil
	}
	common.SetupLogger(opts.LogLevel)
	defer func() { _ = zap.L().Sync() }()

	if err := dump(context.Background(), opts, afero.NewOsFs(), os.Stdin, os.Stdout); err != nil {
		zap.S().Errorf("catdump: %v", err)
		return err
	}
	return nil
}
