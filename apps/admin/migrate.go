package main

import (
	"github.com/pressly/goose/v3"

	appfs "github.com/trezcool/grow/fs"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	return gooseRunFunc(args[0], cli.db, "migrations", rest...)
}
