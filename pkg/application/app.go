// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"github.com/luxfi/marketplace-deployer/pkg/config"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type App struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
	// FS is used for every artifact and address file access
	FS afero.Fs
}

func New() *App {
	return &App{
		Log: zap.NewNop(),
		FS:  afero.NewOsFs(),
	}
}

func (app *App) Setup(baseDir string, log *zap.Logger, conf *config.Config, fs afero.Fs) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.FS = fs
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *App) GetLogFile() string {
	return filepath.Join(app.GetLogDir(), constants.LogFileName)
}
