// Package db opens the configured database and runs migrations
package db

import (
	"errors"
	"fmt"

	"iqra/quran-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch viper.GetString("db.type") {
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("db.path"))
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	default:
		return nil, errors.New("invalid database type provided")
	}

	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey so the store can report conflicts without
	// a racy pre-check
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
