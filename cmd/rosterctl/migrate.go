package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidar/wfm-roster/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Управление схемой базы данных",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Применить новые миграции",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := loadDatabaseConfig()
		if err != nil {
			return err
		}
		if err := migrations.Up(db.DSN()); err != nil {
			return err
		}
		logger := newLogger()
		logger.Info().Msg("миграции применены")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Откатить все миграции",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := loadDatabaseConfig()
		if err != nil {
			return err
		}
		if err := migrations.Down(db.DSN()); err != nil {
			return err
		}
		logger := newLogger()
		logger.Info().Msg("миграции откачены")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию схемы",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := loadDatabaseConfig()
		if err != nil {
			return err
		}
		version, dirty, err := migrations.Version(db.DSN())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
}
