package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidar/wfm-roster/internal/service"
)

var seedFile string

// seedCmd добавляет в реестр команды, теги и сотрудников из YAML файла.
// Уже существующие записи не меняются.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Заполнить реестр из YAML файла",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := seedFile
		if path == "" {
			path = os.Getenv("ROSTER_FIXTURES_FILE")
		}
		if path == "" {
			return errors.New("fixtures file is required: --file or ROSTER_FIXTURES_FILE")
		}

		fx, err := service.LoadFixturesFile(path)
		if err != nil {
			return err
		}

		logger := newLogger()
		store, closeDB, err := openStore(cmd.Context(), logger)
		if err != nil {
			return err
		}
		defer closeDB()

		added, err := service.SeedRoster(cmd.Context(), store, fx)
		if err != nil {
			return err
		}
		logger.Info().Str("file", path).Int("added", added).Msg("реестр заполнен")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML файл с командами и сотрудниками")
}
