package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidar/wfm-roster/internal/config"
	"github.com/aidar/wfm-roster/internal/domain"
	"github.com/aidar/wfm-roster/internal/service"
)

var exportFlags struct {
	out          string
	context      string
	search       string
	team         string
	status       string
	showInactive bool
}

// exportCmd выгружает отфильтрованный список сотрудников в CSV
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить список сотрудников в CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var roster config.RosterConfig
		if err := config.LoadSection(&roster); err != nil {
			return err
		}

		logger := newLogger()
		store, closeDB, err := openStore(cmd.Context(), logger)
		if err != nil {
			return err
		}
		defer closeDB()

		criteria := domain.DefaultFilterCriteria()
		criteria.Search = exportFlags.search
		criteria.Team = exportFlags.team
		criteria.Status = exportFlags.status
		criteria.ShowInactive = exportFlags.showInactive

		visible := service.VisibleEmployees(store.Snapshot().Employees, criteria)
		res, err := service.ExportCSV(visible, domain.DefaultColumnVisibility(), exportFlags.context, service.SystemClock().Now(), roster.LoadLocation())
		if err != nil {
			return err
		}

		if exportFlags.out == "-" {
			_, err = cmd.OutOrStdout().Write(res.Content)
			return err
		}

		path := exportFlags.out
		if path == "" {
			path = res.FileName
		} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			path = filepath.Join(path, res.FileName)
		}
		if err := os.WriteFile(path, res.Content, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		logger.Info().Str("file", path).Int("rows", res.Rows).Msg("выгрузка сохранена")
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "", "файл или каталог для выгрузки, - для stdout")
	f.StringVar(&exportFlags.context, "context", service.DefaultExportContext, "контекст выгрузки для имени файла")
	f.StringVar(&exportFlags.search, "search", "", "поиск по имени, логину или email")
	f.StringVar(&exportFlags.team, "team", "", "идентификатор команды")
	f.StringVar(&exportFlags.status, "status", "", "статус сотрудника")
	f.BoolVar(&exportFlags.showInactive, "show-inactive", false, "включить неактивных и уволенных")
}
