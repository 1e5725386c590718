package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Team представляет рабочую группу сотрудников.
// Сотрудник хранит собственную копию команды, а не ссылку на реестр.
type Team struct {
	ID                string          `json:"id" yaml:"id"`
	Name              string          `json:"name" yaml:"name"`
	Color             string          `json:"color" yaml:"color"`
	ManagerID         string          `json:"managerId" yaml:"managerId"`
	MemberCount       int             `json:"memberCount" yaml:"memberCount"`
	TargetUtilization decimal.Decimal `json:"targetUtilization" yaml:"targetUtilization"`
}

// DepartmentForTeam выводит подразделение по названию команды (используется мастером добавления)
func DepartmentForTeam(teamName string) string {
	switch {
	case strings.Contains(teamName, "поддержки"):
		return "Клиентская поддержка"
	case strings.Contains(teamName, "продаж"):
		return "Продажи"
	default:
		return "Общий"
	}
}
