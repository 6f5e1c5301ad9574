package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/martium/fsh/internal/models"
)

var _ list.Item = serviceItem{}

// serviceItem wraps [models.ServiceSummary] to implement [list.Item].
type serviceItem struct {
	summary models.ServiceSummary
}

func (i serviceItem) FilterValue() string { return i.summary.CustomerNames }
func (i serviceItem) Title() string {
	name := i.summary.CustomerNames
	if name == "" {
		name = "(no customer)"
	}
	return fmt.Sprintf("#%d %s", i.summary.OrderNumber, name)
}
func (i serviceItem) Description() string {
	var parts []string
	for _, p := range []string{i.summary.ServiceDates, i.summary.DepartedInfo, i.summary.CustomerPhoneNumbers} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

func serviceItems(summaries []models.ServiceSummary) []list.Item {
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = serviceItem{summary: s}
	}
	return items
}
