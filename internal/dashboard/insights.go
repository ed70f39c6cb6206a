package dashboard

import (
	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/pkg/models"
)

// NoInsightsMessage is shown when the backend has nothing to recommend
const NoInsightsMessage = "No interactions required at the moment."

const itemClass = "insight-item"

var insightIcons = map[string]string{
	models.InsightPositive: "fa-solid fa-temperature-arrow-down",
	models.InsightWarning:  "fa-regular fa-clock",
}

const defaultInsightIcon = "fa-regular fa-lightbulb"

// InsightIcon returns the icon class for an insight type
func InsightIcon(kind string) string {
	if icon, ok := insightIcons[kind]; ok {
		return icon
	}
	return defaultInsightIcon
}

// InsightItems maps insights to list items. An empty list becomes a single
// placeholder item.
func InsightItems(list []models.Insight) []display.Item {
	if len(list) == 0 {
		return []display.Item{{Class: itemClass, Message: NoInsightsMessage}}
	}

	items := make([]display.Item, len(list))
	for i, in := range list {
		items[i] = display.Item{
			Class:   itemClass + " " + in.Type,
			Icon:    InsightIcon(in.Type),
			Title:   in.Title,
			Message: in.Message,
		}
	}
	return items
}
