/*
factory.go - JSON forms of the preset goal templates

These helpers emit the JSON representation the factory package parses.
They build the JSON directly to avoid an import cycle with factory.

USAGE:
  jsonStr := family.OutingTemplateJSON("outing", "Family Outing", 60, 14)
  tmpl, err := factory.ParseTemplate(jsonStr)
*/
package family

import (
	"encoding/json"
)

// AllowanceTemplateJSON returns JSON for a short deadline-driven jar goal.
func AllowanceTemplateJSON(id, name string, target int64, deadlineDays int) string {
	return templateJSON(map[string]interface{}{
		"id":            id,
		"name":          name,
		"target":        target,
		"deadline_days": deadlineDays,
	})
}

// OutingTemplateJSON returns JSON for a medium timed goal.
func OutingTemplateJSON(id, name string, target int64, deadlineDays int) string {
	return templateJSON(map[string]interface{}{
		"id":            id,
		"name":          name,
		"target":        target,
		"deadline_days": deadlineDays,
		"notes":         "One family outing when the bar fills.",
	})
}

// SaveUpTemplateJSON returns JSON for an open-ended save goal.
func SaveUpTemplateJSON(id, name string, target int64, priority int) string {
	return templateJSON(map[string]interface{}{
		"id":       id,
		"name":     name,
		"target":   target,
		"priority": priority,
	})
}

func templateJSON(fields map[string]interface{}) string {
	b, _ := json.MarshalIndent(fields, "", "  ")
	return string(b)
}
