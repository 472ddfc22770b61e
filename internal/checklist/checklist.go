// Package checklist parses markdown task lists and merges them back into
// a task's checklist without forking item identity.
package checklist

import (
	"bufio"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/gtd/internal/model"
)

// ParsedItem is a checklist entry extracted from markdown text.
type ParsedItem struct {
	Title       string
	IsCompleted bool
}

// ParseMarkdown extracts "- [ ]" / "- [x]" entries from text. Lines that
// are not checklist entries are ignored. "*" and "+" bullets are accepted.
func ParseMarkdown(text string) []ParsedItem {
	var items []ParsedItem
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < 5 {
			continue
		}
		switch line[0] {
		case '-', '*', '+':
		default:
			continue
		}
		rest := strings.TrimSpace(line[1:])
		if len(rest) < 3 || rest[0] != '[' || rest[2] != ']' {
			continue
		}
		mark := rest[1]
		if mark != ' ' && mark != 'x' && mark != 'X' {
			continue
		}
		title := strings.TrimSpace(rest[3:])
		if title == "" {
			continue
		}
		items = append(items, ParsedItem{Title: title, IsCompleted: mark != ' '})
	}
	return items
}

// normalizeKey folds a title for identity matching so that external edits
// which merely re-case or re-pad a title do not fork the item's ID.
func normalizeKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Merge reconciles a re-parsed markdown checklist with the existing one.
// Parsed items reuse the ID of an existing item with the same normalized
// title (consuming duplicates in order); items without a match get fresh
// IDs. Existing items absent from the parse are appended so nothing is
// silently dropped.
func Merge(parsed []ParsedItem, existing []model.ChecklistItem) []model.ChecklistItem {
	byKey := make(map[string][]model.ChecklistItem)
	for _, item := range existing {
		if item.Title == "" {
			continue
		}
		key := normalizeKey(item.Title)
		byKey[key] = append(byKey[key], item)
	}

	usedIDs := make(map[string]bool)
	merged := make([]model.ChecklistItem, 0, len(parsed))
	for _, p := range parsed {
		key := normalizeKey(p.Title)
		id := ""
		for _, candidate := range byKey[key] {
			if !usedIDs[candidate.ID] {
				id = candidate.ID
				break
			}
		}
		if id == "" {
			id = uuid.New().String()
		}
		usedIDs[id] = true
		merged = append(merged, model.ChecklistItem{
			ID:          id,
			Title:       p.Title,
			IsCompleted: p.IsCompleted,
		})
	}

	for _, item := range existing {
		if item.ID == "" || usedIDs[item.ID] {
			continue
		}
		merged = append(merged, item)
	}

	return merged
}
