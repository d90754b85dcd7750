package app

import (
	"context"
	"sort"
	"strings"

	"tableflip.dev/taskflow/pkg/tag"
	"tableflip.dev/taskflow/pkg/task"
)

// ReportSection groups the tasks due in a window that carry one tag.
type ReportSection struct {
	Tag   tag.Tag         `json:"tag" yaml:"tag"`
	Tasks task.Collection `json:"tasks" yaml:"tasks"`
	Done  int             `json:"done" yaml:"done"`
}

// ReportResult summarizes progress for tasks due between Since and Until,
// inclusive.
type ReportResult struct {
	Since    task.Date       `json:"since" yaml:"since"`
	Until    task.Date       `json:"until" yaml:"until"`
	Sections []ReportSection `json:"sections" yaml:"sections"`
	Total    int             `json:"total" yaml:"total"`
	Done     int             `json:"done" yaml:"done"`
}

// Report groups tasks due in [since, until] by tag. Untagged tasks are listed
// under a section with an empty tag name, last. Sections follow the tag
// registry order.
func (s *Service) Report(ctx context.Context, since, until task.Date) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	c, err := s.Tasks(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	tags, err := s.Tags(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	grouped := make(map[string]*ReportSection)
	res := ReportResult{Since: since, Until: until}
	for _, t := range c {
		if !t.HasDue() || t.DueDate.Before(since) || t.DueDate.After(until) {
			continue
		}
		key := strings.ToLower(t.TagName())
		sec, ok := grouped[key]
		if !ok {
			sec = &ReportSection{Tasks: task.Collection{}}
			if t.Tag != nil {
				sec.Tag = *t.Tag
			}
			grouped[key] = sec
		}
		sec.Tasks = append(sec.Tasks, t)
		res.Total++
		if t.Completed {
			sec.Done++
			res.Done++
		}
	}
	if len(grouped) == 0 {
		return res, nil
	}

	rank := make(map[string]int, len(tags))
	for i, tg := range tags {
		rank[strings.ToLower(tg.Name)] = i
	}
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case keys[i] == "":
			return false
		case keys[j] == "":
			return true
		case iok && jok:
			return ri < rj
		case iok != jok:
			// Tags deleted from the registry sort after known ones.
			return iok
		default:
			return keys[i] < keys[j]
		}
	})
	for _, k := range keys {
		res.Sections = append(res.Sections, *grouped[k])
	}
	return res, nil
}
