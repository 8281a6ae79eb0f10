package service

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/trackboard/backend/internal/model"
)

// ImportService turns client-parsed spreadsheet rows (JIRA exports) into
// requirement-root activities or defects, with dry-run validation and
// rename-on-conflict at commit time.
type ImportService struct {
	db *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// ImportRow is one parsed spreadsheet line.
type ImportRow struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

type ImportCounts struct {
	New        int `json:"new"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

type ImportResult struct {
	Inserted int `json:"inserted"`
	Renamed  int `json:"renamed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type ImportTarget struct {
	Project   string
	Sprint    string
	Date      string
	ReleaseID *uint
}

var requirementRowTypes = map[string]bool{
	"Change Request": true,
	"Task":           true,
	"Bug":            true,
	"Story":          true,
}

var bracketToken = regexp.MustCompile(`^\s*\[[^\]]*\]\s*|\s*\[[^\]]*\]\s*$`)

// cleanSummary strips one bracketed [...] token from the front or back of a
// JIRA summary and trims the rest.
func cleanSummary(s string) string {
	return strings.TrimSpace(bracketToken.ReplaceAllString(s, " "))
}

func validRequirementRow(r ImportRow) bool {
	return requirementRowTypes[strings.TrimSpace(r.Type)] && cleanSummary(r.Summary) != ""
}

func validDefectRow(r ImportRow) bool {
	return strings.TrimSpace(r.Type) == "Defect" && cleanSummary(r.Summary) != ""
}

// ValidateRequirements partitions rows into new/duplicate/skipped against
// the external keys already present in the project. No writes.
func (s *ImportService) ValidateRequirements(project string, rows []ImportRow) (ImportCounts, error) {
	if blank(project) {
		return ImportCounts{}, ValidationError{Msg: "project is required"}
	}
	keys, err := s.activityKeys(project)
	if err != nil {
		return ImportCounts{}, err
	}
	return partition(rows, keys, validRequirementRow), nil
}

// ValidateDefects is the defect-side dry run; existing keys come from the
// defect link column where imports store the JIRA reference.
func (s *ImportService) ValidateDefects(project string, rows []ImportRow) (ImportCounts, error) {
	if blank(project) {
		return ImportCounts{}, ValidationError{Msg: "project is required"}
	}
	keys, err := s.defectKeys(project)
	if err != nil {
		return ImportCounts{}, err
	}
	return partition(rows, keys, validDefectRow), nil
}

func partition(rows []ImportRow, existing map[string]bool, valid func(ImportRow) bool) ImportCounts {
	var counts ImportCounts
	for _, r := range rows {
		switch {
		case !valid(r):
			counts.Skipped++
		case r.Key != "" && existing[r.Key]:
			counts.Duplicates++
		default:
			counts.New++
		}
	}
	return counts
}

// ExecuteRequirements inserts every valid row as a new requirement root
// (own id = own group id) at the initial status. A key collision does not
// skip the row: the title gets a numeric disambiguator, checked against the
// growing set of used titles so collisions inside the batch resolve too.
// Row failures are logged and counted; the batch commits once at the end.
func (s *ImportService) ExecuteRequirements(target ImportTarget, rows []ImportRow) (ImportResult, error) {
	if blank(target.Project) || blank(target.Sprint) || blank(target.Date) {
		return ImportResult{}, ValidationError{Msg: "project, sprint and date are required"}
	}
	keys, err := s.activityKeys(target.Project)
	if err != nil {
		return ImportResult{}, err
	}
	titles, err := s.activityTitles(target.Project)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if !validRequirementRow(r) {
				result.Skipped++
				continue
			}
			base := cleanSummary(r.Summary)
			title := base
			if r.Key != "" && keys[r.Key] {
				title = disambiguate(base, titles)
			}
			renamed := title != base

			act := model.Activity{
				Project:    target.Project,
				Name:       title,
				Status:     model.RequirementStatusToDo,
				StatusDate: target.Date,
				Sprint:     target.Sprint,
				Key:        r.Key,
				ReleaseID:  target.ReleaseID,
				IsCurrent:  true,
			}
			if err := tx.Create(&act).Error; err != nil {
				slog.Warn("import row failed", "project", target.Project, "key", r.Key, "error", err)
				result.Failed++
				continue
			}
			if err := tx.Model(&model.Activity{}).Where("id = ?", act.ID).
				Update("requirement_group_id", act.ID).Error; err != nil {
				slog.Warn("import row failed", "project", target.Project, "key", r.Key, "error", err)
				result.Failed++
				continue
			}

			result.Inserted++
			if renamed {
				result.Renamed++
			}
			if r.Key != "" {
				keys[r.Key] = true
			}
			titles[title] = true
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// ExecuteDefects inserts every valid row as a defect with a synthesized
// creation history row. The external key lands in the link column and
// drives the same rename-on-conflict rule as requirement imports.
func (s *ImportService) ExecuteDefects(target ImportTarget, rows []ImportRow) (ImportResult, error) {
	if blank(target.Project) || blank(target.Date) {
		return ImportResult{}, ValidationError{Msg: "project and date are required"}
	}
	keys, err := s.defectKeys(target.Project)
	if err != nil {
		return ImportResult{}, err
	}
	titles, err := s.defectTitles(target.Project)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if !validDefectRow(r) {
				result.Skipped++
				continue
			}
			base := cleanSummary(r.Summary)
			title := base
			if r.Key != "" && keys[r.Key] {
				title = disambiguate(base, titles)
			}
			renamed := title != base

			defect := model.Defect{
				Project:     target.Project,
				Title:       title,
				Status:      model.DefectStatusAssignedToDeveloper,
				Link:        r.Key,
				CreatedDate: target.Date,
			}
			if err := tx.Create(&defect).Error; err != nil {
				slog.Warn("import row failed", "project", target.Project, "key", r.Key, "error", err)
				result.Failed++
				continue
			}
			status := defect.Status
			history := model.DefectHistory{
				DefectID: defect.ID,
				Summary: model.JSONMap{
					"status": map[string]interface{}{"old": nil, "new": defect.Status},
					"title":  map[string]interface{}{"old": nil, "new": defect.Title},
					"area":   map[string]interface{}{"old": nil, "new": defect.Area},
				},
				Comment:   "Imported from spreadsheet.",
				NewStatus: &status,
			}
			if err := tx.Create(&history).Error; err != nil {
				slog.Warn("import history insert failed", "defect", defect.ID, "error", err)
			}

			result.Inserted++
			if renamed {
				result.Renamed++
			}
			if r.Key != "" {
				keys[r.Key] = true
			}
			titles[title] = true
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// disambiguate appends "(1)", "(2)", ... until the title is unused.
func disambiguate(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", base, i)
		if !used[candidate] {
			return candidate
		}
	}
}

func (s *ImportService) activityKeys(project string) (map[string]bool, error) {
	var keys []string
	if err := s.db.Model(&model.Activity{}).
		Where("project = ? AND key <> ''", project).
		Distinct().Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return toSet(keys), nil
}

func (s *ImportService) activityTitles(project string) (map[string]bool, error) {
	var titles []string
	if err := s.db.Model(&model.Activity{}).
		Where("project = ?", project).
		Distinct().Pluck("name", &titles).Error; err != nil {
		return nil, err
	}
	return toSet(titles), nil
}

func (s *ImportService) defectKeys(project string) (map[string]bool, error) {
	var keys []string
	if err := s.db.Model(&model.Defect{}).
		Where("project = ? AND link <> ''", project).
		Distinct().Pluck("link", &keys).Error; err != nil {
		return nil, err
	}
	return toSet(keys), nil
}

func (s *ImportService) defectTitles(project string) (map[string]bool, error) {
	var titles []string
	if err := s.db.Model(&model.Defect{}).
		Where("project = ?", project).
		Distinct().Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	return toSet(titles), nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
