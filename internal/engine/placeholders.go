package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// Reserved placeholder names resolved by the compiler itself. A statistic id
// colliding with any of these is rejected at save time; render time never
// silently overwrites.
var reservedPlaceholders = map[string]struct{}{
	"recordCount":        {},
	"totalRecordCount":   {},
	"dataTable":          {},
	"downloadButton":     {},
	"downloadUrl":        {},
	"moreRecordsMessage": {},
	"statisticsHtml":     {},
	"organizationName":   {},
	"notificationName":   {},
	"dateRangeStart":     {},
	"dateRangeEnd":       {},
	"dateRangeStartTime": {},
	"dateRangeEndTime":   {},
}

// Theme tokens are also reserved; they resolve to the merged theme values.
var themePlaceholders = map[string]func(models.Theme) string{
	"primaryColor":      func(t models.Theme) string { return t.PrimaryColor },
	"secondaryColor":    func(t models.Theme) string { return t.SecondaryColor },
	"accentColor":       func(t models.Theme) string { return t.AccentColor },
	"textColor":         func(t models.Theme) string { return t.TextColor },
	"mutedTextColor":    func(t models.Theme) string { return t.MutedTextColor },
	"backgroundColor":   func(t models.Theme) string { return t.BackgroundColor },
	"borderColor":       func(t models.Theme) string { return t.BorderColor },
	"fontFamily":        func(t models.Theme) string { return t.FontFamily },
	"fontSize":          func(t models.Theme) string { return t.FontSize },
	"headerFontSize":    func(t models.Theme) string { return t.HeaderFontSize },
	"subHeaderFontSize": func(t models.Theme) string { return t.SubHeaderFontSize },
	"borderRadius":      func(t models.Theme) string { return t.BorderRadius },
}

// ReservedPlaceholder reports whether a name belongs to the fixed
// vocabulary (reserved context keys or theme tokens).
func ReservedPlaceholder(name string) bool {
	if _, ok := reservedPlaceholders[name]; ok {
		return true
	}
	_, ok := themePlaceholders[name]
	return ok
}

// StatisticsCardsKey derives the placeholder key for a statistics element.
// Display options participate so two statistics elements with different
// settings on one template resolve independently.
func StatisticsCardsKey(el models.VisualElement) string {
	return fmt.Sprintf("statisticsHtml_%s_%s_%s_%s_%s",
		el.ID, el.ValueSize, el.ValueAlignment, el.ContainerWidth, el.ContainerAlignment)
}

// GraphKey derives the placeholder key for a graph element.
func GraphKey(el models.VisualElement) string {
	return "graph_" + el.ID
}

var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z][A-Za-z0-9_%]*)\}\}`)

// maxSubstitutionPasses caps the repeated-replacement loop; context values
// may themselves contain tokens, but a chain deeper than this means a cycle.
const maxSubstitutionPasses = 10

// ApplyPlaceholders replaces every {{key}} token that has a value in the
// context, repeatedly, until a pass makes no replacement. Keys are applied
// in sorted order so compilation of identical input is byte-identical.
// Unmatched tokens are left in place; validation catches them at save time.
func ApplyPlaceholders(html string, context map[string]string) string {
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for pass := 0; pass < maxSubstitutionPasses; pass++ {
		replaced := false
		for _, key := range keys {
			token := "{{" + key + "}}"
			if strings.Contains(html, token) {
				html = strings.ReplaceAll(html, token, context[key])
				replaced = true
			}
		}
		if !replaced {
			break
		}
	}
	return html
}

// ValidationIssue is one configuration problem found at save time, tied to
// the offending field so the client can surface it inline.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var statisticIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateTemplate checks a template configuration for the problems that
// must be rejected before save: duplicate or reserved statistic ids,
// duplicate element ids, malformed filters, unknown element types and
// icons, and {{tokens}} in the stored html that nothing resolves.
func ValidateTemplate(tmpl *models.Template) []ValidationIssue {
	var issues []ValidationIssue

	statIDs := map[string]struct{}{}
	for i, stat := range tmpl.Statistics {
		field := fmt.Sprintf("statistics[%d].id", i)
		switch {
		case stat.ID == "":
			issues = append(issues, ValidationIssue{Field: field, Message: "statistic id is required"})
		case !statisticIDPattern.MatchString(stat.ID):
			issues = append(issues, ValidationIssue{Field: field,
				Message: fmt.Sprintf("statistic id %q must start with a letter and use only letters, digits, and underscores", stat.ID)})
		case ReservedPlaceholder(stat.ID):
			issues = append(issues, ValidationIssue{Field: field,
				Message: fmt.Sprintf("statistic id %q collides with a reserved placeholder name", stat.ID)})
		default:
			if _, dup := statIDs[stat.ID]; dup {
				issues = append(issues, ValidationIssue{Field: field,
					Message: fmt.Sprintf("statistic id %q is used more than once", stat.ID)})
			}
			statIDs[stat.ID] = struct{}{}
		}

		if !validOperation(stat.Operation) {
			issues = append(issues, ValidationIssue{
				Field:   fmt.Sprintf("statistics[%d].operation", i),
				Message: fmt.Sprintf("unknown operation %q", stat.Operation),
			})
		}
		if issue := validateFilter(stat.Filter, fmt.Sprintf("statistics[%d].filter", i)); issue != nil {
			issues = append(issues, *issue)
		}
	}

	elementIDs := map[string]struct{}{}
	for i, el := range tmpl.VisualElements {
		if el.ID == "" {
			issues = append(issues, ValidationIssue{
				Field:   fmt.Sprintf("visualElements[%d].id", i),
				Message: "element id is required",
			})
		} else if _, dup := elementIDs[el.ID]; dup {
			issues = append(issues, ValidationIssue{
				Field:   fmt.Sprintf("visualElements[%d].id", i),
				Message: fmt.Sprintf("element id %q is used more than once", el.ID),
			})
		}
		elementIDs[el.ID] = struct{}{}

		if !knownElementType(el.Type) {
			issues = append(issues, ValidationIssue{
				Field:   fmt.Sprintf("visualElements[%d].type", i),
				Message: fmt.Sprintf("unknown element type %q (it will be skipped when rendering)", el.Type),
			})
		}

		switch el.Type {
		case models.ElementGraph:
			if el.LabelField == "" {
				issues = append(issues, ValidationIssue{
					Field:   fmt.Sprintf("visualElements[%d].labelField", i),
					Message: "graph elements require a label field",
				})
			}
		case models.ElementStatistics:
			for _, id := range el.StatisticIDs {
				if _, ok := statIDs[id]; !ok {
					issues = append(issues, ValidationIssue{
						Field:   fmt.Sprintf("visualElements[%d].statisticIds", i),
						Message: fmt.Sprintf("references unknown statistic %q", id),
					})
				}
			}
		case models.ElementIcon:
			if el.Icon != "" && !KnownIcon(el.Icon) {
				issues = append(issues, ValidationIssue{
					Field:   fmt.Sprintf("visualElements[%d].icon", i),
					Message: fmt.Sprintf("unknown icon %q", el.Icon),
				})
			}
		}
	}

	issues = append(issues, validateHTMLTokens(tmpl, statIDs)...)
	return issues
}

// validateHTMLTokens checks that every {{token}} in the stored html has a
// resolver: reserved vocabulary, theme token, statistic id, or a derived
// key of a present element.
func validateHTMLTokens(tmpl *models.Template, statIDs map[string]struct{}) []ValidationIssue {
	if tmpl.HTML == "" {
		return nil
	}

	derived := map[string]struct{}{}
	for _, el := range tmpl.VisualElements {
		switch el.Type {
		case models.ElementStatistics:
			derived[StatisticsCardsKey(el)] = struct{}{}
		case models.ElementGraph:
			derived[GraphKey(el)] = struct{}{}
		}
	}

	var issues []ValidationIssue
	seen := map[string]struct{}{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(tmpl.HTML, -1) {
		name := match[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if ReservedPlaceholder(name) {
			continue
		}
		if _, ok := statIDs[name]; ok {
			continue
		}
		if _, ok := derived[name]; ok {
			continue
		}
		issues = append(issues, ValidationIssue{
			Field:   "html",
			Message: fmt.Sprintf("placeholder {{%s}} has no resolver", name),
		})
	}
	return issues
}

func validateFilter(filter *models.StatisticFilter, field string) *ValidationIssue {
	if filter == nil {
		return nil
	}
	if expr := filter.Expression; expr != "" {
		if strings.Count(expr, "'")%2 != 0 {
			return &ValidationIssue{Field: field, Message: "advanced filter expression has unbalanced quotes"}
		}
		return nil
	}
	for i, rule := range filter.Rules {
		if strings.TrimSpace(rule.Field) == "" {
			return &ValidationIssue{
				Field:   fmt.Sprintf("%s.rules[%d]", field, i),
				Message: "filter rule is missing a field",
			}
		}
	}
	return nil
}

func validOperation(op string) bool {
	switch op {
	case models.OpSum, models.OpMean, models.OpMin, models.OpMax, models.OpCount,
		models.OpMedian, models.OpDistinct, models.OpFirst, models.OpLast:
		return true
	default:
		return false
	}
}

func knownElementType(t string) bool {
	switch t {
	case models.ElementHeader, models.ElementLogo, models.ElementText,
		models.ElementStatistics, models.ElementRecordCount, models.ElementDateRange,
		models.ElementDataTable, models.ElementDownloadButton, models.ElementMoreRecords,
		models.ElementDivider, models.ElementSpacer, models.ElementIcon,
		models.ElementRow, models.ElementFooter, models.ElementGraph:
		return true
	default:
		return false
	}
}
