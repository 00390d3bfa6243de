package api

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/ports"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SignificanceThreshold is the minimum |r| for a correlation to be called
// out in the narrative. Weaker pairs stay in the raw report but are not
// worth a sentence.
const SignificanceThreshold = 0.3

// InsightHandler renders a stored report as a readable narrative
type InsightHandler struct {
	files   ports.FileRepository
	reports ports.ReportRepository
	logger  *internal.Logger
}

func NewInsightHandler(files ports.FileRepository, reports ports.ReportRepository) *InsightHandler {
	return &InsightHandler{
		files:   files,
		reports: reports,
		logger:  internal.DefaultLogger,
	}
}

// HandleNarrative returns the report summarized as markdown, plus the same
// text rendered to HTML. Pass ?format=html to receive the HTML directly.
// Like the analyse route, the path carries user and file IDs; the user must
// match the authenticated session.
func (h *InsightHandler) HandleNarrative(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	pathUserID, err := core.ParseUserID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if pathUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "File belongs to another user"})
		return
	}

	fileID, err := core.ParseFileID(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	ctx := c.Request.Context()
	record, err := h.files.GetByID(ctx, fileID)
	if err != nil || record.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	report, err := h.reports.GetByFileID(ctx, fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	md := BuildNarrative(record.OriginalFilename, report)
	md += fmt.Sprintf("_Generated %s_\n", core.Now())
	rendered := renderMarkdown(md)

	if c.Query("format") == "html" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, rendered)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markdown": md,
		"html":     rendered,
	})
}

// BuildNarrative writes a markdown summary of a report: dataset shape,
// notable correlations, group performers and trend direction.
func BuildNarrative(filename string, report *dataset.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis of %s\n\n", filename)

	numeric, categorical, datetime := 0, 0, 0
	for _, profile := range report.Columns {
		switch profile.Kind {
		case dataset.KindNumeric:
			numeric++
		case dataset.KindDatetime:
			datetime++
		default:
			categorical++
		}
	}
	fmt.Fprintf(&b, "The dataset has %d columns: %d numeric, %d categorical or identifier, %d date.\n\n",
		len(report.Columns), numeric, categorical, datetime)

	if section := correlationSection(report); section != "" {
		b.WriteString(section)
	}
	if section := groupingSection(report.Grouping); section != "" {
		b.WriteString(section)
	}
	if section := trendSection(report); section != "" {
		b.WriteString(section)
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(&b, "> Note: %s\n\n", warning)
	}

	return b.String()
}

func correlationSection(report *dataset.Report) string {
	type pair struct {
		key string
		r   float64
	}
	var significant []pair
	for key, r := range report.Correlations {
		if math.Abs(r) >= SignificanceThreshold {
			significant = append(significant, pair{key, r})
		}
	}
	if len(significant) == 0 {
		return ""
	}
	sort.Slice(significant, func(i, j int) bool {
		if math.Abs(significant[i].r) != math.Abs(significant[j].r) {
			return math.Abs(significant[i].r) > math.Abs(significant[j].r)
		}
		return significant[i].key < significant[j].key
	})

	var b strings.Builder
	b.WriteString("## Relationships\n\n")
	for _, p := range significant {
		a, c := dataset.SplitPairKey(p.key)
		direction := "positively"
		if p.r < 0 {
			direction = "negatively"
		}
		strength := "moderately"
		if math.Abs(p.r) >= 0.7 {
			strength = "strongly"
		}
		fmt.Fprintf(&b, "- **%s** and **%s** are %s %s correlated (r = %.2f)\n", a, c, strength, direction, p.r)
	}
	b.WriteString("\n")
	return b.String()
}

func groupingSection(grouping *dataset.Grouping) string {
	if grouping == nil || len(grouping.Totals) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## %s by %s\n\n", grouping.Measure, grouping.Key)
	if len(grouping.HighPerformers) > 0 {
		top := grouping.HighPerformers[0]
		fmt.Fprintf(&b, "Top performer: **%s** with a total of %.2f.\n", top.Key, top.Total)
	}
	if len(grouping.LowPerformers) > 0 && len(grouping.Totals) > 1 {
		bottom := grouping.LowPerformers[0]
		fmt.Fprintf(&b, "Lowest performer: **%s** with a total of %.2f.\n", bottom.Key, bottom.Total)
	}
	b.WriteString("\n")
	return b.String()
}

func trendSection(report *dataset.Report) string {
	if len(report.Trends) == 0 {
		return ""
	}
	names := make([]string, 0, len(report.Trends))
	for name := range report.Trends {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("## Trends\n\n")
	for _, name := range names {
		t := report.Trends[name]
		direction := "flat"
		if t.Slope > 0 {
			direction = "upward"
		} else if t.Slope < 0 {
			direction = "downward"
		}
		fmt.Fprintf(&b, "- Over **%s** the series trends %s (slope %.2f per bucket, R² %.2f)\n",
			name, direction, t.Slope, t.R2)
	}
	b.WriteString("\n")
	return b.String()
}

func renderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
