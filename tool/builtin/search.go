package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/knowledge"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
)

// SearchToolName is the name the model uses to search course content.
const SearchToolName = "search_course_content"

// SearchArgs are the arguments of the search tool.
type SearchArgs struct {
	Query        string `json:"query" jsonschema_description:"What to search for in the course content"`
	CourseName   string `json:"course_name,omitempty" jsonschema_description:"Course title (partial matches work, e.g. 'MCP', 'Introduction')"`
	LessonNumber int    `json:"lesson_number,omitempty" jsonschema_description:"Specific lesson number to search within (e.g. 1, 2, 3)"`
}

// Source identifies where a search result came from, for display next to the answer.
type Source struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// SearchTool searches course content and remembers the sources of its most
// recent successful call.
type SearchTool struct {
	*tool.FunctionTool
	store *knowledge.Store

	mu          sync.Mutex
	lastSources []Source
}

// NewSearchTool creates a search tool over store.
func NewSearchTool(store *knowledge.Store) *SearchTool {
	t := &SearchTool{store: store}
	t.FunctionTool = tool.NewTypedTool(SearchToolName,
		"Search course materials with smart course name matching and lesson filtering",
		t.search,
	)
	return t
}

func (t *SearchTool) search(ctx context.Context, in SearchArgs) (any, error) {
	hits, err := t.store.Search(ctx, in.Query, knowledge.SearchOptions{
		CourseName:   in.CourseName,
		LessonNumber: in.LessonNumber,
	})
	if errors.Is(err, knowledge.ErrCourseNotFound) {
		return fmt.Sprintf("No course found matching '%s'", in.CourseName), nil
	}
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return emptyMessage(in), nil
	}

	blocks := make([]string, 0, len(hits))
	sources := make([]Source, 0, len(hits))
	for _, h := range hits {
		header := h.CourseTitle
		link := ""
		if h.LessonNumber > 0 {
			header = fmt.Sprintf("%s - Lesson %d", h.CourseTitle, h.LessonNumber)
			link = t.store.LessonLink(h.CourseTitle, h.LessonNumber)
		}
		blocks = append(blocks, fmt.Sprintf("[%s]\n%s", header, h.Content))
		sources = append(sources, Source{Text: header, Link: link})
	}

	t.mu.Lock()
	t.lastSources = append(t.lastSources, sources...)
	t.mu.Unlock()

	return strings.Join(blocks, "\n\n"), nil
}

func emptyMessage(in SearchArgs) string {
	msg := "No relevant content found"
	if in.CourseName != "" {
		msg += fmt.Sprintf(" in course '%s'", in.CourseName)
	}
	if in.LessonNumber > 0 {
		msg += fmt.Sprintf(" in lesson %d", in.LessonNumber)
	}
	return msg + "."
}

// LastSources returns the sources of every search with results since the
// last ResetSources, including searches that ran concurrently.
func (t *SearchTool) LastSources() []Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Source, len(t.lastSources))
	copy(out, t.lastSources)
	return out
}

// ResetSources forgets the tracked sources.
func (t *SearchTool) ResetSources() {
	t.mu.Lock()
	t.lastSources = nil
	t.mu.Unlock()
}
