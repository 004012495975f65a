package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/knowledge"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
)

// OutlineToolName is the name the model uses to request a course outline.
const OutlineToolName = "get_course_outline"

// OutlineArgs are the arguments of the outline tool.
type OutlineArgs struct {
	CourseTitle string `json:"course_title" jsonschema_description:"Course title or part of it (e.g. 'MCP')"`
}

// NewOutlineTool creates a tool returning a course's title, link and lesson list.
func NewOutlineTool(store *knowledge.Store) *tool.FunctionTool {
	return tool.NewTypedTool(OutlineToolName,
		"Get the complete outline of a course: title, link and every lesson with its number",
		func(_ context.Context, in OutlineArgs) (any, error) {
			title, err := store.ResolveCourse(in.CourseTitle)
			if errors.Is(err, knowledge.ErrCourseNotFound) {
				return fmt.Sprintf("No course found matching '%s'", in.CourseTitle), nil
			}
			if err != nil {
				return nil, err
			}
			course, _ := store.Course(title)
			return FormatOutline(course), nil
		},
	)
}

// FormatOutline renders a course outline as plain text.
func FormatOutline(c knowledge.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course Title: %s\n", c.Title)
	if c.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", c.Link)
	}
	if c.Instructor != "" {
		fmt.Fprintf(&b, "Course Instructor: %s\n", c.Instructor)
	}
	fmt.Fprintf(&b, "Total Lessons: %d\n", len(c.Lessons))
	b.WriteString("Lessons:")
	for _, l := range c.Lessons {
		fmt.Fprintf(&b, "\n- Lesson %d: %s", l.Number, l.Title)
	}
	return b.String()
}
