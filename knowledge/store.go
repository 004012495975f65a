package knowledge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrCourseNotFound is returned when a course name cannot be resolved.
var ErrCourseNotFound = errors.New("course not found")

// Lesson is a numbered lesson of a course.
type Lesson struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// Course is a catalogue entry. Title is the unique key.
type Course struct {
	Title      string   `json:"title"`
	Link       string   `json:"link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// Chunk is a searchable piece of course content. LessonNumber is zero when
// the content is not tied to a lesson.
type Chunk struct {
	ID           string `json:"id"`
	CourseTitle  string `json:"course_title"`
	LessonNumber int    `json:"lesson_number,omitempty"`
	Content      string `json:"content"`
}

// Hit is a search result.
type Hit struct {
	Chunk
	Score float64 `json:"score"`
}

// SearchOptions narrow a search.
type SearchOptions struct {
	// CourseName is resolved to a catalogue title; partial names are accepted.
	CourseName string
	// LessonNumber restricts hits to one lesson when > 0.
	LessonNumber int
	// Limit overrides the store's MaxResults when > 0.
	Limit int
}

// Options configures a Store.
type Options struct {
	MaxResults int
}

// Store holds the course catalogue and content chunks.
type Store struct {
	mu      sync.RWMutex
	courses map[string]Course // title -> course
	order   []string
	chunks  []Chunk
	opts    Options
}

// NewStore creates an empty store.
func NewStore(optFns ...func(o *Options)) *Store {
	opts := Options{MaxResults: 5}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 5
	}
	return &Store{courses: make(map[string]Course), opts: opts}
}

// AddCourse registers course in the catalogue. Titles must be unique.
func (s *Store) AddCourse(course Course) error {
	if strings.TrimSpace(course.Title) == "" {
		return errors.New("knowledge: course title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.courses[course.Title]; exists {
		return fmt.Errorf("knowledge: course %q already exists", course.Title)
	}
	s.courses[course.Title] = cloneCourse(course)
	s.order = append(s.order, course.Title)
	return nil
}

// AddContent appends a content chunk for an existing course and returns its id.
func (s *Store) AddContent(courseTitle string, lessonNumber int, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.courses[courseTitle]; !exists {
		return "", fmt.Errorf("%w: %q", ErrCourseNotFound, courseTitle)
	}
	id := fmt.Sprintf("%s_%d", strings.ReplaceAll(courseTitle, " ", "_"), len(s.chunks))
	s.chunks = append(s.chunks, Chunk{ID: id, CourseTitle: courseTitle, LessonNumber: lessonNumber, Content: content})
	return id, nil
}

// Titles returns every course title in insertion order.
func (s *Store) Titles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Course returns a copy of the course with the exact title.
func (s *Store) Course(title string) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[title]
	if !ok {
		return Course{}, false
	}
	return cloneCourse(c), true
}

// LessonLink returns the link of a lesson or "" when unknown.
func (s *Store) LessonLink(courseTitle string, lessonNumber int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.courses[courseTitle].Lessons {
		if l.Number == lessonNumber {
			return l.Link
		}
	}
	return ""
}

// ResolveCourse maps a possibly partial course name onto a catalogue title.
// Exact (case-insensitive) matches win, then substring matches, then the
// title sharing the most words with name.
func (s *Store) ResolveCourse(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolveLocked(name)
}

func (s *Store) resolveLocked(name string) (string, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", fmt.Errorf("%w: empty name", ErrCourseNotFound)
	}

	for _, title := range s.order {
		if strings.ToLower(title) == needle {
			return title, nil
		}
	}
	for _, title := range s.order {
		lt := strings.ToLower(title)
		if strings.Contains(lt, needle) || strings.Contains(needle, lt) {
			return title, nil
		}
	}

	best, bestScore := "", 0.0
	terms := tokenize(needle)
	for _, title := range s.order {
		if score := overlap(terms, strings.ToLower(title)); score > bestScore {
			best, bestScore = title, score
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %q", ErrCourseNotFound, name)
	}
	return best, nil
}

// Search returns the chunks best matching query, ordered by score. An empty
// query matches every chunk allowed by the filters.
func (s *Store) Search(ctx context.Context, query string, opts SearchOptions) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	course := ""
	if opts.CourseName != "" {
		title, err := s.resolveLocked(opts.CourseName)
		if err != nil {
			return nil, err
		}
		course = title
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.opts.MaxResults
	}

	terms := tokenize(strings.ToLower(query))
	hits := make([]Hit, 0, limit)
	for _, c := range s.chunks {
		if course != "" && c.CourseTitle != course {
			continue
		}
		if opts.LessonNumber > 0 && c.LessonNumber != opts.LessonNumber {
			continue
		}
		score := 1.0
		if len(terms) > 0 {
			score = overlap(terms, strings.ToLower(c.Content))
		}
		if score == 0 {
			continue
		}
		hits = append(hits, Hit{Chunk: c, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// tokenize splits text into lower-case terms, dropping punctuation and
// very short words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// overlap is the fraction of terms contained in text.
func overlap(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return float64(n) / float64(len(terms))
}

func cloneCourse(c Course) Course {
	out := c
	out.Lessons = make([]Lesson, len(c.Lessons))
	copy(out.Lessons, c.Lessons)
	return out
}
