// Package progress holds the prerequisite gating and grade aggregation engine.
// Everything here works on snapshots the caller has already loaded; nothing does I/O.
package progress

import (
	"fmt"
	"sort"
	"strings"
)

// AllFilter is the synthetic filter value that disables subject/difficulty filtering.
const AllFilter = "All"

type Difficulty int

const (
	DifficultyUnknown Difficulty = iota
	Introductory
	Intermediate
	Advanced
)

var difficultyNames = map[Difficulty]string{
	Introductory: "Introductory",
	Intermediate: "Intermediate",
	Advanced:     "Advanced",
}

func (d Difficulty) String() string {
	if name, ok := difficultyNames[d]; ok {
		return name
	}
	return "Unknown"
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ParseDifficulty accepts the tier names case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d, name := range difficultyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return d, true
		}
	}
	return DifficultyUnknown, false
}

// CourseRecord is the row shape handed over by the catalog source.
type CourseRecord struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	SubjectArea   string   `json:"subjectArea" yaml:"subjectArea"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	Credits       int      `json:"credits" yaml:"credits"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

type Course struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	SubjectArea   string     `json:"subjectArea"`
	Difficulty    Difficulty `json:"difficulty"`
	Credits       int        `json:"credits"`
	Prerequisites []string   `json:"prerequisites"`

	// unresolved lists prerequisites that are not in the catalog the course was loaded with.
	unresolved map[string]struct{}
}

func (c Course) clone() Course {
	out := c
	out.Prerequisites = append([]string(nil), c.Prerequisites...)
	return out
}

// Catalog is an immutable, validated course set. Safe for concurrent readers.
type Catalog struct {
	courses  []Course
	index    map[string]int
	dangling map[string][]string
}

// LoadCatalog validates records and builds a Catalog. It fails with *CatalogIntegrityError on
// duplicate or blank IDs, non-positive credits, unknown difficulty tiers and prerequisite cycles.
// Prerequisites naming courses outside the catalog are kept and reported by DanglingPrerequisites.
func LoadCatalog(records []CourseRecord) (*Catalog, error) {
	cat := &Catalog{
		courses:  make([]Course, 0, len(records)),
		index:    make(map[string]int, len(records)),
		dangling: make(map[string][]string),
	}

	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, &CatalogIntegrityError{Reason: fmt.Sprintf("course %q has a blank id", r.Title)}
		}
		if _, dup := cat.index[id]; dup {
			return nil, &CatalogIntegrityError{CourseID: id, Reason: "duplicate course id"}
		}
		if r.Credits <= 0 {
			return nil, &CatalogIntegrityError{CourseID: id, Reason: fmt.Sprintf("credits must be positive, got %d", r.Credits)}
		}
		diff, ok := ParseDifficulty(r.Difficulty)
		if !ok {
			return nil, &CatalogIntegrityError{CourseID: id, Reason: fmt.Sprintf("unknown difficulty %q", r.Difficulty)}
		}

		seen := make(map[string]struct{}, len(r.Prerequisites))
		prereqs := make([]string, 0, len(r.Prerequisites))
		for _, p := range r.Prerequisites {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			prereqs = append(prereqs, p)
		}

		cat.index[id] = len(cat.courses)
		cat.courses = append(cat.courses, Course{
			ID:            id,
			Title:         r.Title,
			SubjectArea:   r.SubjectArea,
			Difficulty:    diff,
			Credits:       r.Credits,
			Prerequisites: prereqs,
		})
	}

	for i := range cat.courses {
		c := &cat.courses[i]
		for _, p := range c.Prerequisites {
			if _, ok := cat.index[p]; ok {
				continue
			}
			if c.unresolved == nil {
				c.unresolved = make(map[string]struct{})
			}
			c.unresolved[p] = struct{}{}
			cat.dangling[c.ID] = append(cat.dangling[c.ID], p)
		}
	}

	if err := cat.detectCycles(); err != nil {
		return nil, err
	}
	return cat, nil
}

// detectCycles walks the prerequisite graph depth-first in catalog order, so the
// reported cycle is deterministic for a given input.
func (c *Catalog) detectCycles() error {
	visited := make(map[string]bool, len(c.courses))
	recStack := make(map[string]bool)
	path := make([]string, 0)

	var dfs func(id string) error
	dfs = func(id string) error {
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range c.courses[c.index[id]].Prerequisites {
			if _, known := c.index[dep]; !known {
				continue
			}
			if !visited[dep] {
				if err := dfs(dep); err != nil {
					return err
				}
			} else if recStack[dep] {
				start := 0
				for i, n := range path {
					if n == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string(nil), path[start:]...), dep)
				return newCycleError(cycle)
			}
		}

		path = path[:len(path)-1]
		recStack[id] = false
		return nil
	}

	for _, course := range c.courses {
		if !visited[course.ID] {
			if err := dfs(course.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) Len() int {
	return len(c.courses)
}

func (c *Catalog) Course(id string) (Course, bool) {
	i, ok := c.index[id]
	if !ok {
		return Course{}, false
	}
	return c.courses[i].clone(), true
}

// Courses returns every course in load order.
func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	for i, course := range c.courses {
		out[i] = course.clone()
	}
	return out
}

// CoursesBySubject filters on an exact subject match. AllFilter or "" returns the full set.
func (c *Catalog) CoursesBySubject(subject string) []Course {
	if subject == "" || subject == AllFilter {
		return c.Courses()
	}
	var out []Course
	for _, course := range c.courses {
		if course.SubjectArea == subject {
			out = append(out, course.clone())
		}
	}
	return out
}

// CoursesByDifficulty filters on an exact tier. AllFilter or "" returns the full set;
// an unrecognised tier matches nothing.
func (c *Catalog) CoursesByDifficulty(tier string) []Course {
	if tier == "" || tier == AllFilter {
		return c.Courses()
	}
	d, ok := ParseDifficulty(tier)
	if !ok {
		return nil
	}
	var out []Course
	for _, course := range c.courses {
		if course.Difficulty == d {
			out = append(out, course.clone())
		}
	}
	return out
}

// PrerequisitesOf returns the declared direct prerequisites, or an empty set for an
// unknown course or one that declares none.
func (c *Catalog) PrerequisitesOf(courseID string) []string {
	i, ok := c.index[courseID]
	if !ok {
		return []string{}
	}
	return append([]string{}, c.courses[i].Prerequisites...)
}

// TransitivePrerequisitesOf returns every course reachable through prerequisite edges,
// sorted. Dangling IDs are included since they are still requirements. Gating does not use this.
func (c *Catalog) TransitivePrerequisitesOf(courseID string) []string {
	seen := make(map[string]struct{})
	stack := c.PrerequisitesOf(courseID)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		stack = append(stack, c.PrerequisitesOf(id)...)
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DanglingPrerequisites maps course IDs to prerequisite IDs missing from the catalog.
func (c *Catalog) DanglingPrerequisites() map[string][]string {
	out := make(map[string][]string, len(c.dangling))
	for id, missing := range c.dangling {
		out[id] = append([]string(nil), missing...)
	}
	return out
}

// DanglingWarnings renders DanglingPrerequisites as warnings, in catalog order.
func (c *Catalog) DanglingWarnings() []DataIntegrityWarning {
	var out []DataIntegrityWarning
	for _, course := range c.courses {
		for _, p := range c.dangling[course.ID] {
			out = append(out, DataIntegrityWarning{
				Kind:     WarnDanglingPrereq,
				CourseID: course.ID,
				Message:  fmt.Sprintf("prerequisite %q is not in the catalog; course stays locked", p),
			})
		}
	}
	return out
}
