package service

import (
	"campus_backend/internal/config"
	"campus_backend/internal/model"
	"campus_backend/internal/progress"
	"campus_backend/internal/repository"
	"campus_backend/internal/util"
	"campus_backend/pkg/logger"
	"campus_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const catalogCacheKey = "campus:catalog:records"

// CatalogService serves catalog snapshots. With a redis client the raw course rows are cached;
// every snapshot is still validated, so a bad cache entry can never bypass cycle detection.
type CatalogService struct {
	CourseRepo *repository.CourseRepository
	Redis      *redis.Client
	TTL        time.Duration
}

func NewCatalogService(courseRepo *repository.CourseRepository, rdb *redis.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{
		CourseRepo: courseRepo,
		Redis:      rdb,
		TTL:        cfg.Catalog.CacheTTL(),
	}
}

func (s *CatalogService) records(ctx context.Context) ([]progress.CourseRecord, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, catalogCacheKey).Bytes()
		switch {
		case err == nil:
			var records []progress.CourseRecord
			if jsonErr := json.Unmarshal(val, &records); jsonErr == nil {
				monitoring.CatalogCacheResults.WithLabelValues("hit").Inc()
				return records, nil
			}
			logger.Log.Warn("Discarding unreadable catalog cache entry")
		case errors.Is(err, redis.Nil):
			monitoring.CatalogCacheResults.WithLabelValues("miss").Inc()
		default:
			monitoring.CatalogCacheResults.WithLabelValues("error").Inc()
			logger.Log.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	records, err := s.CourseRepo.ListCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(records); err == nil {
			if err := s.Redis.Set(ctx, catalogCacheKey, raw, s.TTL).Err(); err != nil {
				logger.Log.Warn("Catalog cache write failed", zap.Error(err))
			}
		}
	}
	return records, nil
}

// Invalidate drops the cached catalog rows.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		logger.Log.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

// Snapshot loads and validates the current catalog.
func (s *CatalogService) Snapshot(ctx context.Context) (*progress.Catalog, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	cat, err := progress.LoadCatalog(records)
	if err != nil {
		monitoring.CatalogIntegrityFailures.Inc()
		logger.Log.Error("Catalog rejected", zap.Error(err))
		return nil, err
	}
	return cat, nil
}

// CourseView is a catalog course annotated for one student.
type CourseView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	SubjectArea   string   `json:"subjectArea"`
	Difficulty    string   `json:"difficulty"`
	Credits       int      `json:"credits"`
	Prerequisites []string `json:"prerequisites"`
	Locked        bool     `json:"locked"`
	Missing       []string `json:"missing,omitempty"`
}

// ListCourses filters the catalog by subject and difficulty ("" or "All" means no filter)
// and marks each course locked or open against completed.
func (s *CatalogService) ListCourses(ctx context.Context, subject, difficulty string, completed progress.CompletedSet) ([]CourseView, error) {
	cat, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if difficulty != "" && difficulty != progress.AllFilter {
		if _, ok := progress.ParseDifficulty(difficulty); !ok {
			return nil, util.ErrInvalidDifficulty
		}
	}

	bySubject := make(map[string]bool)
	for _, c := range cat.CoursesBySubject(subject) {
		bySubject[c.ID] = true
	}

	views := make([]CourseView, 0, len(bySubject))
	for _, c := range cat.CoursesByDifficulty(difficulty) {
		if !bySubject[c.ID] {
			continue
		}
		views = append(views, CourseView{
			ID:            c.ID,
			Title:         c.Title,
			SubjectArea:   c.SubjectArea,
			Difficulty:    c.Difficulty.String(),
			Credits:       c.Credits,
			Prerequisites: cat.PrerequisitesOf(c.ID),
			Locked:        progress.IsLocked(c, completed),
			Missing:       progress.MissingPrerequisites(c, completed),
		})
	}
	return views, nil
}

// Subjects returns the subject filter options, "All" first.
func (s *CatalogService) Subjects(ctx context.Context) ([]string, error) {
	cat, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return progress.FilterSubjects(cat.Courses()), nil
}

// Prerequisites lists the direct prerequisites of a course, or the full closure when transitive is set.
func (s *CatalogService) Prerequisites(ctx context.Context, courseID string, transitive bool) ([]string, error) {
	cat, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := cat.Course(courseID); !ok {
		return nil, util.ErrCourseNotFound
	}
	if transitive {
		return cat.TransitivePrerequisitesOf(courseID), nil
	}
	return cat.PrerequisitesOf(courseID), nil
}

type CourseRequest struct {
	ID            string   `json:"id" yaml:"id" binding:"max=32"`
	Title         string   `json:"title" yaml:"title" binding:"required"`
	SubjectArea   string   `json:"subjectArea" yaml:"subjectArea" binding:"required"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty" binding:"required"`
	Credits       int      `json:"credits" yaml:"credits" binding:"required,gt=0"`
	Description   string   `json:"description" yaml:"description"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

func (r CourseRequest) draft() (repository.CourseDraft, error) {
	if id := strings.TrimSpace(r.ID); id == "" || len(id) > model.CourseCodeMaxLen {
		return repository.CourseDraft{}, util.ErrInvalidCourseID
	}
	d, ok := progress.ParseDifficulty(r.Difficulty)
	if !ok {
		return repository.CourseDraft{}, util.ErrInvalidDifficulty
	}

	prereqs := make([]string, 0, len(r.Prerequisites))
	for _, p := range r.Prerequisites {
		if p = strings.TrimSpace(p); p != "" {
			prereqs = append(prereqs, p)
		}
	}

	return repository.CourseDraft{
		Course: model.Course{
			Code:        strings.TrimSpace(r.ID),
			Title:       strings.TrimSpace(r.Title),
			SubjectArea: strings.TrimSpace(r.SubjectArea),
			Difficulty:  d.String(),
			Credits:     r.Credits,
			Description: r.Description,
		},
		Prerequisites: prereqs,
	}, nil
}

func validateCatalog(records []progress.CourseRecord) error {
	_, err := progress.LoadCatalog(records)
	return err
}

// CreateCourse adds a course whose code is not taken yet.
func (s *CatalogService) CreateCourse(ctx context.Context, req CourseRequest) (*model.Course, error) {
	d, err := req.draft()
	if err != nil {
		return nil, err
	}
	err = s.CourseRepo.Create(ctx, &d.Course, d.Prerequisites, validateCatalog)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, util.ErrCourseExists
	}
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)

	logger.Log.Info("Course created", zap.String("course", d.Course.Code), zap.Strings("prerequisites", d.Prerequisites))
	return s.CourseRepo.FindByCode(ctx, d.Course.Code)
}

// SaveCourse creates or updates a course. The write is rejected when the resulting catalog is invalid.
func (s *CatalogService) SaveCourse(ctx context.Context, req CourseRequest) (*model.Course, error) {
	d, err := req.draft()
	if err != nil {
		return nil, err
	}
	if err := s.CourseRepo.Save(ctx, &d.Course, d.Prerequisites, validateCatalog); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)

	logger.Log.Info("Course saved", zap.String("course", d.Course.Code), zap.Strings("prerequisites", d.Prerequisites))
	return s.CourseRepo.FindByCode(ctx, d.Course.Code)
}

func (s *CatalogService) ReplacePrerequisites(ctx context.Context, courseID string, prerequisites []string) error {
	err := s.CourseRepo.ReplacePrerequisites(ctx, courseID, prerequisites, validateCatalog)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *CatalogService) DeleteCourse(ctx context.Context, courseID string) error {
	err := s.CourseRepo.Delete(ctx, courseID, validateCatalog)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}

// Import upserts a batch of courses atomically; nothing is written if the combined catalog is invalid.
func (s *CatalogService) Import(ctx context.Context, reqs []CourseRequest) error {
	drafts := make([]repository.CourseDraft, 0, len(reqs))
	for _, r := range reqs {
		d, err := r.draft()
		if err != nil {
			return err
		}
		drafts = append(drafts, d)
	}
	if err := s.CourseRepo.SaveAll(ctx, drafts, validateCatalog); err != nil {
		return err
	}
	s.Invalidate(ctx)
	return nil
}
