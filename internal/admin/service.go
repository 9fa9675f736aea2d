package admin

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/caseforge/casechat/internal/common"
	"github.com/caseforge/casechat/internal/transcript"
)

// Cache is the read-through cache over the full transcript listing. It is
// only ever invalidated explicitly (refresh action, post-delete).
type Cache interface {
	GetTranscriptCache(ctx context.Context) ([]transcript.Turn, bool, error)
	SetTranscriptCache(ctx context.Context, turns []transcript.Turn) error
	InvalidateTranscriptCache(ctx context.Context) error
}

// Identity is one grouped entry in the admin overview.
type Identity struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Turns     int       `json:"turns"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

type Service struct {
	store     *transcript.Store
	cache     Cache
	db        *gorm.DB
	exportDir string
}

func NewService(store *transcript.Store, cache Cache, db *gorm.DB, exportDir string) *Service {
	return &Service{store: store, cache: cache, db: db, exportDir: exportDir}
}

// loadAll serves the full listing through the cache. Cache errors degrade
// to a direct store read rather than failing the admin view.
func (s *Service) loadAll(ctx context.Context) ([]transcript.Turn, error) {
	cached, hit, err := s.cache.GetTranscriptCache(ctx)
	if err != nil {
		log.Printf("[admin] transcript cache read failed: %v", err)
	} else if hit {
		return cached, nil
	}

	turns, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetTranscriptCache(ctx, turns); err != nil {
		log.Printf("[admin] transcript cache write failed: %v", err)
	}
	return turns, nil
}

// withEmail drops rows whose email is empty; identities that never submit
// an email stay invisible to the admin view.
func withEmail(turns []transcript.Turn) []transcript.Turn {
	out := make([]transcript.Turn, 0, len(turns))
	for _, t := range turns {
		if t.Email == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Overview groups the transcript by exact email and summarizes each
// identity, sorted by email.
func (s *Service) Overview(ctx context.Context) ([]Identity, error) {
	turns, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string]*Identity)
	for _, t := range withEmail(turns) {
		id, ok := byEmail[t.Email]
		if !ok {
			id = &Identity{Email: t.Email, FirstSeen: t.Timestamp, LastSeen: t.Timestamp}
			byEmail[t.Email] = id
		}
		id.Turns++
		if t.Name != "" {
			id.Name = t.Name
		}
		if t.Timestamp.Before(id.FirstSeen) {
			id.FirstSeen = t.Timestamp
		}
		if t.Timestamp.After(id.LastSeen) {
			id.LastSeen = t.Timestamp
		}
	}

	out := make([]Identity, 0, len(byEmail))
	for _, id := range byEmail {
		out = append(out, *id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Transcript returns one identity's ordered turns, read fresh from the
// store so a just-deleted identity reads back empty.
func (s *Service) Transcript(ctx context.Context, email string) ([]transcript.Turn, error) {
	return s.store.ListByEmail(ctx, email)
}

// Refresh drops the cached listing; the next Overview reads the store.
func (s *Service) Refresh(ctx context.Context) error {
	return s.cache.InvalidateTranscriptCache(ctx)
}

// Delete erases every row for the email and invalidates the cache.
func (s *Service) Delete(ctx context.Context, email string) (int64, error) {
	n, err := s.store.DeleteByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if err := s.cache.InvalidateTranscriptCache(ctx); err != nil {
		log.Printf("[admin] cache invalidation after delete failed: %v", err)
	}
	return n, nil
}

// ExportTranscript renders one identity's transcript as CSV.
func (s *Service) ExportTranscript(ctx context.Context, email string) ([]byte, string, error) {
	turns, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	b, err := transcript.EncodeCSV(turns)
	if err != nil {
		return nil, "", err
	}
	return b, transcript.ExportFilename(email), nil
}

// ExportAll renders every identity's transcript as one CSV file.
func (s *Service) ExportAll(ctx context.Context) ([]byte, string, error) {
	turns, err := s.loadAll(ctx)
	if err != nil {
		return nil, "", err
	}
	b, err := transcript.EncodeCSV(withEmail(turns))
	if err != nil {
		return nil, "", err
	}
	return b, transcript.AllExportFilename, nil
}

// --- export job lifecycle ---

// CreateExportJob records a queued job. email == "" requests the combined
// export. The caller publishes the job id to the queue.
func (s *Service) CreateExportJob(ctx context.Context, email string) (*ExportJob, error) {
	id, err := common.NewULID()
	if err != nil {
		return nil, err
	}
	job := &ExportJob{ID: id, Email: email, Status: JobQueued}
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Service) GetExportJob(ctx context.Context, id string) (*ExportJob, error) {
	var job ExportJob
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Service) markJobRunning(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&ExportJob{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (s *Service) markJobSucceeded(ctx context.Context, id, path string) error {
	return s.db.WithContext(ctx).Model(&ExportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    JobSucceeded,
			"file_path": path,
			"error":     nil,
		}).Error
}

func (s *Service) markJobFailed(ctx context.Context, id, errMsg string) error {
	return s.db.WithContext(ctx).Model(&ExportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    JobFailed,
			"error":     errMsg,
			"file_path": nil,
		}).Error
}

// RunExportJob is the worker entry point: materialize the CSV under the
// export dir and settle the job row.
func (s *Service) RunExportJob(ctx context.Context, jobID string) error {
	_ = s.markJobRunning(ctx, jobID)

	job, err := s.GetExportJob(ctx, jobID)
	if err != nil {
		return err
	}

	var (
		b     []byte
		fname string
	)
	if job.Email == "" {
		b, fname, err = s.ExportAll(ctx)
	} else {
		b, fname, err = s.ExportTranscript(ctx, job.Email)
	}
	if err == nil {
		err = os.MkdirAll(s.exportDir, 0o755)
	}

	var path string
	if err == nil {
		// job id prefix keeps repeated exports from clobbering each other
		path = filepath.Join(s.exportDir, job.ID+"_"+fname)
		err = os.WriteFile(path, b, 0o644)
	}

	if err != nil {
		_ = s.markJobFailed(ctx, jobID, err.Error())
		return err
	}
	return s.markJobSucceeded(ctx, jobID, path)
}
