package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"go.uber.org/zap"
)

const DefaultSignedURLTTL = 3600 * time.Second

type Counts struct {
	Records  int `json:"records"`
	Files    int `json:"files"`
	Matched  int `json:"matched"`
	Missing  int `json:"missing"`
	Orphaned int `json:"orphaned"`
}

type Report struct {
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing_files"`
	Orphaned []string `json:"orphaned_files"`
	Counts   Counts   `json:"counts"`
}

type SignedURL struct {
	Path  string `json:"path"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

type UpdateResult struct {
	Updated int         `json:"updated"`
	Failed  []SignedURL `json:"failed"`
}

// Reconciler compares the resources table with the objects of a bucket.
type Reconciler struct {
	log       *zap.SugaredLogger
	storage   domain.Storage
	resources domain.ResourcesRepository
}

func NewReconciler(log *zap.SugaredLogger, storage domain.Storage, resources domain.ResourcesRepository) *Reconciler {
	return &Reconciler{log: log, storage: storage, resources: resources}
}

// Walk returns the paths of all files below prefix. Entries without an ID
// are folders and are listed again. Paths are built from the raw key
// segments, so an empty segment ("a//b.pdf") still descends one level.
func (r *Reconciler) Walk(ctx context.Context, prefix string) ([]string, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	entries, err := r.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsFolder() {
			nested, err := r.Walk(ctx, prefix+e.Name+"/")
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
			continue
		}
		files = append(files, prefix+e.Name)
	}
	return files, nil
}

func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	files, err := r.Walk(ctx, "")
	if err != nil {
		return Report{}, fmt.Errorf("listing storage: %w", err)
	}
	records, err := r.resources.List()
	if err != nil {
		return Report{}, fmt.Errorf("listing resources: %w", err)
	}
	return Compare(records, files), nil
}

// Compare matches records and files by exact path.
func Compare(records []domain.Resource, files []string) Report {
	stored := make(map[string]bool, len(files))
	for _, f := range files {
		stored[f] = true
	}
	referenced := make(map[string]bool, len(records))
	report := Report{Matched: []string{}, Missing: []string{}, Orphaned: []string{}}
	for _, rec := range records {
		if referenced[rec.FilePath] {
			continue
		}
		referenced[rec.FilePath] = true
		if stored[rec.FilePath] {
			report.Matched = append(report.Matched, rec.FilePath)
		} else {
			report.Missing = append(report.Missing, rec.FilePath)
		}
	}
	for _, f := range files {
		if !referenced[f] {
			report.Orphaned = append(report.Orphaned, f)
		}
	}
	sort.Strings(report.Matched)
	sort.Strings(report.Missing)
	sort.Strings(report.Orphaned)
	report.Counts = Counts{
		Records:  len(records),
		Files:    len(files),
		Matched:  len(report.Matched),
		Missing:  len(report.Missing),
		Orphaned: len(report.Orphaned),
	}
	return report
}

// SignURLs signs every path independently; failures are reported per path.
func (r *Reconciler) SignURLs(ctx context.Context, paths []string, ttl time.Duration) []SignedURL {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	res := make([]SignedURL, len(paths))
	for i, p := range paths {
		res[i].Path = p
		u, err := r.storage.SignedURL(ctx, p, ttl)
		if err != nil {
			r.log.Warnw("signing url", "path", p, zap.Error(err))
			res[i].Error = err.Error()
			continue
		}
		res[i].URL = u
	}
	return res
}

// UpdateSignedURLs refreshes resources.signed_url for every record whose file
// exists in storage.
func (r *Reconciler) UpdateSignedURLs(ctx context.Context, ttl time.Duration) (UpdateResult, error) {
	files, err := r.Walk(ctx, "")
	if err != nil {
		return UpdateResult{}, fmt.Errorf("listing storage: %w", err)
	}
	records, err := r.resources.List()
	if err != nil {
		return UpdateResult{}, fmt.Errorf("listing resources: %w", err)
	}
	stored := make(map[string]bool, len(files))
	for _, f := range files {
		stored[f] = true
	}
	var targets []domain.Resource
	var paths []string
	for _, rec := range records {
		if stored[rec.FilePath] {
			targets = append(targets, rec)
			paths = append(paths, rec.FilePath)
		}
	}
	result := UpdateResult{Failed: []SignedURL{}}
	for i, signed := range r.SignURLs(ctx, paths, ttl) {
		if signed.Error == "" {
			if err := r.resources.UpdateSignedURL(targets[i].ID, signed.URL); err != nil {
				signed.Error = err.Error()
			}
		}
		if signed.Error != "" {
			result.Failed = append(result.Failed, signed)
			continue
		}
		result.Updated++
	}
	return result, nil
}
