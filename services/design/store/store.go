// Copyright (C) 2025 DesignStudio
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/designstudio/designstudio/services/design/canvas"
	"github.com/designstudio/designstudio/services/design/observability"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Key layout. Numeric segments are zero-padded so prefix iteration
// yields records in id order.
//
//	project:<id>                    Project
//	file:<id>                       DesignFile
//	file_by_project:<pid>:<fid>     index, empty value
//	version:<fid>:<version>         DesignVersion
//	comment:<fid>:<id>              Comment
//	seq:<name>                      id counter
const (
	prefixProject       = "project:"
	prefixFile          = "file:"
	prefixFileByProject = "file_by_project:"
	prefixVersion       = "version:"
	prefixComment       = "comment:"
	prefixSeq           = "seq:"
)

func projectKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%016d", prefixProject, id))
}

func fileKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%016d", prefixFile, id))
}

func fileByProjectKey(projectID, fileID int64) []byte {
	return []byte(fmt.Sprintf("%s%016d:%016d", prefixFileByProject, projectID, fileID))
}

func versionKey(fileID int64, version int) []byte {
	return []byte(fmt.Sprintf("%s%016d:%08d", prefixVersion, fileID, version))
}

func commentKey(fileID, commentID int64) []byte {
	return []byte(fmt.Sprintf("%s%016d:%016d", prefixComment, fileID, commentID))
}

// Store provides CRUD access to projects, design files, versions, and
// comments.
//
// Writes are serialized with a mutex so concurrent callers never hit
// BadgerDB transaction conflicts; reads run concurrently.
type Store struct {
	db      *DB
	logger  *slog.Logger
	metrics *observability.Metrics

	writeMu sync.Mutex
}

// NewStore wraps an open database. logger must not be nil; metrics may
// be nil to disable instrumentation.
func NewStore(db *DB, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{db: db, logger: logger, metrics: metrics}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.db.WithTxn(ctx, fn)
}

// nextID increments and returns the named id counter.
func nextID(txn *badger.Txn, name string) (int64, error) {
	key := []byte(prefixSeq + name)
	var id int64
	item, err := txn.Get(key)
	switch {
	case err == nil:
		err = item.Value(func(val []byte) error {
			id, err = strconv.ParseInt(string(val), 10, 64)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("parse sequence %s: %w", name, err)
		}
	case errors.Is(err, badger.ErrKeyNotFound):
		// First allocation starts at 1.
	default:
		return 0, fmt.Errorf("read sequence %s: %w", name, err)
	}

	id++
	if err := txn.Set(key, []byte(strconv.FormatInt(id, 10))); err != nil {
		return 0, fmt.Errorf("write sequence %s: %w", name, err)
	}
	return id, nil
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// iteratePrefix calls fn with each key and value under prefix, in key
// order.
func iteratePrefix(txn *badger.Txn, prefix []byte, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		key := item.KeyCopy(nil)
		val, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if err := fn(key, val); err != nil {
			return err
		}
	}
	return nil
}

// deletePrefix removes every key under prefix.
func deletePrefix(txn *badger.Txn, prefix []byte) error {
	var keys [][]byte
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// --- Projects ---

// CreateProject creates a project and returns it.
func (s *Store) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	var p Project
	err := s.update(ctx, func(txn *badger.Txn) error {
		id, err := nextID(txn, "project")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p = Project{ID: id, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
		return putJSON(txn, projectKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", slog.Int64("project_id", p.ID), slog.String("name", p.Name))
	return &p, nil
}

// GetProject returns the project with the given id, or ErrNotFound.
func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, projectKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		return iteratePrefix(txn, []byte(prefixProject), func(_, val []byte) error {
			var p Project
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			projects = append(projects, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByUpdatedDesc(projects)
	return projects, nil
}

// ProjectUpdate carries optional project fields; nil means unchanged.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// UpdateProject applies the non-nil fields of upd and returns the
// updated project.
func (s *Store) UpdateProject(ctx context.Context, id int64, upd ProjectUpdate) (*Project, error) {
	var p Project
	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, projectKey(id), &p); err != nil {
			return err
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		p.UpdatedAt = time.Now().UTC()
		return putJSON(txn, projectKey(id), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project and all of its design files,
// versions, and comments. Returns ErrNotFound if the project does not
// exist.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		var p Project
		if err := getJSON(txn, projectKey(id), &p); err != nil {
			return err
		}

		var fileIDs []int64
		idxPrefix := []byte(fmt.Sprintf("%s%016d:", prefixFileByProject, id))
		err := iteratePrefix(txn, idxPrefix, func(key, _ []byte) error {
			fid, err := parseTrailingID(key)
			if err != nil {
				return err
			}
			fileIDs = append(fileIDs, fid)
			return nil
		})
		if err != nil {
			return err
		}

		for _, fid := range fileIDs {
			if err := deleteFileLocked(txn, id, fid); err != nil {
				return err
			}
		}
		return txn.Delete(projectKey(id))
	})
	if err != nil {
		return err
	}
	s.logger.Info("project deleted", slog.Int64("project_id", id))
	return nil
}

// SearchProjects returns projects whose name or description contains
// query (case-insensitive), most recently updated first. limit <= 0
// means the default of 50.
func (s *Store) SearchProjects(ctx context.Context, query string, limit int) ([]Project, error) {
	if limit <= 0 {
		limit = 50
	}
	needle := strings.ToLower(query)

	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Project, 0, len(projects))
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched, nil
}

// Stats returns platform-wide counts plus the ten most recent
// project and design file creations.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var (
		projects []Project
		files    []DesignFile
		comments int
	)
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		err := iteratePrefix(txn, []byte(prefixProject), func(_, val []byte) error {
			var p Project
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			projects = append(projects, p)
			return nil
		})
		if err != nil {
			return err
		}
		err = iteratePrefix(txn, []byte(prefixFile), func(_, val []byte) error {
			var f DesignFile
			if err := json.Unmarshal(val, &f); err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return err
		}
		return iteratePrefix(txn, []byte(prefixComment), func(_, _ []byte) error {
			comments++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	projectNames := make(map[int64]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	activity := make([]Activity, 0, len(projects)+len(files))
	for _, p := range projects {
		activity = append(activity, Activity{
			Type:        "project",
			ProjectName: p.Name,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, f := range files {
		activity = append(activity, Activity{
			Type:           "design_file",
			ProjectName:    projectNames[f.ProjectID],
			DesignFileName: f.Name,
			CreatedAt:      f.CreatedAt,
		})
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].CreatedAt.After(activity[j].CreatedAt)
	})
	if len(activity) > 10 {
		activity = activity[:10]
	}

	return &Stats{
		TotalProjects:    len(projects),
		TotalDesignFiles: len(files),
		TotalComments:    comments,
		RecentActivity:   activity,
	}, nil
}

// ProjectStats summarizes one project's design files, layers, and
// comments. Returns ErrNotFound if the project does not exist.
func (s *Store) ProjectStats(ctx context.Context, projectID int64) (*ProjectStats, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	files, err := s.ListDesignFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := ProjectStats{ProjectID: projectID, LastUpdated: p.UpdatedAt}
	stats.DesignFileCount = len(files)
	for _, f := range files {
		stats.LayerCount += len(f.CanvasData.Layers)
		if f.UpdatedAt.After(stats.LastUpdated) {
			stats.LastUpdated = f.UpdatedAt
		}
		comments, err := s.ListComments(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		stats.CommentCount += len(comments)
	}
	return &stats, nil
}

// --- Design files ---

// CreateDesignFile creates a design file within a project. A nil data
// means an empty canvas at zoom 1. Returns ErrNotFound if the project
// does not exist.
func (s *Store) CreateDesignFile(ctx context.Context, projectID int64, name string, data *canvas.CanvasData) (*DesignFile, error) {
	canvasData := canvas.CanvasData{Viewport: canvas.Viewport{Zoom: 1}}
	if data != nil {
		canvasData = *data
	}

	var f DesignFile
	err := s.update(ctx, func(txn *badger.Txn) error {
		var p Project
		if err := getJSON(txn, projectKey(projectID), &p); err != nil {
			return err
		}
		id, err := nextID(txn, "design_file")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		f = DesignFile{
			ID:         id,
			ProjectID:  projectID,
			Name:       name,
			CanvasData: canvasData,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := putJSON(txn, fileKey(id), &f); err != nil {
			return err
		}
		return txn.Set(fileByProjectKey(projectID, id), nil)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("design file created",
		slog.Int64("design_file_id", f.ID), slog.Int64("project_id", projectID))
	return &f, nil
}

// GetDesignFile returns the design file with the given id, or
// ErrNotFound.
func (s *Store) GetDesignFile(ctx context.Context, id int64) (*DesignFile, error) {
	var f DesignFile
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, fileKey(id), &f)
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListDesignFiles returns a project's design files, most recently
// updated first.
func (s *Store) ListDesignFiles(ctx context.Context, projectID int64) ([]DesignFile, error) {
	var files []DesignFile
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		idxPrefix := []byte(fmt.Sprintf("%s%016d:", prefixFileByProject, projectID))
		return iteratePrefix(txn, idxPrefix, func(key, _ []byte) error {
			fid, err := parseTrailingID(key)
			if err != nil {
				return err
			}
			var f DesignFile
			if err := getJSON(txn, fileKey(fid), &f); err != nil {
				return err
			}
			files = append(files, f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].UpdatedAt.Equal(files[j].UpdatedAt) {
			return files[i].ID > files[j].ID
		}
		return files[i].UpdatedAt.After(files[j].UpdatedAt)
	})
	return files, nil
}

// UpdateDesignFile replaces a design file's canvas data. When
// saveVersion is true, the new canvas is also recorded as the next
// numbered version snapshot.
func (s *Store) UpdateDesignFile(ctx context.Context, id int64, data canvas.CanvasData, saveVersion bool) (*DesignFile, error) {
	var f DesignFile
	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, fileKey(id), &f); err != nil {
			return err
		}
		f.CanvasData = data
		f.UpdatedAt = time.Now().UTC()
		if err := putJSON(txn, fileKey(id), &f); err != nil {
			return err
		}
		if !saveVersion {
			return nil
		}

		next, err := latestVersionNumber(txn, id)
		if err != nil {
			return err
		}
		next++
		vid, err := nextID(txn, "design_version")
		if err != nil {
			return err
		}
		v := DesignVersion{
			ID:            vid,
			DesignFileID:  id,
			VersionNumber: next,
			CanvasData:    data,
			CreatedAt:     f.UpdatedAt,
		}
		return putJSON(txn, versionKey(id, next), &v)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSave(saveVersion)
	return &f, nil
}

// DeleteDesignFile removes a design file along with its versions and
// comments.
func (s *Store) DeleteDesignFile(ctx context.Context, id int64) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var f DesignFile
		if err := getJSON(txn, fileKey(id), &f); err != nil {
			return err
		}
		return deleteFileLocked(txn, f.ProjectID, id)
	})
}

// deleteFileLocked removes a design file record, its project index
// entry, and all dependent versions and comments.
func deleteFileLocked(txn *badger.Txn, projectID, fileID int64) error {
	if err := deletePrefix(txn, []byte(fmt.Sprintf("%s%016d:", prefixVersion, fileID))); err != nil {
		return err
	}
	if err := deletePrefix(txn, []byte(fmt.Sprintf("%s%016d:", prefixComment, fileID))); err != nil {
		return err
	}
	if err := txn.Delete(fileByProjectKey(projectID, fileID)); err != nil {
		return err
	}
	return txn.Delete(fileKey(fileID))
}

// DuplicateDesignFile copies a design file within its project. An empty
// name means the original name with a " Copy" suffix. Versions and
// comments are not copied.
func (s *Store) DuplicateDesignFile(ctx context.Context, id int64, name string) (*DesignFile, error) {
	var dup DesignFile
	err := s.update(ctx, func(txn *badger.Txn) error {
		var orig DesignFile
		if err := getJSON(txn, fileKey(id), &orig); err != nil {
			return err
		}
		if name == "" {
			name = orig.Name + " Copy"
		}
		newID, err := nextID(txn, "design_file")
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		dup = DesignFile{
			ID:         newID,
			ProjectID:  orig.ProjectID,
			Name:       name,
			CanvasData: orig.CanvasData,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := putJSON(txn, fileKey(newID), &dup); err != nil {
			return err
		}
		return txn.Set(fileByProjectKey(orig.ProjectID, newID), nil)
	})
	if err != nil {
		return nil, err
	}
	return &dup, nil
}

// --- Versions ---

func latestVersionNumber(txn *badger.Txn, fileID int64) (int, error) {
	latest := 0
	prefix := []byte(fmt.Sprintf("%s%016d:", prefixVersion, fileID))
	err := iteratePrefix(txn, prefix, func(_, val []byte) error {
		var v DesignVersion
		if err := json.Unmarshal(val, &v); err != nil {
			return err
		}
		if v.VersionNumber > latest {
			latest = v.VersionNumber
		}
		return nil
	})
	return latest, err
}

// ListVersions returns a design file's version snapshots, newest
// version number first.
func (s *Store) ListVersions(ctx context.Context, fileID int64) ([]DesignVersion, error) {
	var versions []DesignVersion
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%016d:", prefixVersion, fileID))
		return iteratePrefix(txn, prefix, func(_, val []byte) error {
			var v DesignVersion
			if err := json.Unmarshal(val, &v); err != nil {
				return err
			}
			versions = append(versions, v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	// Keys iterate in ascending version order; callers want newest first.
	for i, j := 0, len(versions)-1; i < j; i, j = i+1, j-1 {
		versions[i], versions[j] = versions[j], versions[i]
	}
	return versions, nil
}

// RestoreVersion replaces a design file's canvas with the snapshot at
// versionNumber and returns the updated file. Returns ErrNotFound if
// either the version or the file is missing.
func (s *Store) RestoreVersion(ctx context.Context, fileID int64, versionNumber int) (*DesignFile, error) {
	var f DesignFile
	err := s.update(ctx, func(txn *badger.Txn) error {
		var v DesignVersion
		if err := getJSON(txn, versionKey(fileID, versionNumber), &v); err != nil {
			return err
		}
		if err := getJSON(txn, fileKey(fileID), &f); err != nil {
			return err
		}
		f.CanvasData = v.CanvasData
		f.UpdatedAt = time.Now().UTC()
		return putJSON(txn, fileKey(fileID), &f)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("version restored",
		slog.Int64("design_file_id", fileID), slog.Int("version", versionNumber))
	return &f, nil
}

// --- Comments ---

// AddComment pins a comment to a design file. Returns ErrNotFound if
// the file does not exist.
func (s *Store) AddComment(ctx context.Context, fileID int64, x, y float64, content, author string) (*Comment, error) {
	var c Comment
	err := s.update(ctx, func(txn *badger.Txn) error {
		var f DesignFile
		if err := getJSON(txn, fileKey(fileID), &f); err != nil {
			return err
		}
		id, err := nextID(txn, "comment")
		if err != nil {
			return err
		}
		c = Comment{
			ID:           id,
			DesignFileID: fileID,
			XPosition:    x,
			YPosition:    y,
			Content:      content,
			AuthorName:   author,
			CreatedAt:    time.Now().UTC(),
		}
		return putJSON(txn, commentKey(fileID, id), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns a design file's comments, oldest first.
func (s *Store) ListComments(ctx context.Context, fileID int64) ([]Comment, error) {
	var comments []Comment
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%016d:", prefixComment, fileID))
		return iteratePrefix(txn, prefix, func(_, val []byte) error {
			var c Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			comments = append(comments, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// parseTrailingID extracts the numeric segment after the last colon of
// an index key.
func parseTrailingID(key []byte) (int64, error) {
	s := string(key)
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return 0, fmt.Errorf("malformed index key %q", s)
	}
	id, err := strconv.ParseInt(s[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed index key %q: %w", s, err)
	}
	return id, nil
}

func sortByUpdatedDesc(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].UpdatedAt.Equal(projects[j].UpdatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
}
