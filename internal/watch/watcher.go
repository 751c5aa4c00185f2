// Package watch enqueues translation jobs for documents dropped into a
// watched folder. A cron schedule drives the scans; singleflight collapses
// overlapping runs when a scan outlives the tick interval.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/mpetrenko/smartcat-translator/internal/jobs"
	"github.com/mpetrenko/smartcat-translator/pkg/file"
	"github.com/mpetrenko/smartcat-translator/pkg/icron"
	"github.com/mpetrenko/smartcat-translator/pkg/log"
)

// translatableExts lists the document types worth sending upstream. Anything
// else in the watch folder is ignored.
var translatableExts = map[string]bool{
	".docx": true,
	".doc":  true,
	".xlsx": true,
	".pptx": true,
	".pdf":  true,
	".txt":  true,
	".html": true,
	".md":   true,
	".srt":  true,
	".csv":  true,
	".json": true,
	".xml":  true,
}

type Watcher struct {
	dir             string
	cronExpr        string
	queue           *jobs.Queue
	cron            *cron.Cron
	lastTriggerTime time.Time
}

func NewWatcher(dir, cronExpr string, queue *jobs.Queue, c *cron.Cron) *Watcher {
	return &Watcher{
		dir:      dir,
		cronExpr: cronExpr,
		queue:    queue,
		cron:     c,
	}
}

var singleflightGroup singleflight.Group

func (w *Watcher) Schedule(ctx context.Context) error {
	log.Info("Watching %s on schedule %s", w.dir, w.cronExpr)

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("scan", func() (any, error) {
			if err := w.scan(ctx); err != nil {
				log.Error("Failed to scan %s: %v", w.dir, err)
			}
			return nil, nil
		})
	}
	_, err := w.cron.AddFunc(w.cronExpr, runFunc)
	return err
}

func (w *Watcher) scan(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	since, err := w.scanWindowStart()
	if err != nil {
		return err
	}

	recent, err := file.FindRecentAfter(w.dir, since)
	if err != nil {
		return err
	}
	w.lastTriggerTime = time.Now()

	enqueued := 0
	for _, path := range recent {
		if !Translatable(path) {
			continue
		}
		_, created := w.queue.Enqueue(jobs.EnqueueRequest{
			Source:    "watch",
			DedupeKey: "files|" + path,
			Kind:      jobs.KindFiles,
			Payload: jobs.BatchPayload{
				FilePaths: []string{path},
			},
		})
		if created {
			enqueued++
			log.Info("Enqueued %s from watch folder", path)
		}
	}
	if enqueued > 0 {
		log.Info("Watch scan of %s enqueued %d file(s)", w.dir, enqueued)
	}
	return nil
}

// scanWindowStart returns the modification-time cutoff for the next scan.
// The first scan after startup reaches back to the previous cron trigger so
// files dropped while the service was down are not missed.
func (w *Watcher) scanWindowStart() (time.Time, error) {
	if !w.lastTriggerTime.IsZero() {
		return w.lastTriggerTime, nil
	}

	info, err := icron.GetTriggerInfo(w.cronExpr, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get cron schedule: %w", err)
	}
	return info.Last, nil
}

// Translatable reports whether path is a candidate for the watch pipeline.
// Output artifacts of earlier runs are excluded by their name suffix.
func Translatable(path string) bool {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))
	if !translatableExts[ext] {
		return false
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return !strings.HasSuffix(stem, "-translated")
}
