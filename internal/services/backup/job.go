package backup

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
)

// Job exports every configured owner to a sink. Runs on the same day
// overwrite the previous file for that day.
type Job struct {
	registry *journal.Registry
	owners   []string
	sink     interfaces.BackupSink
	format   impexp.Format
	timeout  time.Duration
	logger   *common.Logger
	now      func() time.Time
}

// NewJob creates a backup job for owners.
func NewJob(registry *journal.Registry, owners []string, sink interfaces.BackupSink, format impexp.Format, logger *common.Logger) *Job {
	return &Job{
		registry: registry,
		owners:   owners,
		sink:     sink,
		format:   format,
		timeout:  2 * time.Minute,
		logger:   logger,
		now:      time.Now,
	}
}

func (j *Job) Name() string { return "backup" }

// Run exports each owner in turn. One owner failing does not stop the
// others; the failures are joined.
func (j *Job) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	var errs []error
	for _, owner := range j.owners {
		if err := j.backupOwner(ctx, owner); err != nil {
			j.logger.Warn().Err(err).Str("owner", owner).Msg("Backup failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (j *Job) backupOwner(ctx context.Context, owner string) error {
	cache, err := j.registry.Get(ctx, owner)
	if err != nil {
		return fmt.Errorf("load %s: %w", owner, err)
	}
	now := j.now()
	data, err := impexp.Encode(cache.Export(now), j.format)
	if err != nil {
		return err
	}
	name := path.Join(owner, impexp.FileName(now, j.format))
	if err := j.sink.Put(ctx, name, data); err != nil {
		return err
	}
	j.logger.Info().Str("owner", owner).Str("sink", j.sink.Name()).Str("name", name).Msg("Backup complete")
	return nil
}
