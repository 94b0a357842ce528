package anim

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"heartrain/internal/store"
	"heartrain/internal/theme"
)

// recordTimeout bounds the post-run database write.
const recordTimeout = 2 * time.Second

// RunAnimation runs the full-screen animation until ctx is canceled, a quit
// key is pressed, or the configured duration elapses. A session row is
// written to opts.Store when one is given, and the farewell line is printed
// after the alternate screen is released.
func RunAnimation(ctx context.Context, opts Options) error {
	m := New(opts)
	log := m.log

	started := time.Now()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.ThemePath != "" {
		w, err := theme.NewWatcher(opts.ThemePath, func(th *theme.Theme) {
			p.Send(themeReloadedMsg{theme: th})
		}, log)
		if err != nil {
			log.Warn("theme watch unavailable",
				zap.String("path", opts.ThemePath),
				zap.Error(err),
			)
		} else if err := w.Start(ctx); err != nil {
			log.Warn("theme watch failed to start", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	log.Info("animation starting",
		zap.Int("fps", m.fps),
		zap.Int64("seed", m.seed),
	)

	final, err := p.Run()
	interrupted := false
	switch {
	case err == nil:
	case errors.Is(err, tea.ErrProgramKilled):
		// ctx canceled, usually by a signal. Still a goodbye.
		interrupted = true
	default:
		return fmt.Errorf("animation: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		fm = m
	}
	stats := fm.field.Stats()

	log.Info("animation finished",
		zap.Duration("elapsed", fm.elapsed),
		zap.Int64("frames", fm.frames),
		zap.Int64("hearts", stats.Spawned),
		zap.Int("peak", stats.Peak),
		zap.Bool("interrupted", interrupted),
	)

	if opts.Store != nil {
		// The run context may already be canceled; give the write its own.
		rctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		sess := store.Session{
			ID:            uuid.NewString(),
			StartedAt:     started,
			Duration:      fm.elapsed,
			Frames:        fm.frames,
			HeartsSpawned: stats.Spawned,
			PeakOnScreen:  stats.Peak,
			FPS:           fm.fps,
			Seed:          fm.seed,
			CleanExit:     !interrupted,
		}
		if err := opts.Store.RecordSession(rctx, sess); err != nil {
			log.Warn("session not recorded", zap.Error(err))
		}
	}

	fmt.Println(fm.styles.Farewell.Render(fm.th.Farewell))
	return nil
}
