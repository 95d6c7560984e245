package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"loanpredict/internal/logger"
	"loanpredict/internal/model"
	"loanpredict/internal/predict"
	"loanpredict/internal/registry"

	"golang.org/x/sync/errgroup"
)

// ArtifactState is the startup verdict for one registry entry.
type ArtifactState string

const (
	StateReady   ArtifactState = "ready"
	StateMissing ArtifactState = "missing"
	StateInvalid ArtifactState = "invalid"
)

const preflightWorkers = 4

type ModelStatus struct {
	Name   string
	File   string
	State  ArtifactState
	Kind   model.Kind
	Detail string
}

type StartupSummary struct {
	Env      string
	Addr     string
	Watching bool
	Models   []ModelStatus
}

// preflight loads every artifact once so problems show up in the startup log.
// Missing or broken artifacts are reported, never fatal: the page halts only
// when a user selects such a model.
func preflight(ctx context.Context, entries []registry.ModelEntry, src predict.Source) ([]ModelStatus, error) {
	out := make([]ModelStatus, len(entries))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(preflightWorkers)
	for i, entry := range entries {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := ModelStatus{Name: entry.Name, File: filepath.Base(entry.Path)}
			p, err := src.Get(entry.Path)
			switch {
			case err == nil:
				st.State = StateReady
				st.Kind = p.Kind()
			case errors.Is(err, model.ErrArtifactMissing):
				st.State = StateMissing
				logger.Warnf("Model %q: artifact %s not found", entry.Name, st.File)
			default:
				st.State = StateInvalid
				st.Detail = err.Error()
				logger.Warnf("Model %q: %v", entry.Name, err)
			}
			out[i] = st
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ready counts the entries whose artifact loaded.
func (s *StartupSummary) Ready() int {
	n := 0
	for _, m := range s.Models {
		if m.State == StateReady {
			n++
		}
	}
	return n
}

func (s *StartupSummary) Print() {
	fmt.Print(s.String())
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 64) + "\n")
	b.WriteString("STARTUP SUMMARY\n")
	b.WriteString(strings.Repeat("=", 64) + "\n")
	fmt.Fprintf(&b, "  env:      %s\n", s.Env)
	fmt.Fprintf(&b, "  listen:   %s\n", s.Addr)
	fmt.Fprintf(&b, "  watching: %t\n", s.Watching)
	fmt.Fprintf(&b, "[MODELS] %d/%d ready\n", s.Ready(), len(s.Models))
	for _, m := range s.Models {
		line := fmt.Sprintf("  - %-20s %-28s %s", m.Name, m.File, m.State)
		if m.Kind != "" {
			line += " (" + string(m.Kind) + ")"
		}
		if m.Detail != "" {
			line += ": " + m.Detail
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(strings.Repeat("=", 64) + "\n")
	return b.String()
}
