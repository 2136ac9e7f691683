package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/agentcrew/artifact"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/internal/testutil"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"# Getting Started\nbody":        "getting_started",
		"intro\n# API: v2 (beta)!\n":     "api_v2_beta_",
		"## Sub only\n":                  "index",
		"no heading":                     "index",
		"# \n":                           "index",
		"# Release-Notes 2025\n# Second": "release_notes_2025",
		"# 日本語ガイド":                        "日本語ガイド",
		"# Café Guide":                  "café_guide",
		"# Über uns":                    "über_uns",
		"# ٣ خطوات":                     "٣_خطوات",
	}
	for md, want := range tests {
		assert.Equal(t, want, Slug(md), md)
	}
}

func TestWriter_GenerateDocument(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "# Health Checks\n\nSee[^4].\n\nTODO: kubernetes probes\n"})

	searcher := new(testutil.MockSearcher)
	searcher.On("Search", mock.Anything, "kubernetes probes", 3).Return([]core.SearchResult{
		{Title: "Probes", URL: "https://k8s.io/probes", Snippet: "Liveness and readiness"},
	}, nil)

	instruction := strings.Repeat("Describe the health endpoint ", 4)
	vcs := new(testutil.MockVCS)
	vcs.On("CommitAll", mock.Anything, "docs: "+instruction[:60]).Return(nil).Once()

	docs := artifact.NewInMemoryStore()
	refs := &testutil.MemReferenceStore{}

	w := NewWriter(newGateway(backend), "writer-model", searcher, docs, func(o *WriterOptions) {
		o.Results = 3
		o.References = refs
		o.VCS = vcs
	})
	assert.Equal(t, KindWriter, w.Kind())

	md, err := w.GenerateDocument(context.Background(), instruction)
	require.NoError(t, err)

	assert.Equal(t, "# Health Checks\n\nSee[^1].\n\n- [Probes](https://k8s.io/probes)\n  Liveness and readiness\n", md)
	stored, err := docs.Get("health_checks.md")
	require.NoError(t, err)
	assert.Equal(t, md, string(stored))
	assert.Equal(t, map[string]string{"https://k8s.io/probes": "Probes"}, refs.Refs)
	assert.Equal(t, "Write a thorough Markdown document:\n"+instruction, backend.Calls()[0].Prompt)

	vcs.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestWriter_ActWithoutSearcherOrVCS(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "plain doc TODO: stays"})
	docs := artifact.NewInMemoryStore()

	out, err := NewWriter(newGateway(backend), "m", nil, docs).Act(context.Background(), memory.New(""), "notes")
	require.NoError(t, err)
	assert.Equal(t, "plain doc TODO: stays", out)

	names, _ := docs.List()
	assert.Equal(t, []string{"index.md"}, names)
}

func TestWriter_CommitFailure(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "# T"})
	vcs := new(testutil.MockVCS)
	vcs.On("CommitAll", mock.Anything, "docs: x").Return(errors.New("locked"))

	_, err := NewWriter(newGateway(backend), "m", nil, artifact.NewInMemoryStore(), func(o *WriterOptions) {
		o.VCS = vcs
	}).GenerateDocument(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}
