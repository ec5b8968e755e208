package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"wrongness-portfolio/internal/model"
	"wrongness-portfolio/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestPortfolio(t *testing.T, st store.Store, seed bool) *Portfolio {
	t.Helper()
	p, err := NewPortfolio(context.Background(), st, zap.NewNop(),
		WithSeed(seed),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return p
}

// failingStore 读正常，写入总是失败
type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(context.Context, string, any) error {
	return errors.New("disk full")
}

// keyFailingStore 只有指定 key 写入失败
type keyFailingStore struct {
	*store.MemoryStore
	failKey string
}

func (s keyFailingStore) Set(ctx context.Context, key string, value any) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestPortfolio_SeedAndEmpty(t *testing.T) {
	seeded := newTestPortfolio(t, store.NewMemoryStore(), true)
	assert.Len(t, seeded.Artifacts(), 1)
	assert.Len(t, seeded.Datasets(), 3)
	assert.Len(t, seeded.Protocols(), 3)
	assert.Len(t, seeded.MiningQueue(), 2)

	empty := newTestPortfolio(t, store.NewMemoryStore(), false)
	assert.Empty(t, empty.Artifacts())
	assert.NotNil(t, empty.Protocols())
	assert.Equal(t, 0.0, empty.Stats().AvgSuccessRate)
}

func TestPortfolio_StoredValueWinsOverSeed(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), store.KeyProtocols, []model.Protocol{}))

	p := newTestPortfolio(t, st, true)
	assert.Empty(t, p.Protocols())
	assert.Len(t, p.Artifacts(), 1)
}

func TestPortfolio_CreateAndReload(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	p := newTestPortfolio(t, st, false)

	a, err := p.CreateArtifact(ctx, NewArtifactInput{Title: "Caching lies", Domain: "Infra", Category: "Assumption"})
	require.NoError(t, err)
	assert.Equal(t, "WP-001", a.ID)
	assert.Equal(t, "2024-06-01", a.DateCreated)

	proto, err := p.CreateProtocol(ctx, NewProtocolInput{Name: "Bust the cache", Category: model.CategoryDiagnostic, Confidence: model.ConfidenceMedium}, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-001", proto.ID)

	ds, err := p.CreateDataset(ctx, NewDatasetInput{Name: "Postmortems", Type: "Postmortem", Relevance: 3, SignalDensity: 3, Transferability: 3})
	require.NoError(t, err)
	assert.Equal(t, "DS-001", ds.ID)

	task, err := p.CreateMiningTask(ctx, NewMiningTaskInput{Source: ds.Name, Target: "Extract 2", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, "MQ-001", task.ID)

	reloaded := newTestPortfolio(t, st, true)
	assert.Equal(t, []string{"WP-001"}, collectIDs(reloaded.Artifacts()))
	assert.Equal(t, []string{"P-001"}, collectIDs(reloaded.Protocols()))
	assert.Equal(t, []string{"DS-001"}, collectIDs(reloaded.Datasets()))
	assert.Equal(t, []string{"MQ-001"}, collectIDs(reloaded.MiningQueue()))
}

func TestPortfolio_CreateProtocolUnknownArtifact(t *testing.T) {
	p := newTestPortfolio(t, store.NewMemoryStore(), true)
	_, err := p.CreateProtocol(context.Background(), NewProtocolInput{Name: "x", Category: model.CategoryDiagnostic, Confidence: model.ConfidenceLow}, "WP-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, p.Protocols(), 3)
}

func TestPortfolio_LogUsage(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)

	updated, err := p.LogUsage(ctx, UsageInput{ProtocolID: "P-003", WasSuccess: true, TimeSaved: 42})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TimesApplied)
	// 8*0.75 = 6, (6+1)/9 = 77.8%
	assert.Equal(t, 78, updated.SuccessRate)
	// (480+42)/9 = 58
	assert.Equal(t, 58, updated.AvgTimeSaved)

	h, err := p.UsageHistory("P-003")
	require.NoError(t, err)
	require.Len(t, h.Logs, 1)
	assert.Equal(t, 8, h.Logs[0].PriorApplications)
	assert.Equal(t, fixedNow, h.Logs[0].LoggedAt)
	assert.NotEmpty(t, h.Logs[0].ID)
	assert.False(t, h.Exact.Complete, "示例数据在记录日志前已有使用次数")
	assert.Equal(t, []float64{1}, h.Curve)
	assert.Equal(t, -1, h.FirstFailed)

	// 派生计数随之变化
	a, related, err := p.Artifact("WP-001")
	require.NoError(t, err)
	assert.Len(t, related, 3)
	assert.Equal(t, 36, a.TimesSaved)
}

func TestPortfolio_LogUsageFreshProtocolIsExact(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)
	proto, err := p.CreateProtocol(ctx, NewProtocolInput{Name: "Fresh", Category: model.CategoryProblemSolving, Confidence: model.ConfidenceLow}, "WP-001")
	require.NoError(t, err)
	assert.Equal(t, "P-004", proto.ID)

	for _, ok := range []bool{true, true, false} {
		_, err := p.LogUsage(ctx, UsageInput{ProtocolID: proto.ID, WasSuccess: ok, TimeSaved: 10})
		require.NoError(t, err)
	}

	h, err := p.UsageHistory(proto.ID)
	require.NoError(t, err)
	assert.True(t, h.Exact.Complete)
	assert.Equal(t, 2, h.Exact.Successes)
	assert.Equal(t, 67, h.Protocol.SuccessRate)
	assert.Equal(t, 2, h.FirstFailed)
}

func TestPortfolio_LogUsageUnknownProtocol(t *testing.T) {
	p := newTestPortfolio(t, store.NewMemoryStore(), true)
	before := p.Protocols()

	_, err := p.LogUsage(context.Background(), UsageInput{ProtocolID: "P-404", WasSuccess: true})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, before, p.Protocols())

	_, err = p.UsageHistory("P-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortfolio_UpdateAndDeleteArtifact(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)

	a, _, err := p.Artifact("WP-001")
	require.NoError(t, err)
	a.Title = "Renamed"
	a.Status = model.ArtifactArchived
	a.Confidence = nil

	got, err := p.UpdateArtifact(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 3, got.Protocols)
	assert.NotNil(t, got.Confidence)

	_, err = p.UpdateArtifact(ctx, model.Artifact{ID: "WP-404"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.DeleteArtifact(ctx, "WP-001"))
	assert.Empty(t, p.Artifacts())
	assert.ErrorIs(t, p.DeleteArtifact(ctx, "WP-001"), ErrNotFound)
}

func TestPortfolio_UpdateDatasetAndTask(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)

	d := p.Datasets()[1]
	d.Status = model.DatasetCompleted
	_, err := p.UpdateDataset(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stats().DatasetsCompleted)

	_, err = p.UpdateDataset(ctx, model.Dataset{ID: "DS-404"})
	assert.ErrorIs(t, err, ErrNotFound)

	task := p.MiningQueue()[0]
	task.Progress = 80
	_, err = p.UpdateMiningTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 80, p.MiningQueue()[0].Progress)

	_, err = p.UpdateMiningTask(ctx, model.MiningTask{ID: "MQ-404"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortfolio_FailedWriteKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, failingStore{store.NewMemoryStore()}, true)

	_, err := p.CreateArtifact(ctx, NewArtifactInput{Title: "t", Domain: "d", Category: "c"})
	assert.Error(t, err)
	assert.Len(t, p.Artifacts(), 1)

	_, err = p.LogUsage(ctx, UsageInput{ProtocolID: "P-001", WasSuccess: true, TimeSaved: 5})
	assert.Error(t, err)
	assert.Equal(t, 12, p.Protocols()[0].TimesApplied)

	assert.Error(t, p.Persist(ctx))
}

func TestPortfolio_PersistWritesSeed(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	p := newTestPortfolio(t, st, true)
	require.NoError(t, p.Persist(ctx))

	var protocols []model.Protocol
	found, err := st.Get(ctx, store.KeyProtocols, &protocols)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, protocols, 3)
}

func TestRenderPortfolioMarkdown(t *testing.T) {
	p := newTestPortfolio(t, store.NewMemoryStore(), true)
	md := RenderPortfolioMarkdown(p.Snapshot())

	assert.True(t, strings.HasPrefix(md, "# Wrongness Portfolio"))
	assert.Contains(t, md, "generated_at: 2024-06-01T09:00:00Z")
	assert.Contains(t, md, "total_time_saved: 1275 min")
	assert.Contains(t, md, "| P-002 | Mandate High-Fidelity Data | 15 | 93% |")
	assert.Contains(t, md, "| DS-001 | Google SRE Postmortems | in-progress | 33 | 0.3 |")
	assert.Contains(t, md, "- WP-001 I Was Wrong About Debugging [evergreen] protocols=3 applied=35")
	assert.Contains(t, md, "MQ-001")

	empty := RenderPortfolioMarkdown(newTestPortfolio(t, store.NewMemoryStore(), false).Snapshot())
	assert.Contains(t, empty, "avg_success_rate: 0.0%")
	assert.NotContains(t, empty, "Mining queue")
}

func TestPortfolio_LogUsageSurvivesUsageLogWriteFailure(t *testing.T) {
	ctx := context.Background()
	st := keyFailingStore{MemoryStore: store.NewMemoryStore(), failKey: store.KeyUsageLogs}
	p := newTestPortfolio(t, st, true)

	updated, err := p.LogUsage(ctx, UsageInput{ProtocolID: "P-001", WasSuccess: true, TimeSaved: 5})
	require.NoError(t, err, "指标已落盘，不应让调用方重试")
	assert.Equal(t, 13, updated.TimesApplied)

	var stored []model.Protocol
	found, err := st.Get(ctx, store.KeyProtocols, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 13, stored[0].TimesApplied)

	h, err := p.UsageHistory("P-001")
	require.NoError(t, err)
	assert.Empty(t, h.Logs)
	assert.False(t, h.Exact.Complete)
}

func TestPortfolio_ReviseArtifact(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)

	conf := map[string]model.Confidence{"rebuild": model.ConfidenceHigh}
	got, err := p.ReviseArtifact(ctx, "WP-001", ArtifactRevision{
		Title: "Renamed", Domain: "Ops", Category: "Process",
		Status: model.ArtifactArchived, Confidence: conf, Validated: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "WP-001", got.ID)
	assert.Equal(t, "2023-10-01", got.DateCreated)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.Validated)
	assert.Equal(t, 3, got.Protocols)

	conf["rebuild"] = model.ConfidenceLow
	a, _, err := p.Artifact("WP-001")
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceHigh, a.Confidence["rebuild"], "不应与调用方共享 map")

	_, err = p.ReviseArtifact(ctx, "WP-404", ArtifactRevision{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortfolio_ConcurrentRevisionsStayConsistent(t *testing.T) {
	ctx := context.Background()
	p := newTestPortfolio(t, store.NewMemoryStore(), true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := p.ReviseArtifact(ctx, "WP-001", ArtifactRevision{
				Title:    fmt.Sprintf("title-%d", i),
				Domain:   fmt.Sprintf("domain-%d", i),
				Category: "Process",
				Status:   model.ArtifactActive,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	a, _, err := p.Artifact("WP-001")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimPrefix(a.Title, "title-"), strings.TrimPrefix(a.Domain, "domain-"))
	assert.Equal(t, "2023-10-01", a.DateCreated)
	assert.Len(t, p.Artifacts(), 1)
}
