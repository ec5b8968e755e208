package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wrongness-portfolio/internal/model"
	"wrongness-portfolio/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("记录不存在")

// Portfolio 持有全部集合。每次修改先生成新切片并同步写入存储，
// 写入成功后才替换内存中的引用，读者只会看到完整的前后快照。
type Portfolio struct {
	mu    sync.RWMutex
	store store.Store
	log   *zap.Logger
	opts  MetricsOptions
	now   func() time.Time
	seed  bool

	artifacts   []model.Artifact
	datasets    []model.Dataset
	protocols   []model.Protocol
	miningQueue []model.MiningTask
	usageLogs   []model.UsageLog
}

type Option func(*Portfolio)

func WithMetricsOptions(opts MetricsOptions) Option {
	return func(p *Portfolio) { p.opts = opts }
}

func WithClock(now func() time.Time) Option {
	return func(p *Portfolio) { p.now = now }
}

// WithSeed 缺失的集合是否用示例数据填充
func WithSeed(seed bool) Option {
	return func(p *Portfolio) { p.seed = seed }
}

func NewPortfolio(ctx context.Context, st store.Store, log *zap.Logger, opts ...Option) (*Portfolio, error) {
	p := &Portfolio{
		store: st,
		log:   log,
		opts:  MetricsOptions{ClampSuccessRate: true},
		now:   time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Portfolio) load(ctx context.Context) error {
	if err := loadCollection(ctx, p, store.KeyArtifacts, &p.artifacts, seedArtifacts); err != nil {
		return err
	}
	if err := loadCollection(ctx, p, store.KeyDatasets, &p.datasets, seedDatasets); err != nil {
		return err
	}
	if err := loadCollection(ctx, p, store.KeyProtocols, &p.protocols, seedProtocols); err != nil {
		return err
	}
	if err := loadCollection(ctx, p, store.KeyMiningQueue, &p.miningQueue, seedMiningQueue); err != nil {
		return err
	}
	if err := loadCollection(ctx, p, store.KeyUsageLogs, &p.usageLogs, func() []model.UsageLog { return nil }); err != nil {
		return err
	}
	p.log.Info("状态加载完成",
		zap.Int("artifacts", len(p.artifacts)),
		zap.Int("datasets", len(p.datasets)),
		zap.Int("protocols", len(p.protocols)),
		zap.Int("mining_tasks", len(p.miningQueue)),
		zap.Int("usage_logs", len(p.usageLogs)))
	return nil
}

// loadCollection 读取 key；不存在时使用默认值（seed 关闭时为空列表）
func loadCollection[T any](ctx context.Context, p *Portfolio, key string, dst *[]T, fallback func() []T) error {
	found, err := p.store.Get(ctx, key, dst)
	if err != nil {
		return fmt.Errorf("加载 %s 失败: %w", key, err)
	}
	if found {
		if *dst == nil {
			*dst = []T{}
		}
		return nil
	}
	if p.seed {
		*dst = fallback()
	}
	if *dst == nil {
		*dst = []T{}
	}
	p.log.Debug("使用默认值", zap.String("key", key), zap.Int("count", len(*dst)))
	return nil
}

func (p *Portfolio) save(ctx context.Context, key string, value any) error {
	if err := p.store.Set(ctx, key, value); err != nil {
		persistFailures.WithLabelValues(key).Inc()
		p.log.Error("保存快照失败", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("保存 %s 失败: %w", key, err)
	}
	return nil
}

// ---- artifacts ----

// Artifacts 返回带推导计数的副本
func (p *Portfolio) Artifacts() []model.Artifact {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Artifact, 0, len(p.artifacts))
	for _, a := range p.artifacts {
		out = append(out, ProjectArtifact(a, p.protocols))
	}
	return out
}

// Artifact 单条详情及其关联 protocols
func (p *Portfolio) Artifact(id string) (model.Artifact, []model.Protocol, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	a, ok := findByID(p.artifacts, id)
	if !ok {
		return model.Artifact{}, nil, ErrNotFound
	}
	return ProjectArtifact(a, p.protocols), RelatedProtocols(id, p.protocols), nil
}

func (p *Portfolio) CreateArtifact(ctx context.Context, in NewArtifactInput) (model.Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := CreateArtifact(in, p.artifacts, p.now())
	next := append(append(make([]model.Artifact, 0, len(p.artifacts)+1), p.artifacts...), a)
	if err := p.save(ctx, store.KeyArtifacts, next); err != nil {
		return model.Artifact{}, err
	}
	p.artifacts = next
	recordsCreated.WithLabelValues("artifact").Inc()
	p.log.Info("新建 artifact", zap.String("id", a.ID), zap.String("title", a.Title))
	return a, nil
}

// UpdateArtifact 整条替换；ID 不变，冗余计数不保存
func (p *Portfolio) UpdateArtifact(ctx context.Context, updated model.Artifact) (model.Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findByID(p.artifacts, updated.ID); !ok {
		return model.Artifact{}, ErrNotFound
	}
	return p.replaceArtifact(ctx, updated)
}

// ReviseArtifact 在写锁内读取当前记录并合并修订，并发编辑不会基于过期数据
func (p *Portfolio) ReviseArtifact(ctx context.Context, id string, rev ArtifactRevision) (model.Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := findByID(p.artifacts, id)
	if !ok {
		return model.Artifact{}, ErrNotFound
	}
	return p.replaceArtifact(ctx, rev.Apply(current))
}

// replaceArtifact 调用方持有写锁
func (p *Portfolio) replaceArtifact(ctx context.Context, updated model.Artifact) (model.Artifact, error) {
	updated.Protocols, updated.TimesSaved, updated.AvgTimeSaved = 0, 0, 0
	if updated.Confidence == nil {
		updated.Confidence = map[string]model.Confidence{}
	}
	next := UpdateArtifact(p.artifacts, updated)
	if err := p.save(ctx, store.KeyArtifacts, next); err != nil {
		return model.Artifact{}, err
	}
	p.artifacts = next
	return ProjectArtifact(updated, p.protocols), nil
}

func (p *Portfolio) DeleteArtifact(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findByID(p.artifacts, id); !ok {
		return ErrNotFound
	}
	next := removeByID(p.artifacts, id)
	if err := p.save(ctx, store.KeyArtifacts, next); err != nil {
		return err
	}
	p.artifacts = next
	p.log.Info("删除 artifact", zap.String("id", id))
	return nil
}

// ---- datasets ----

func (p *Portfolio) Datasets() []model.Dataset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Dataset, len(p.datasets))
	copy(out, p.datasets)
	return out
}

func (p *Portfolio) CreateDataset(ctx context.Context, in NewDatasetInput) (model.Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := CreateDataset(in, p.datasets)
	next := append(append(make([]model.Dataset, 0, len(p.datasets)+1), p.datasets...), d)
	if err := p.save(ctx, store.KeyDatasets, next); err != nil {
		return model.Dataset{}, err
	}
	p.datasets = next
	recordsCreated.WithLabelValues("dataset").Inc()
	p.log.Info("新建数据集", zap.String("id", d.ID), zap.Int("score", DatasetScore(d)))
	return d, nil
}

func (p *Portfolio) UpdateDataset(ctx context.Context, updated model.Dataset) (model.Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findByID(p.datasets, updated.ID); !ok {
		return model.Dataset{}, ErrNotFound
	}
	next := UpdateDataset(p.datasets, updated)
	if err := p.save(ctx, store.KeyDatasets, next); err != nil {
		return model.Dataset{}, err
	}
	p.datasets = next
	return updated, nil
}

// ---- protocols ----

func (p *Portfolio) Protocols() []model.Protocol {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Protocol, len(p.protocols))
	copy(out, p.protocols)
	return out
}

// CreateProtocol 来源 artifact 必须存在
func (p *Portfolio) CreateProtocol(ctx context.Context, in NewProtocolInput, artifactSourceID string) (model.Protocol, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findByID(p.artifacts, artifactSourceID); !ok {
		return model.Protocol{}, fmt.Errorf("来源 artifact %s: %w", artifactSourceID, ErrNotFound)
	}
	proto := CreateProtocol(in, p.protocols, artifactSourceID)
	next := append(append(make([]model.Protocol, 0, len(p.protocols)+1), p.protocols...), proto)
	if err := p.save(ctx, store.KeyProtocols, next); err != nil {
		return model.Protocol{}, err
	}
	p.protocols = next
	recordsCreated.WithLabelValues("protocol").Inc()
	p.log.Info("新建 protocol", zap.String("id", proto.ID), zap.String("artifact", artifactSourceID))
	return proto, nil
}

// LogUsage 更新运行指标并追加一条使用日志
func (p *Portfolio) LogUsage(ctx context.Context, in UsageInput) (model.Protocol, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := findByID(p.protocols, in.ProtocolID)
	if !ok {
		return model.Protocol{}, ErrNotFound
	}
	updated := UpdateProtocolMetrics(current, in, p.opts)
	nextProtocols := UpdateProtocol(p.protocols, updated)

	entry := model.UsageLog{
		ID:                uuid.NewString(),
		ProtocolID:        in.ProtocolID,
		WasSuccess:        in.WasSuccess,
		TimeSaved:         in.TimeSaved,
		LoggedAt:          p.now(),
		PriorApplications: current.TimesApplied,
	}
	nextLogs := append(append(make([]model.UsageLog, 0, len(p.usageLogs)+1), p.usageLogs...), entry)

	if err := p.save(ctx, store.KeyProtocols, nextProtocols); err != nil {
		return model.Protocol{}, err
	}
	p.protocols = nextProtocols
	// 指标已落盘即视为成功；返回错误会让调用方重试而重复计数。
	// 日志缺一条只让精确重算报告 Complete=false。
	// save 已记录错误日志和失败计数
	if err := p.save(ctx, store.KeyUsageLogs, nextLogs); err == nil {
		p.usageLogs = nextLogs
	}

	usagesLogged.WithLabelValues(outcomeLabel(in.WasSuccess)).Inc()
	p.log.Info("记录 protocol 使用",
		zap.String("id", updated.ID),
		zap.Bool("success", in.WasSuccess),
		zap.Int("times_applied", updated.TimesApplied),
		zap.Int("success_rate", updated.SuccessRate),
		zap.Int("avg_time_saved", updated.AvgTimeSaved))
	return updated, nil
}

// UsageHistory 某个 protocol 的使用日志
type UsageHistory struct {
	Protocol    model.Protocol   `json:"protocol"`
	Logs        []model.UsageLog `json:"logs"`
	Exact       ExactMetrics     `json:"exact"`
	Curve       []float64        `json:"curve"`
	CI95Low     float64          `json:"ci95Low"`
	CI95High    float64          `json:"ci95High"`
	FirstFailed int              `json:"firstFailed"`
}

func (p *Portfolio) UsageHistory(protocolID string) (UsageHistory, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	proto, ok := findByID(p.protocols, protocolID)
	if !ok {
		return UsageHistory{}, ErrNotFound
	}
	low, high := SuccessInterval(proto)
	logs := usageFor(protocolID, p.usageLogs)
	if logs == nil {
		logs = []model.UsageLog{}
	}
	return UsageHistory{
		Protocol:    proto,
		Logs:        logs,
		Exact:       ReplayProtocolMetrics(proto, p.usageLogs),
		Curve:       BuildCumulativeSuccessCurve(protocolID, p.usageLogs),
		CI95Low:     low,
		CI95High:    high,
		FirstFailed: FirstFailure(protocolID, p.usageLogs),
	}, nil
}

// ---- mining queue ----

func (p *Portfolio) MiningQueue() []model.MiningTask {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.MiningTask, len(p.miningQueue))
	copy(out, p.miningQueue)
	return out
}

func (p *Portfolio) CreateMiningTask(ctx context.Context, in NewMiningTaskInput) (model.MiningTask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := CreateMiningTask(in, p.miningQueue)
	next := append(append(make([]model.MiningTask, 0, len(p.miningQueue)+1), p.miningQueue...), t)
	if err := p.save(ctx, store.KeyMiningQueue, next); err != nil {
		return model.MiningTask{}, err
	}
	p.miningQueue = next
	recordsCreated.WithLabelValues("mining_task").Inc()
	return t, nil
}

func (p *Portfolio) UpdateMiningTask(ctx context.Context, updated model.MiningTask) (model.MiningTask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findByID(p.miningQueue, updated.ID); !ok {
		return model.MiningTask{}, ErrNotFound
	}
	next := UpdateMiningTask(p.miningQueue, updated)
	if err := p.save(ctx, store.KeyMiningQueue, next); err != nil {
		return model.MiningTask{}, err
	}
	p.miningQueue = next
	return updated, nil
}

// ---- aggregates ----

func (p *Portfolio) Stats() PortfolioStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ComputePortfolioStats(p.artifacts, p.datasets, p.protocols, p.miningQueue)
}

// Snapshot 一致的只读副本，供报表使用
type Snapshot struct {
	Artifacts   []model.Artifact
	Datasets    []model.Dataset
	Protocols   []model.Protocol
	MiningQueue []model.MiningTask
	Stats       PortfolioStats
	TakenAt     time.Time
}

func (p *Portfolio) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	artifacts := make([]model.Artifact, 0, len(p.artifacts))
	for _, a := range p.artifacts {
		artifacts = append(artifacts, ProjectArtifact(a, p.protocols))
	}
	protocols := make([]model.Protocol, len(p.protocols))
	copy(protocols, p.protocols)
	tasks := make([]model.MiningTask, len(p.miningQueue))
	copy(tasks, p.miningQueue)
	return Snapshot{
		Artifacts:   artifacts,
		Datasets:    SortDatasetsByScore(p.datasets),
		Protocols:   protocols,
		MiningQueue: tasks,
		Stats:       ComputePortfolioStats(p.artifacts, p.datasets, p.protocols, p.miningQueue),
		TakenAt:     p.now(),
	}
}

// Persist 把当前所有集合写回存储（seed 子命令用）
func (p *Portfolio) Persist(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.save(ctx, store.KeyArtifacts, p.artifacts); err != nil {
		return err
	}
	if err := p.save(ctx, store.KeyDatasets, p.datasets); err != nil {
		return err
	}
	if err := p.save(ctx, store.KeyProtocols, p.protocols); err != nil {
		return err
	}
	if err := p.save(ctx, store.KeyMiningQueue, p.miningQueue); err != nil {
		return err
	}
	return p.save(ctx, store.KeyUsageLogs, p.usageLogs)
}
