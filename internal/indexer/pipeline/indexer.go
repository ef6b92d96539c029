package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/parser"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/storage"
	"github.com/0x5457/signclip/internal/util"
)

type Options struct {
	ParseWorkers   int
	EmbedBatchSize int
}

// Indexer parses pose files concurrently, embeds them in batches and
// records them in the catalog and the vector store.
type Indexer struct {
	p       parser.Parser
	e       embeddings.Embedder
	catalog storage.CatalogStore
	vec     storage.VectorStore
	opt     Options
}

func New(
	p parser.Parser,
	e embeddings.Embedder,
	c storage.CatalogStore,
	v storage.VectorStore,
	opt Options,
) *Indexer {
	if opt.ParseWorkers <= 0 {
		opt.ParseWorkers = runtime.NumCPU()
	}
	if opt.EmbedBatchSize <= 0 {
		opt.EmbedBatchSize = 16
	}
	return &Indexer{p: p, e: e, catalog: c, vec: v, opt: opt}
}

type parsed struct {
	file  string
	entry models.PoseEntry
	pose  *pose.Pose
	err   error
}

// IndexDirectory indexes every pose file under root. Progress updates are
// sent on progress when it is not nil; the channel is not closed.
func (i *Indexer) IndexDirectory(ctx context.Context, root string, progress chan<- models.IndexProgress) error {
	report := func(p models.IndexProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	report(models.IndexProgress{Stage: models.IndexStageScan, Message: root})
	files, err := i.p.ListFiles(root)
	if err != nil {
		return err
	}
	total := len(files)
	runID := util.NewRunID()

	// Stage 1: parse files concurrently
	parseCh := make(chan string, len(files))
	resCh := make(chan parsed, len(files))
	var wgParse sync.WaitGroup
	for w := 0; w < i.opt.ParseWorkers; w++ {
		wgParse.Add(1)
		go func() {
			defer wgParse.Done()
			for f := range parseCh {
				entry, p, err := i.p.ParseFile(f)
				resCh <- parsed{file: f, entry: entry, pose: p, err: err}
			}
		}()
	}
	for _, f := range files {
		parseCh <- f
	}
	close(parseCh)
	go func() { wgParse.Wait(); close(resCh) }()

	// Stage 2: collect and embed in batches
	var all []models.PoseEntry
	var batch []parsed
	parsedFiles, embedded := 0, 0
	flush := func(items []parsed) error {
		if len(items) == 0 {
			return nil
		}
		entries := make([]models.PoseEntry, len(items))
		poses := make([]*pose.Pose, len(items))
		for idx, it := range items {
			entries[idx] = it.entry
			poses[idx] = it.pose
		}
		vecs, err := i.e.EmbedPoses(ctx, poses)
		if err != nil {
			return err
		}
		if err := i.vec.Upsert(entries, embeddings.Rows(vecs)); err != nil {
			return err
		}
		embedded += len(items)
		report(models.IndexProgress{
			Stage:         models.IndexStageEmbed,
			TotalFiles:    total,
			ParsedFiles:   parsedFiles,
			TotalPoses:    total,
			EmbeddedPoses: embedded,
			CurrentFile:   items[len(items)-1].file,
			Percent:       percent(embedded, total),
		})
		return nil
	}
	for r := range resCh {
		if r.err != nil {
			return fmt.Errorf("parse %s: %w", r.file, r.err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		parsedFiles++
		report(models.IndexProgress{
			Stage:       models.IndexStageParse,
			TotalFiles:  total,
			ParsedFiles: parsedFiles,
			CurrentFile: r.file,
			Percent:     percent(parsedFiles, total),
		})
		r.entry.RunID = runID
		all = append(all, r.entry)
		batch = append(batch, r)
		for len(batch) >= i.opt.EmbedBatchSize {
			if err := flush(batch[:i.opt.EmbedBatchSize]); err != nil {
				return err
			}
			batch = batch[i.opt.EmbedBatchSize:]
		}
	}
	if err := flush(batch); err != nil {
		return err
	}

	report(models.IndexProgress{Stage: models.IndexStageCatalog, TotalFiles: total, ParsedFiles: parsedFiles})
	if err := i.catalog.UpsertEntries(all); err != nil {
		return err
	}
	report(models.IndexProgress{
		Stage:         models.IndexStageDone,
		TotalFiles:    total,
		ParsedFiles:   parsedFiles,
		TotalPoses:    total,
		EmbeddedPoses: embedded,
		Message:       runID,
		Percent:       100,
	})
	return nil
}

// IndexFile replaces the index records of one pose file.
func (i *Indexer) IndexFile(ctx context.Context, path string) error {
	if err := i.catalog.DeleteEntriesByFile(path); err != nil {
		return err
	}
	if err := i.vec.DeleteByFile(path); err != nil {
		return err
	}
	entry, p, err := i.p.ParseFile(path)
	if err != nil {
		return err
	}
	entry.RunID = util.NewRunID()
	vecs, err := i.e.EmbedPoses(ctx, []*pose.Pose{p})
	if err != nil {
		return err
	}
	if err := i.catalog.UpsertEntries([]models.PoseEntry{entry}); err != nil {
		return err
	}
	return i.vec.Upsert([]models.PoseEntry{entry}, embeddings.Rows(vecs))
}

func (i *Indexer) SearchSemantic(ctx context.Context, query string, topK int) ([]models.SemanticHit, error) {
	vec, err := i.e.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return i.vec.Query(vec, topK)
}

func (i *Indexer) ListEntries() ([]models.PoseEntry, error) {
	return i.catalog.List()
}

func percent(done, total int) float32 {
	if total == 0 {
		return 100
	}
	return float32(done) * 100 / float32(total)
}
