package corefer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/siherrmann/corefer/core/pipeline"
	"github.com/siherrmann/corefer/core/resolver"
	"github.com/siherrmann/corefer/database"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
	loadSql "github.com/siherrmann/corefer/sql"
	"golang.org/x/sync/errgroup"
)

// ResolverSet builds the ordered resolvers of a linker for mode.
// opts are applied to every resolver after the set's own options.
type ResolverSet func(mode model.Mode, opts ...resolver.Option) ([]*resolver.Resolver, error)

// ProjectResolvers returns the is-a, proper noun and singular pronoun resolvers.
// In resolve mode their models are loaded from dir/project.
func ProjectResolvers(dir string, project string, nonReferential bool) ResolverSet {
	return func(mode model.Mode, opts ...resolver.Option) ([]*resolver.Resolver, error) {
		if mode == model.ModeResolve {
			opts = append([]resolver.Option{resolver.FromProject(dir, project, nonReferential)}, opts...)
		}

		constructors := []func(model.Mode, ...resolver.Option) (*resolver.Resolver, error){
			resolver.NewIsAResolver,
			resolver.NewProperNounResolver,
			resolver.NewSingularPronounResolver,
		}

		resolvers := make([]*resolver.Resolver, 0, len(constructors))
		for _, newResolver := range constructors {
			r, err := newResolver(mode, opts...)
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, r)
		}
		return resolvers, nil
	}
}

// Corefer provides a unified interface to the resolvers and the database handlers
type Corefer struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Entities  *database.EntitiesDBHandler
	Mentions  *database.MentionsDBHandler
	Events    *database.EventsDBHandler
	Pipeline  *pipeline.Pipeline // Optional text pipeline
	// Resolvers in resolve mode are built once and shared by all documents
	resolverSet ResolverSet
	resolvers   []*resolver.Resolver
	// Logging
	log *slog.Logger
}

// DocumentResult holds the persisted output of one document
type DocumentResult struct {
	Document *model.Document
	Outcomes []model.Outcome
	Entities []*model.EntityRecord
	Mentions []*model.MentionRecord
}

// NewCorefer creates a new Corefer instance with all handlers initialized
func NewCorefer(config *helper.DatabaseConfiguration, embeddingDim int) (*Corefer, error) {
	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)

	db := helper.NewDatabase("corefer", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Referenced tables first
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	entities, err := database.NewEntitiesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create entities handler", err)
	}

	mentions, err := database.NewMentionsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create mentions handler", err)
	}

	events, err := database.NewEventsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create events handler", err)
	}

	return &Corefer{
		DB:        db,
		Documents: documents,
		Entities:  entities,
		Mentions:  mentions,
		Events:    events,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (c *Corefer) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Close()
	}
	return nil
}

// SetPipeline sets the pipeline that extracts mentions from document content
func (c *Corefer) SetPipeline(p *pipeline.Pipeline) {
	c.Pipeline = p
}

// UseDefaultPipeline sets up the sentence tokenizer with the hugot POS tagger,
// the noun phrase detector, the hugot NER recognizer and the all-MiniLM-L6-v2 embedder.
func (c *Corefer) UseDefaultPipeline() error {
	tagger, err := pipeline.DefaultTagger()
	if err != nil {
		return helper.NewError("create default tagger", err)
	}
	recognizer, err := pipeline.DefaultRecognizer()
	if err != nil {
		return helper.NewError("create default recognizer", err)
	}
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p := pipeline.NewPipeline(pipeline.SentenceTokenizer(tagger), pipeline.NounPhraseDetector())
	p.SetRecognizer(recognizer)
	p.SetEmbedder(embedder)
	c.Pipeline = p
	return nil
}

// UseResolvers sets the resolvers used for resolving and training.
// The resolve mode resolvers are built immediately so missing models fail here.
// The pipeline embedder, if any, must be set before.
func (c *Corefer) UseResolvers(set ResolverSet) error {
	if set == nil {
		return helper.NewError("use resolvers", fmt.Errorf("resolver set is nil"))
	}

	resolvers, err := set(model.ModeResolve, c.resolverOptions()...)
	if err != nil {
		return helper.NewError("create resolvers", err)
	}

	c.resolverSet = set
	c.resolvers = resolvers
	return nil
}

// UseTrainingResolvers sets the resolvers used for training only. No models are loaded.
func (c *Corefer) UseTrainingResolvers(set ResolverSet) error {
	if set == nil {
		return helper.NewError("use training resolvers", fmt.Errorf("resolver set is nil"))
	}
	c.resolverSet = set
	c.resolvers = nil
	return nil
}

func (c *Corefer) resolverOptions() []resolver.Option {
	opts := []resolver.Option{resolver.WithLogger(c.log)}
	if c.Pipeline != nil && c.Pipeline.Embedder != nil {
		opts = append(opts, resolver.WithEmbedder(c.Pipeline.Embedder))
	}
	return opts
}

// mentionsOf returns the mentions of doc, running the pipeline over its content if it has none
func (c *Corefer) mentionsOf(doc *model.Document) ([]model.MentionContext, error) {
	if len(doc.Mentions) > 0 {
		return doc.Mentions, nil
	}
	if doc.Content == "" {
		return nil, fmt.Errorf("document has neither mentions nor content")
	}
	if c.Pipeline == nil {
		return nil, fmt.Errorf("pipeline not set, use SetPipeline() first")
	}
	return c.Pipeline.Process(doc.Content)
}

// insertDocument stores the document metadata without its content
func (c *Corefer) insertDocument(doc *model.Document) error {
	content := doc.Content
	doc.Content = ""
	err := c.Documents.InsertDocument(doc)
	doc.Content = content
	return err
}

// ResolveDocument resolves the mentions of a document and stores the document,
// its discourse entities and its mentions. Mentions are taken from doc.Mentions,
// or extracted from doc.Content with the pipeline.
func (c *Corefer) ResolveDocument(ctx context.Context, doc *model.Document) (*DocumentResult, error) {
	if len(c.resolvers) == 0 {
		return nil, helper.NewError("resolve document", fmt.Errorf("resolvers not set, use UseResolvers() first"))
	}

	mentions, err := c.mentionsOf(doc)
	if err != nil {
		return nil, helper.NewError("extract mentions", err)
	}

	linker, err := resolver.NewLinker(model.ModeResolve, c.resolvers...)
	if err != nil {
		return nil, helper.NewError("create linker", err)
	}

	outcomes, err := linker.ProcessAll(mentions)
	if err != nil {
		return nil, helper.NewError("resolve mentions", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("resolve document", err)
	}

	if err := c.insertDocument(doc); err != nil {
		return nil, helper.NewError("insert document", err)
	}

	c.log.Info("Resolved document", slog.String("document_id", doc.RID.String()), slog.Int("mentions", len(mentions)), slog.Int("entities", linker.Store().Len()))

	entities, err := c.insertEntities(doc, linker.Store())
	if err != nil {
		return nil, err
	}

	records, err := c.insertMentions(doc, mentions, outcomes, entities)
	if err != nil {
		return nil, err
	}

	return &DocumentResult{
		Document: doc,
		Outcomes: outcomes,
		Entities: entities,
		Mentions: records,
	}, nil
}

// insertEntities stores every entity of the store, indexed by its handle
func (c *Corefer) insertEntities(doc *model.Document, store *model.DiscourseEntityStore) ([]*model.EntityRecord, error) {
	entities := store.Entities()
	records := make([]*model.EntityRecord, len(entities))
	for i, e := range entities {
		record := model.NewEntityRecord(doc.ID, e)

		if c.Pipeline != nil && c.Pipeline.Embedder != nil {
			embedding, err := c.Pipeline.Embedder(entityText(e))
			if err != nil {
				return nil, helper.NewError(fmt.Sprintf("embed entity %d", i), err)
			}
			record.Embedding = embedding
		}

		if err := c.Entities.InsertEntity(record); err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert entity %d", i), err)
		}
		records[i] = record
	}
	return records, nil
}

// entityText joins the mention texts of the entity, one per distinct head word
func entityText(e *model.DiscourseEntity) string {
	seen := map[string]bool{}
	var words []string
	for _, m := range e.Extents() {
		head := m.HeadText()
		if !seen[strings.ToLower(head)] {
			seen[strings.ToLower(head)] = true
			words = append(words, m.Text())
		}
	}
	return strings.Join(words, ", ")
}

func (c *Corefer) insertMentions(doc *model.Document, mentions []model.MentionContext, outcomes []model.Outcome, entities []*model.EntityRecord) ([]*model.MentionRecord, error) {
	records := make([]*model.MentionRecord, len(mentions))
	for i := range mentions {
		outcome := outcomes[i]
		record := &model.MentionRecord{
			DocumentID:  doc.ID,
			Mention:     mentions[i],
			Status:      outcome.Status,
			Resolver:    outcome.Resolver,
			Probability: outcome.Probability,
		}
		if outcome.HasEntity() && int(outcome.Entity) < len(entities) {
			entity := entities[outcome.Entity]
			record.EntityID = &entity.ID
			record.EntityRID = &entity.RID
		}

		if err := c.Mentions.InsertMention(record); err != nil {
			return nil, helper.NewError(fmt.Sprintf("insert mention %d", i), err)
		}
		records[i] = record
	}
	return records, nil
}

// ResolveDocuments resolves documents concurrently with at most workers documents at a time.
// Every document gets its own linker. Results are in the order of docs.
func (c *Corefer) ResolveDocuments(ctx context.Context, docs []*model.Document, workers int) ([]*DocumentResult, error) {
	results := make([]*DocumentResult, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := c.ResolveDocument(ctx, doc)
			if err != nil {
				return helper.NewError(fmt.Sprintf("document %d", i), err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// TrainDocument runs the resolvers in train mode over an annotated document.
// The document is stored and the training events are attributed to it.
func (c *Corefer) TrainDocument(ctx context.Context, doc *model.Document) ([]model.Outcome, error) {
	if c.resolverSet == nil {
		return nil, helper.NewError("train document", fmt.Errorf("resolvers not set, use UseResolvers() first"))
	}

	mentions, err := c.mentionsOf(doc)
	if err != nil {
		return nil, helper.NewError("extract mentions", err)
	}

	if err := c.insertDocument(doc); err != nil {
		return nil, helper.NewError("insert document", err)
	}

	opts := append(c.resolverOptions(), resolver.WithEventSink(c.Events.ForDocument(doc.ID)))
	resolvers, err := c.resolverSet(model.ModeTrain, opts...)
	if err != nil {
		return nil, helper.NewError("create training resolvers", err)
	}

	linker, err := resolver.NewLinker(model.ModeTrain, resolvers...)
	if err != nil {
		return nil, helper.NewError("create linker", err)
	}

	outcomes := make([]model.Outcome, 0, len(mentions))
	for i := range mentions {
		if err := ctx.Err(); err != nil {
			return outcomes, helper.NewError("train document", err)
		}
		outcome, err := linker.Process(mentions[i])
		if err != nil {
			return outcomes, helper.NewError(fmt.Sprintf("mention %d", i), err)
		}
		outcomes = append(outcomes, outcome)
	}

	c.log.Info("Trained on document", slog.String("document_id", doc.RID.String()), slog.Int("mentions", len(mentions)))

	return outcomes, nil
}

const exportBatchSize = 1000

// ExportEvents copies the stored training events of a model to sink in insertion order.
// It returns the number of exported events.
func (c *Corefer) ExportEvents(modelName string, sink resolver.EventSink) (int, error) {
	var lastID int64
	n := 0
	for {
		events, err := c.Events.SelectEvents(modelName, lastID, exportBatchSize)
		if err != nil {
			return n, helper.NewError("select events", err)
		}
		if len(events) == 0 {
			return n, nil
		}

		for _, event := range events {
			if err := sink.Emit(*event); err != nil {
				return n, helper.NewError(fmt.Sprintf("export event %d", event.ID), err)
			}
			n++
			lastID = event.ID
		}
	}
}

// DocumentEntities returns the stored discourse entities of a document
func (c *Corefer) DocumentEntities(documentRID uuid.UUID) ([]*model.EntityRecord, error) {
	return c.Entities.SelectEntitiesByDocument(documentRID)
}

// DocumentMentions returns the stored mentions of a document in document order
func (c *Corefer) DocumentMentions(documentRID uuid.UUID) ([]*model.MentionRecord, error) {
	return c.Mentions.SelectMentionsByDocument(documentRID)
}

// DocumentSummary counts the stored entities and mention outcomes of a document
func (c *Corefer) DocumentSummary(documentRID uuid.UUID) (*model.DocumentSummary, error) {
	return c.Mentions.SelectDocumentSummary(documentRID)
}

// EntityMentions returns the stored mentions of a discourse entity
func (c *Corefer) EntityMentions(entityRID uuid.UUID) ([]*model.MentionRecord, error) {
	return c.Mentions.SelectMentionsByEntity(entityRID)
}

// SearchEntities searches discourse entities by name
func (c *Corefer) SearchEntities(term string, limit int) ([]*model.EntityRecord, error) {
	return c.Entities.SelectEntitiesBySearch(term, limit)
}

// SimilarEntities finds discourse entities whose embedding is close to the embedding of query.
// An empty documentRIDs searches all documents.
func (c *Corefer) SimilarEntities(ctx context.Context, query string, limit int, threshold float64, documentRIDs []uuid.UUID) ([]*model.EntityRecord, error) {
	if c.Pipeline == nil || c.Pipeline.Embedder == nil {
		return nil, helper.NewError("similar entities", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}
	if err := ctx.Err(); err != nil {
		return nil, helper.NewError("similar entities", err)
	}

	embedding, err := c.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return c.Entities.SelectEntitiesBySimilarity(embedding, limit, threshold, documentRIDs)
}

// ChangeIndexType changes the entity embedding index between HNSW and IVFFlat
func (c *Corefer) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return c.Entities.ChangeIndexType(ctx, indexType, params)
}
