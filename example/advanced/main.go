package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/siherrmann/corefer"
	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/core/pipeline"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
)

// Annotated sample used when no mention files are given. Every mention gets the
// chain id at the same position, 0 marks a singleton.
var samples = []struct {
	content string
	chains  []int
}{
	{
		content: "Acme Corp reported earnings. Acme expanded. It hired staff.",
		chains:  []int{1, 0, 1, 1, 0},
	},
	{
		content: "Jane Doe joined Globex. She resigned. Globex expanded.",
		chains:  []int{1, 2, 1, 2},
	},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := corefer.NewCorefer(dbConfig, pipeline.EmbeddingDimension)
	if err != nil {
		log.Fatalf("Failed to create corefer: %v", err)
	}
	defer c.Close()

	// The lexicon tagger needs no model download
	c.SetPipeline(pipeline.NewPipeline(pipeline.SentenceTokenizer(nil), pipeline.NounPhraseDetector()))

	// Training needs no models, only an event sink per document
	if err := c.UseTrainingResolvers(corefer.ProjectResolvers("", "", false)); err != nil {
		log.Fatalf("Failed to set resolvers: %v", err)
	}

	docs, err := annotatedDocuments(c, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load documents: %v", err)
	}

	ctx := context.Background()
	for _, doc := range docs {
		outcomes, err := c.TrainDocument(ctx, doc)
		if err != nil {
			log.Fatalf("Failed to train on %s: %v", doc.Title, err)
		}
		fmt.Printf("Trained on %s: %d mentions\n", doc.Title, len(outcomes))
	}

	outDir, err := os.MkdirTemp("", "corefer-events")
	if err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	writer := classifier.NewEventWriter(func(modelName string) (io.Writer, error) {
		f, err := os.Create(filepath.Join(outDir, modelName+".events"))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	})

	for _, config := range []model.ResolverConfig{model.DefaultIsAConfig(), model.DefaultProperNounConfig(), model.DefaultSingularPronounConfig()} {
		for _, name := range []string{config.ModelName, config.ModelName + model.NonReferentialSuffix} {
			counts, err := c.Events.CountEvents(name)
			if err != nil {
				log.Fatalf("Failed to count events: %v", err)
			}
			n, err := c.ExportEvents(name, writer)
			if err != nil {
				log.Fatalf("Failed to export events: %v", err)
			}
			fmt.Printf("%-12s link=%d no-link=%d exported=%d\n", name, counts[model.LabelLink], counts[model.LabelNoLink], n)
		}
	}

	fmt.Printf("\nEvent files written to %s\n", outDir)
	fmt.Println("\nAdvanced example completed successfully!")
}

// annotatedDocuments reads JSON lines mention files, or annotates the samples
func annotatedDocuments(c *corefer.Corefer, paths []string) ([]*model.Document, error) {
	var docs []*model.Document
	for _, path := range paths {
		doc, err := model.NewDocumentFromMentionsFile(path, model.Metadata{"source": "annotated"})
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if len(docs) > 0 {
		return docs, nil
	}

	for i, sample := range samples {
		mentions, err := c.Pipeline.Process(sample.content)
		if err != nil {
			return nil, err
		}
		if len(mentions) != len(sample.chains) {
			return nil, fmt.Errorf("sample %d has %d mentions but %d chain ids", i, len(mentions), len(sample.chains))
		}
		for j := range mentions {
			mentions[j].GoldID = sample.chains[j]
		}
		docs = append(docs, &model.Document{
			Title:    fmt.Sprintf("sample %d", i),
			Source:   "advanced_example",
			Mentions: mentions,
		})
	}
	return docs, nil
}
