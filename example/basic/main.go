package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/corefer"
	"github.com/siherrmann/corefer/core/classifier"
	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
)

const sampleContent = `Acme Corp reported record earnings on Monday. Acme said the results beat expectations.
Jane Doe, the chief executive of Acme Corp, praised the team. She expects it to grow next year.
Analysts called Acme a leader in the market.`

// sampleModels writes small hand weighted models, a real project trains them from events
func sampleModels(dir string) error {
	outcomes := []string{model.LabelLink, model.LabelNoLink}
	models := map[string]map[string][]float64{
		"imodel": {
			"default": {1, -1},
		},
		"pnmodel": {
			"default":       {-2, 2},
			"pn-exact":      {5, -5},
			"pn-head":       {3, -3},
			"pn-acronym":    {3, -3},
			"pn-overlap=1":  {3, -3},
			"pn-overlap=2+": {4, -4},
		},
		"pmodel": {
			"default": {-1, 1},
			"ct=NNP":  {2, -2},
			"ne=PER":  {1, -1},
			"ne=ORG":  {1, -1},
		},
	}

	for name, parameters := range models {
		m, err := classifier.NewModel(outcomes, parameters)
		if err != nil {
			return err
		}
		if err := m.Save(dir, "en", name); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := corefer.NewCorefer(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create corefer: %v", err)
	}
	defer c.Close()

	// Tagger, mention detector, NER and embeddings
	if err := c.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	modelDir, err := os.MkdirTemp("", "corefer-models")
	if err != nil {
		log.Fatalf("Failed to create model directory: %v", err)
	}
	defer os.RemoveAll(modelDir)

	if err := sampleModels(modelDir); err != nil {
		log.Fatalf("Failed to write models: %v", err)
	}
	if err := c.UseResolvers(corefer.ProjectResolvers(modelDir, "en", false)); err != nil {
		log.Fatalf("Failed to load resolvers: %v", err)
	}

	doc := &model.Document{
		Title:   "Acme earnings",
		Source:  "basic_example",
		Content: sampleContent,
		Metadata: model.Metadata{
			"topic": "business",
		},
	}

	fmt.Println("Resolving document...")
	result, err := c.ResolveDocument(context.Background(), doc)
	if err != nil {
		log.Fatalf("Failed to resolve document: %v", err)
	}
	fmt.Printf("Document inserted with ID: %s\n", doc.RID)

	// Display the chains
	chains := map[int64][]string{}
	for _, m := range result.Mentions {
		if m.EntityID != nil {
			chains[*m.EntityID] = append(chains[*m.EntityID], m.Mention.Text())
		}
	}
	for _, e := range result.Entities {
		if e.MentionCount > 1 {
			fmt.Printf("\n%s (%s): %v\n", e.Name, e.NEType, chains[e.ID])
		}
	}

	queryText := "the company"
	fmt.Printf("\nEntities similar to: %s\n", queryText)
	similar, err := c.SimilarEntities(context.Background(), queryText, 3, 0.0, nil)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	for _, e := range similar {
		fmt.Printf("%.4f %s\n", e.Similarity, e.Name)
	}

	fmt.Println("\nBasic example completed successfully!")
}
