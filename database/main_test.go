package database

import (
	"context"
	"log"
	"testing"

	"github.com/siherrmann/corefer/helper"
	"github.com/siherrmann/corefer/model"
	loadSql "github.com/siherrmann/corefer/sql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var dbPort string

func TestMain(m *testing.M) {
	var teardown func(ctx context.Context, opts ...testcontainers.TerminateOption) error
	var err error
	teardown, dbPort, err = helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("error starting postgres container: %v", err)
	}

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatalf("error tearing down postgres container: %v", err)
	}
}

func initDB(t *testing.T) *helper.Database {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")
	database := helper.NewTestDatabase(dbConfig)
	t.Cleanup(func() { database.Close() })

	err = loadSql.Init(database.Instance)
	require.NoError(t, err)

	return database
}

// insertTestDocument stores a document the entity, mention and event rows can reference
func insertTestDocument(t *testing.T, database *helper.Database, title string) *model.Document {
	documentsDbHandler, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	doc := &model.Document{Title: title, Source: "test"}
	err = documentsDbHandler.InsertDocument(doc)
	require.NoError(t, err)
	t.Cleanup(func() { documentsDbHandler.DeleteDocument(doc.RID) })

	return doc
}
