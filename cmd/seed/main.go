package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"draftdeck/internal/config"
	"draftdeck/internal/domain/services"
	"draftdeck/internal/prompts"
	"draftdeck/internal/repository/postgres"
	"draftdeck/internal/service"
	serviceLLM "draftdeck/internal/service/llm"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo documents")
	ownerID := flag.String("owner", "demo-user", "Owner ID the demo documents are created under")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Seed demo content through the service layer so generation, positions
	// and histories behave exactly as they do in the server. The lorem
	// provider keeps seeding offline regardless of TEXT_PROVIDER.
	cfg.TextProvider = "lorem"
	provider, err := serviceLLM.SetupProvider(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup text provider: %v", err)
	}

	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize prompt registry: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	sectionRepo := postgres.NewSectionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	docService := service.NewDocumentService(docRepo, sectionRepo, provider, promptRegistry, txManager, logger)

	log.Println("Seeding demo documents...")
	for i, seed := range getSeedDocuments() {
		doc, err := docService.CreateDocument(ctx, &services.CreateDocumentRequest{
			OwnerID: *ownerID,
			Title:   seed.title,
		})
		if err != nil {
			log.Printf("Failed to create document '%s': %v", seed.title, err)
			continue
		}

		doc, err = docService.GenerateDocument(ctx, doc.ID, *ownerID, &services.GenerateDocumentRequest{
			Prompt: seed.prompt,
			Theme:  seed.theme,
			Pages:  seed.pages,
		})
		if err != nil {
			log.Printf("Failed to generate document '%s': %v", seed.title, err)
			continue
		}

		log.Printf("Created document %d: %s (ID: %s, sections: %d)",
			i+1, seed.title, doc.ID, len(doc.Sections))
	}

	log.Println("Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create documents table. owner_id is TEXT, not UUID: the local identity
	// scheme mints arbitrary subject strings.
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			prompt TEXT NOT NULL DEFAULT '',
			theme TEXT NOT NULL DEFAULT '',
			page_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	// Create sections table
	createSections := `
		CREATE TABLE IF NOT EXISTS ` + tables.Sections + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			heading TEXT NOT NULL,
			section_type TEXT NOT NULL DEFAULT 'text',
			content TEXT NOT NULL DEFAULT '',
			last_feedback BOOLEAN,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(document_id, position)
		)
	`
	if _, err := pool.Exec(ctx, createSections); err != nil {
		return err
	}

	// Create refinements table (append-only)
	createRefinements := `
		CREATE TABLE IF NOT EXISTS ` + tables.Refinements + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			section_id UUID NOT NULL REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			prompt TEXT NOT NULL,
			revised_text TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createRefinements); err != nil {
		return err
	}

	// Create comments table (append-only)
	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			section_id UUID NOT NULL REFERENCES ` + tables.Sections + `(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_owner ON ` + tables.Documents + `(owner_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `sections_document ON ` + tables.Sections + `(document_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `refinements_section ON ` + tables.Refinements + `(section_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_section ON ` + tables.Comments + `(section_id, created_at)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Comments,
		tables.Refinements,
		tables.Sections,
		tables.Documents,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}

type seedDocument struct {
	title  string
	prompt string
	theme  string
	pages  int
}

func getSeedDocuments() []seedDocument {
	return []seedDocument{
		{
			title:  "Onboarding Guide",
			prompt: "A practical onboarding guide for new engineers joining a platform team",
			theme:  "friendly and direct",
			pages:  4,
		},
		{
			title:  "Quarterly Planning Primer",
			prompt: "How to run quarterly planning for a small product organization",
			theme:  "concise, executive tone",
			pages:  3,
		},
		{
			title:  "Incident Response Runbook",
			prompt: "A runbook covering detection, triage and postmortems for production incidents",
			theme:  "calm and procedural",
			pages:  5,
		},
	}
}
