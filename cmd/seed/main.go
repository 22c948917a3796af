package main

import (
	"context"
	"log"
	"time"

	"doc-knowledge-be/internal/config"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/database"
	"doc-knowledge-be/pkg/embedding"
	"doc-knowledge-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email    string
	fullName string
	role     entity.UserRole
	password string
}

type seedDocument struct {
	filename string
	bucket   entity.Bucket
	content  string
}

func main() {
	color.Cyan("Seeding doc-knowledge development data\n")

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embedder = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.OpenAIEmbedModel)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	color.Yellow("\n1. Seeding users")
	users := []seedUser{
		{"superuser@example.com", "Seed Superuser", entity.UserRoleSuperuser, "superuser-dev-password"},
		{"admin@example.com", "Seed Admin", entity.UserRoleAdmin, "admin-dev-password"},
		{"reader@example.com", "Seed Reader", entity.UserRoleUser, "reader-dev-password"},
	}
	for _, su := range users {
		existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: su.email})
		if err != nil {
			color.Red("Failed lookup for %s: %v", su.email, err)
			continue
		}
		if existing != nil {
			color.Green("Exists: %s (%s)", su.email, su.role)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			color.Red("Failed to hash password for %s: %v", su.email, err)
			continue
		}
		hashStr := string(hash)

		now := time.Now()
		user := &entity.User{
			Id:           uuid.New(),
			Email:        su.email,
			FullName:     su.fullName,
			PasswordHash: &hashStr,
			Role:         su.role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			color.Red("Failed to create %s: %v", su.email, err)
			continue
		}
		color.Green("Created: %s (%s)", su.email, su.role)
	}

	color.Yellow("\n2. Seeding documents and fragments")
	docs := []seedDocument{
		{
			filename: "onboarding-guide.md",
			bucket:   entity.BucketPublic,
			content: "Welcome to the team. This guide covers the first week: account setup, " +
				"where to find the engineering handbook, and how to request hardware. " +
				"All information here is shared with every employee and contractor.",
		},
		{
			filename: "public-api-reference.md",
			bucket:   entity.BucketPublic,
			content: "The public API exposes search over the shared document corpus. " +
				"Requests are rate limited per token. Responses include relevance scores " +
				"between zero and one, ordered from most to least relevant.",
		},
		{
			filename: "salary-bands-2026.md",
			bucket:   entity.BucketConfidential,
			content: "Compensation bands for 2026 by level and region. This document is " +
				"restricted to administrators and must not be shared outside the " +
				"compensation committee.",
		},
	}

	for _, sd := range docs {
		existing, err := uow.DocumentRepository().FindOne(ctx, specification.Filter("filename", sd.filename))
		if err != nil {
			color.Red("Failed lookup for %s: %v", sd.filename, err)
			continue
		}
		if existing != nil {
			color.Green("Exists: %s (%s)", sd.filename, sd.bucket)
			continue
		}

		now := time.Now()
		doc := &entity.Document{
			Id:        uuid.New(),
			Filename:  sd.filename,
			Bucket:    sd.bucket,
			Content:   sd.content,
			Metadata:  map[string]interface{}{"seed": true},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
			color.Red("Failed to create document %s: %v", sd.filename, err)
			continue
		}

		chunks := utils.SplitText(sd.content, 1500, 200)
		created := 0
		for _, chunk := range chunks {
			res, err := embedder.Generate(ctx, chunk)
			if err != nil {
				color.Red("Failed to embed chunk of %s: %v", sd.filename, err)
				break
			}
			frag := &entity.Fragment{
				Id:         uuid.New(),
				DocumentId: doc.Id,
				Filename:   doc.Filename,
				Content:    chunk,
				Bucket:     doc.Bucket,
			}
			if err := uow.FragmentRepository().Create(ctx, frag, res.Embedding.Values); err != nil {
				color.Red("Failed to store fragment of %s: %v", sd.filename, err)
				break
			}
			created++
		}
		color.Green("Created: %s (%s, %d fragments)", sd.filename, sd.bucket, created)
	}

	color.Cyan("\nSeed complete")
}
