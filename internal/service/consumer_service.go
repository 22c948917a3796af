package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/embedding"
	"doc-knowledge-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage re-embeds a single document: fetch it, split the content
// into overlapping chunks, embed each chunk, then atomically replace the
// document's fragments.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // invalid payload will never parse; do not retry
		return
	}

	log.Printf("[INFO] Processing document embedding for DocumentId: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document not found, skipping: %s", payload.DocumentId)
		msg.Ack()
		return
	}

	if doc.Content == "" {
		log.Printf("[WARN] Document %s has no embeddable content", payload.DocumentId)
		msg.Ack()
		return
	}

	// ChunkSize 1500 chars, overlap 200: conservative for embedding
	// context limits.
	chunks := utils.SplitText(doc.Content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	type embeddedChunk struct {
		fragment *entity.Fragment
		vector   []float32
	}
	var embedded []embeddedChunk

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}

		embedded = append(embedded, embeddedChunk{
			fragment: &entity.Fragment{
				Id:         uuid.New(),
				DocumentId: doc.Id,
				Filename:   doc.Filename,
				Content:    chunk,
				Bucket:     doc.Bucket,
			},
			vector: res.Embedding.Values,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.FragmentRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old fragments: %v", err)
		msg.Nack()
		return
	}

	for _, ec := range embedded {
		if err := uow.FragmentRepository().Create(ctx, ec.fragment, ec.vector); err != nil {
			log.Printf("[ERROR] Failed to create fragment: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d fragments for DocumentId: %s at %s",
		len(embedded), payload.DocumentId, time.Now().Format(time.RFC3339))
	msg.Ack()
}
