package queue

const TypeKnowledgeEmbed = "knowledge:embed"

type KnowledgeEmbedPayload struct {
	DocumentID string `json:"document_id"`
}
