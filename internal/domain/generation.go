package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationStatus type for generation lifecycle
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationGenerated GenerationStatus = "generated" // Terminal: payload present
	GenerationFailed    GenerationStatus = "failed"    // Terminal: errorMessage present
)

// GenerationKind identifies what is being generated. Each kind has its own cooldown timeline.
type GenerationKind string

const (
	GenerationDietPlan GenerationKind = "diet_plan"
)

// GenerationPayload is the generated content. Content is opaque to the scheduler.
type GenerationPayload struct {
	Content     string `bson:"content" json:"content"`
	ArtifactKey string `bson:"artifactKey,omitempty" json:"-"`                     // S3 object key, internal use
	ArtifactURL string `bson:"-" json:"artifactUrl,omitempty"`                     // Presigned on read, never stored
	ContentType string `bson:"contentType,omitempty" json:"contentType,omitempty"` // MIME type of the artifact
}

// GenerationRecord is one entry on a user's generation timeline.
// NextGenerationDate is fixed at creation.
type GenerationRecord struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID            primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Kind               GenerationKind     `bson:"kind" json:"kind"`
	GeneratedAt        time.Time          `bson:"generatedAt" json:"generatedAt"`
	NextGenerationDate time.Time          `bson:"nextGenerationDate" json:"nextGenerationDate"`
	Payload            *GenerationPayload `bson:"payload,omitempty" json:"payload,omitempty"`
	Status             GenerationStatus   `bson:"status" json:"status"`
	ErrorMessage       string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	AttemptCount       int                `bson:"attemptCount" json:"attemptCount"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsTerminal reports whether the record has left the pending state.
func (g *GenerationRecord) IsTerminal() bool {
	return g.Status == GenerationGenerated || g.Status == GenerationFailed
}
