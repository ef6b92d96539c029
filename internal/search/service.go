package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/0x5457/signclip/internal/constants"
	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/storage"
	"gonum.org/v1/gonum/mat"
)

// Scorer scores a pose against a text in one joint forward pass.
type Scorer interface {
	ScorePoseAndText(ctx context.Context, p *pose.Pose, text string) (string, float64, error)
}

// Service scores poses against texts and searches indexed poses by text.
type Service struct {
	Embedder embeddings.Embedder
	Scorer   Scorer
	Vector   storage.VectorStore
}

// Prediction is a scored prompt.
type Prediction struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// ScoreBatch returns the poses × texts matrix of dot products between pose
// and text embeddings.
func (s *Service) ScoreBatch(ctx context.Context, poses []*pose.Pose, texts []string) (*mat.Dense, error) {
	if len(poses) == 0 || len(texts) == 0 {
		return nil, errors.New("score batch needs at least one pose and one text")
	}
	pe, err := s.Embedder.EmbedPoses(ctx, poses)
	if err != nil {
		return nil, err
	}
	te, err := s.Embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	var scores mat.Dense
	scores.Mul(pe, te.T())
	return &scores, nil
}

// LanguagePrompt is the prompt scored for a language tag.
func LanguagePrompt(lang string) string {
	return fmt.Sprintf("<en> <%s> %s", lang, constants.GuessLanguagePrompt)
}

// GuessLanguage scores the pose against the language prompt of every tag
// and returns all predictions, highest score first. Ties keep input order.
// A nil languages uses SignLanguages.
func (s *Service) GuessLanguage(ctx context.Context, p *pose.Pose, languages []string) ([]Prediction, error) {
	if languages == nil {
		languages = SignLanguages
	}
	predictions := make([]Prediction, 0, len(languages))
	for _, lang := range languages {
		text, score, err := s.Scorer.ScorePoseAndText(ctx, p, LanguagePrompt(lang))
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", lang, err)
		}
		predictions = append(predictions, Prediction{Text: text, Score: score})
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
	return predictions, nil
}

// Search embeds the query and returns the topK closest indexed poses.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]models.SemanticHit, error) {
	if s.Vector == nil {
		return nil, errors.New("no vector store configured")
	}
	qvec, err := s.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.Vector.Query(qvec, topK)
}
