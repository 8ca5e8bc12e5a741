package usecase

import (
	"context"
	"errors"
	"sync"

	"NewsNarrator/internal/domain"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.reply == nil {
		return "generated", nil
	}
	return g.reply(prompt)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// echoGenerator returns the prompt unchanged, a deterministic stand-in for
// a composer that concatenates its input.
func echoGenerator() *fakeGenerator {
	return &fakeGenerator{reply: func(prompt string) (string, error) { return prompt, nil }}
}

func failingGenerator() *fakeGenerator {
	return &fakeGenerator{reply: func(string) (string, error) { return "", errors.New("quota exceeded") }}
}

type fakeSynth struct {
	texts []string
	voice domain.VoiceConfig
	audio []byte
	err   error
}

func (s *fakeSynth) Synthesize(_ context.Context, text string, voice domain.VoiceConfig) ([]byte, error) {
	s.texts = append(s.texts, text)
	s.voice = voice
	return s.audio, s.err
}

type memStore struct {
	files map[string][]byte
}

func (m *memStore) Save(_ context.Context, path string, data []byte) (string, error) {
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[path] = data
	return path, nil
}

type fakeSource struct {
	articles []domain.Article
	err      error
}

func (s *fakeSource) FetchArticles(context.Context) ([]domain.Article, error) {
	return s.articles, s.err
}

type fakeRepo struct {
	narrated map[string]bool
	err      error
	episodes []domain.Episode
}

func (r *fakeRepo) AlreadyNarrated(_ context.Context, links []string) (map[string]bool, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]bool{}
	for _, l := range links {
		if r.narrated[l] {
			out[l] = true
		}
	}
	return out, nil
}

func (r *fakeRepo) SaveEpisode(_ context.Context, ep domain.Episode) error {
	r.episodes = append(r.episodes, ep)
	return r.err
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (n *fakeNotifier) PublishEpisode(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}
