package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, texts []string, apiKey, sourceLang, targetLang string) ([]string, error) {
	args := m.Called(ctx, texts, apiKey, sourceLang, targetLang)
	ret, _ := args.Get(0).([]string)
	return ret, args.Error(1)
}

type mockAccess struct {
	mock.Mock
}

func (m *mockAccess) ReadText(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *mockAccess) WriteText(path, content string) error {
	args := m.Called(path, content)
	return args.Error(0)
}

func (m *mockAccess) DeleteFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// upperTranslator "translates" by prefixing the target language.
type upperTranslator struct {
	mu    sync.Mutex
	calls [][]string
}

func (u *upperTranslator) Translate(_ context.Context, texts []string, _, _, targetLang string) ([]string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, append([]string(nil), texts...))
	u.mu.Unlock()

	ret := make([]string, len(texts))
	for i, t := range texts {
		ret[i] = targetLang + ":" + t
	}
	return ret, nil
}

func (u *upperTranslator) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n" +
	"2\n00:00:03,000 --> 00:00:04,000\nWorld\n\n" +
	"3\n00:00:05,000 --> 00:00:06,000\nBye"
