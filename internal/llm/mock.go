package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error
	Models   []Model
	ListErr  error

	mu         sync.Mutex
	calls      int
	listCalls  int
	lastModel  string
	lastPrompt string
}

func (m *MockClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastModel = model
	m.lastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.Models, m.ListErr
}

// Calls devuelve cuántas veces se llamó a Generate.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ListCalls devuelve cuántas veces se consultó el catálogo.
func (m *MockClient) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// LastModel devuelve el modelo usado en la última llamada a Generate.
func (m *MockClient) LastModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastModel
}

// LastPrompt devuelve el prompt de la última llamada a Generate.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}
